package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/umeloans/lead-capture/internal/wizard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiURL  string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "leadwizard",
		Short: "Walk through the loan application form on a terminal",
		Long: "leadwizard asks for the loan and personal details, submits them to the " +
			"lead capture API and verifies the emailed code.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logrus.WarnLevel)
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := wizard.NewClient(apiURL, timeout, logger)
			return run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), wizard.New(client))
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the lead capture API")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "per-request timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log API calls")
	cmd.SetContext(context.Background())
	return cmd
}
