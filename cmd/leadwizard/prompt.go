package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/umeloans/lead-capture/internal/wizard"
)

// backKey typed at any prompt returns to the previous step.
const backKey = "<"

var fieldLabels = map[string]string{
	"loanAmount": "Loan amount (AUD)",
	"loanType":   "Loan type",
	"fname":      "First name",
	"mname":      "Middle name (optional)",
	"lname":      "Last name",
	"email":      "Email",
	"phone":      "Phone",
	"dob":        "Date of birth (YYYY-MM-DD)",
	"state":      "State",
	"postcode":   "Postcode",
}

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints label and reads one line. An empty answer keeps current.
func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (p *prompter) askField(field, current string) (string, error) {
	opts := wizard.OptionsFor(field)
	for i, o := range opts {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o.Label)
	}

	answer, err := p.ask(fieldLabels[field], current)
	if err != nil || opts == nil {
		return answer, err
	}
	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(opts) {
		return opts[n-1].Value, nil
	}
	return answer, nil
}

func run(ctx context.Context, in io.Reader, out io.Writer, wz *wizard.Wizard) error {
	p := &prompter{in: bufio.NewScanner(in), out: out}

	for !wz.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := wz.Step()
		fmt.Fprintf(out, "\nStep %d of %d: %s (%s)\n", step.ID, len(wizard.Steps), step.Title, step.Description)
		if step.ID > wizard.StepLoanDetails {
			fmt.Fprintf(out, "Type %q to go back.\n", backKey)
		}

		back, err := fillStep(ctx, p, wz, step)
		if err != nil {
			return err
		}
		if back {
			wz.Previous()
			continue
		}

		if err := wz.Next(ctx); err != nil {
			report(out, err)
		}
	}

	fmt.Fprintln(out, "\nYour email is verified. Continue on the website to provide your ID.")
	return nil
}

// fillStep collects the answers for step. It reports true when the applicant
// asked to go back.
func fillStep(ctx context.Context, p *prompter, wz *wizard.Wizard, step wizard.Step) (bool, error) {
	if step.ID == wizard.StepVerification {
		if wz.DevOTP != "" {
			fmt.Fprintf(p.out, "Development code: %s\n", wz.DevOTP)
		}
		for {
			if msg := wz.Errors["otp"]; msg != "" && wz.ShouldShowErrors(step.ID) {
				fmt.Fprintf(p.out, "  ! %s\n", msg)
			}
			answer, err := p.ask("Code from your email (r to resend)", "")
			if err != nil {
				return false, err
			}
			switch answer {
			case backKey:
				return true, nil
			case "r":
				msg, err := wz.Resend(ctx)
				if err != nil {
					report(p.out, err)
					if errors.Is(err, wizard.ErrSessionExpired) {
						return false, nil
					}
					continue
				}
				fmt.Fprintln(p.out, msg)
				if wz.DevOTP != "" {
					fmt.Fprintf(p.out, "Development code: %s\n", wz.DevOTP)
				}
				continue
			}
			wz.Set("otp", answer)
			return false, nil
		}
	}

	for _, f := range step.Fields {
		if msg := wz.Errors[f]; msg != "" && wz.ShouldShowErrors(step.ID) {
			fmt.Fprintf(p.out, "  ! %s\n", msg)
		}
		answer, err := p.askField(f, wz.Data[f])
		if err != nil {
			return false, err
		}
		if answer == backKey && step.ID > wizard.StepLoanDetails {
			return true, nil
		}
		wz.Set(f, answer)
	}
	return false, nil
}

func report(out io.Writer, err error) {
	var stepErr *wizard.StepError
	var apiErr *wizard.APIError
	switch {
	case errors.As(err, &stepErr):
		fmt.Fprintln(out, "Please fix the highlighted fields.")
	case errors.Is(err, wizard.ErrSessionExpired):
		fmt.Fprintln(out, "Session expired. Please start over.")
	case errors.As(err, &apiErr):
		fmt.Fprintf(out, "Error: %s\n", apiErr.Error())
	default:
		fmt.Fprintf(out, "Request failed: %v\n", err)
	}
}
