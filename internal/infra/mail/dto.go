package mail

type OTPEmailData struct {
	Name             string
	Code             string
	ExpiresInMinutes int
}
