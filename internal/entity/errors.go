package entity

import "errors"

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrOTPInvalid   = errors.New("invalid OTP")
	ErrOTPExpired   = errors.New("OTP expired")
	ErrOTPAttempts  = errors.New("too many OTP attempts")
)
