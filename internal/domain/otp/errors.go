package otp

import "errors"

var ErrOTPNotFound = errors.New("otp not found")
