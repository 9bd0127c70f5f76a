package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrMalformedName    = errors.New("name must be exactly two whitespace-separated tokens")
	ErrInvalidBloodType = errors.New("invalid blood type")
)
