package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest   = errors.New("invalid request parameters")
	ErrInvalidFile      = errors.New("invalid file")
	ErrGenerationFailed = errors.New("recipe generation failed")
	ErrOCRFailed        = errors.New("OCR processing failed")
	ErrQuotaExceeded    = errors.New("quota exceeded: too many tokens used today")
)
