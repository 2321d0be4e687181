package entity

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is closed")
	ErrEventIgnored      = errors.New("event ignored in current state")
	ErrNoResponse        = errors.New("no response detected")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrReportNotReady    = errors.New("final report not available")
	ErrInterviewNotFound = errors.New("interview not found")

	// Remote service errors
	ErrEmptyQuestion = errors.New("question service returned empty content")
	ErrRemoteFailure = errors.New("remote service failure")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file too large")
)
