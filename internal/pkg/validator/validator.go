package validator

import (
	"github.com/futig/interview-backend/internal/config"
)

const (
	maxTotalQuestions  = 20
	maxCustomQuestions = 20
	maxResumeLength    = 50_000
	maxTranscriptChars = 20_000
)

// AllowedAudioExtensions lists accepted recorded answer formats
var AllowedAudioExtensions = map[string]bool{
	".wav":  true,
	".webm": true,
	".ogg":  true,
	".mp3":  true,
	".m4a":  true,
}

// Validator validates interview requests and audio uploads
type Validator struct {
	cfg config.AudioUploadConfig
}

func NewValidator(cfg config.AudioUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}
