package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/futig/interview-backend/internal/entity"
)

// ValidateCreateSession validates CreateSessionRequest
func (v *Validator) ValidateCreateSession(req *entity.CreateSessionRequest) error {
	if req.InterviewType != "" && !req.InterviewType.Valid() {
		return fmt.Errorf("%w: interview_type must be one of behavioral, technical, mixed", entity.ErrInvalidParameter)
	}

	if req.TotalQuestions < 0 || req.TotalQuestions > maxTotalQuestions {
		return fmt.Errorf("%w: total_questions must be between 1 and %d", entity.ErrInvalidParameter, maxTotalQuestions)
	}

	return nil
}

// ValidatePersonalize validates PersonalizeRequest
func (v *Validator) ValidatePersonalize(req *entity.PersonalizeRequest) error {
	if req.ResumeText != nil && utf8.RuneCountInString(*req.ResumeText) > maxResumeLength {
		return fmt.Errorf("%w: resume_text exceeds %d characters", entity.ErrInvalidParameter, maxResumeLength)
	}
	if req.JobDescription != nil && utf8.RuneCountInString(*req.JobDescription) > maxResumeLength {
		return fmt.Errorf("%w: job_description exceeds %d characters", entity.ErrInvalidParameter, maxResumeLength)
	}

	if len(req.CustomQuestions) > maxCustomQuestions {
		return fmt.Errorf("%w: at most %d custom_questions", entity.ErrInvalidParameter, maxCustomQuestions)
	}
	for i, q := range req.CustomQuestions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: custom_questions[%d]", entity.ErrMissingField, i)
		}
	}

	return nil
}

// ValidateTranscript validates incremental transcript text
func (v *Validator) ValidateTranscript(text string) error {
	if utf8.RuneCountInString(text) > maxTranscriptChars {
		return fmt.Errorf("%w: transcript exceeds %d characters", entity.ErrInvalidParameter, maxTranscriptChars)
	}
	return nil
}

// ValidateSubmitAudioAnswer validates audio answer submission
func (v *Validator) ValidateSubmitAudioAnswer(req *entity.SubmitAudioAnswerRequest) error {
	if req.AudioFile == nil {
		return fmt.Errorf("%w: audio file", entity.ErrMissingField)
	}

	return v.ValidateAudioFile(req.AudioFile)
}

// ValidateAudioFile validates recorded answer uploads
func (v *Validator) ValidateAudioFile(file *multipart.FileHeader) error {
	if file == nil {
		return entity.ErrMissingField
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedAudioExtensions[ext] {
		return fmt.Errorf("%w: %q (allowed: .wav, .webm, .ogg, .mp3, .m4a)", entity.ErrInvalidExtension, ext)
	}

	if file.Size > v.cfg.MaxAudioFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, file.Filename, file.Size, v.cfg.MaxAudioFileSize)
	}

	// Check content type if provided
	contentType := file.Header.Get("Content-Type")
	if contentType != "" &&
		!strings.HasPrefix(contentType, "audio/") &&
		!strings.HasPrefix(contentType, "video/webm") &&
		contentType != "application/octet-stream" {
		return fmt.Errorf("%w: content type '%s' (expected audio/* or application/octet-stream)", entity.ErrInvalidExtension, contentType)
	}

	return nil
}
