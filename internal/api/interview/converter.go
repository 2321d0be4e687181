package interview

import (
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
)

// toSessionDTO converts a live session snapshot to SessionDTO
func toSessionDTO(snapshot *interviewuc.Snapshot) *entity.SessionDTO {
	s := snapshot.Session

	tips := make([]entity.TipDTO, 0, len(s.Tips))
	for _, t := range s.Tips {
		tips = append(tips, entity.TipDTO{
			Kind:          string(t.Kind),
			Text:          t.Text,
			QuestionIndex: t.QuestionIndex,
		})
	}

	responses := s.Responses
	if responses == nil {
		responses = []entity.Response{}
	}

	return &entity.SessionDTO{
		ID:              snapshot.ID,
		Phase:           string(s.Phase),
		State:           string(s.State),
		InterviewType:   s.Config.InterviewType,
		TotalQuestions:  s.Config.TotalQuestions,
		QuestionIndex:   s.QuestionIndex,
		FollowUpCount:   s.FollowUpCount,
		CurrentQuestion: s.CurrentQuestionDisplay,
		CurrentEmotion:  s.CurrentEmotion,
		Transcript:      s.Transcript,
		Responses:       responses,
		Tips:            tips,
		Capabilities:    toCapabilitiesDTO(s.Config.Capabilities),
		Personalization: s.Personalization,
		FinalReport:     s.FinalReport,
		Busy:            s.InFlight(),
	}
}

func toCapabilitiesDTO(c turn.Capabilities) entity.CapabilitiesDTO {
	return entity.CapabilitiesDTO{
		SpeechRecognition: c.SpeechRecognition,
		SpeechSynthesis:   c.SpeechSynthesis,
	}
}

func toCreateSessionRequest(req *entity.CreateSessionRequest) interviewuc.CreateSessionRequest {
	return interviewuc.CreateSessionRequest{
		Profile:        req.Profile,
		InterviewType:  req.InterviewType,
		TotalQuestions: req.TotalQuestions,
		Capabilities: turn.Capabilities{
			SpeechRecognition: req.Capabilities.SpeechRecognition,
			SpeechSynthesis:   req.Capabilities.SpeechSynthesis,
		},
		RequireCamera: req.RequireCamera,
	}
}

func toPersonalization(req *entity.PersonalizeRequest) *entity.Personalization {
	if req.ResumeText == nil && req.JobDescription == nil && len(req.CustomQuestions) == 0 {
		return nil
	}
	return &entity.Personalization{
		ResumeText:      req.ResumeText,
		JobDescription:  req.JobDescription,
		CustomQuestions: req.CustomQuestions,
	}
}

func toNoticeDTO(n *turn.Notice) *entity.NoticeDTO {
	return &entity.NoticeDTO{Code: string(n.Code), Message: n.Message}
}
