package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/emotion"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var mockQuestions = map[entity.InterviewType][]string{
	entity.InterviewTypeBehavioral: {
		"[warm smile] Tell me about yourself and what brings you here today.",
		"[lean forward] Describe a challenge you faced at work and how you overcame it.",
		"[curious] Tell me about a conflict with a teammate. How did you resolve it?",
		"[thinking] What would you say is your greatest weakness?",
		"[encouraging] Tell me about a time you showed leadership without a formal title.",
		"[smile] Why do you want to work at our company?",
	},
	entity.InterviewTypeTechnical: {
		"[warm smile] Walk me through the architecture of a system you built recently.",
		"[thinking] How would you design a rate limiter for a public API?",
		"[curious] Explain how you would debug a memory leak in a production service.",
		"[lean forward] How do you decide between SQL and NoSQL storage for a new feature?",
		"[serious] Describe how you would make a deployment pipeline safe to roll back.",
		"[nod] What trade-offs do you consider when introducing a cache?",
	},
}

// MockConnector - мок-реализация LLM коннектора для тестирования
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// GenerateQuestion - мок генерации вопроса
func (m *MockConnector) GenerateQuestion(ctx context.Context, req *entity.QuestionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating question via LLM",
		zap.Int("question_number", req.QuestionNumber),
		zap.Bool("follow_up", req.IsFollowUp),
	)

	if req.IsFollowUp {
		return "[encouraging] Could you walk me through a concrete example of that?", nil
	}

	pool := mockQuestions[req.InterviewType]
	if req.InterviewType == entity.InterviewTypeMixed || len(pool) == 0 {
		pool = interleave(mockQuestions[entity.InterviewTypeBehavioral], mockQuestions[entity.InterviewTypeTechnical])
	}

	asked := make(map[string]struct{}, len(req.PreviousQuestions))
	for _, q := range req.PreviousQuestions {
		asked[q] = struct{}{}
	}

	for i := range pool {
		q := pool[(req.QuestionNumber-1+i)%len(pool)]
		if _, seen := asked[emotion.Parse(q).Clean]; !seen {
			return q, nil
		}
	}

	return fmt.Sprintf("[smile] Question %d: what else should we know about you?", req.QuestionNumber), nil
}

// AnalyzeAnswer - мок анализа ответа: оценка растет с длиной ответа
func (m *MockConnector) AnalyzeAnswer(ctx context.Context, req *entity.AnalysisRequest) (*entity.Feedback, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing answer via LLM")

	words := len(strings.Fields(req.UserResponse))
	score := math.Min(10, 3+float64(words)/15)

	return &entity.Feedback{
		Score:        math.Round(score*10) / 10,
		Feedback:     "Clear structure. Tie the outcome back to measurable impact.",
		Strengths:    []string{"Relevant example", "Logical flow"},
		Improvements: []string{"Quantify the result", "Mention what you would do differently"},
	}, nil
}

// GenerateReport - мок итогового отчета на основе оценок ответов
func (m *MockConnector) GenerateReport(ctx context.Context, req *entity.ReportRequest) (*entity.FinalReport, error) {
	ctxzap.Info(ctx, "[MOCK] generating report via LLM", zap.Int("responses", len(req.AllResponses)))

	var total float64
	var scored int
	feedback := make([]entity.QuestionFeedback, 0, len(req.AllResponses))
	for _, r := range req.AllResponses {
		qf := entity.QuestionFeedback{Question: r.Question}
		if r.Feedback != nil {
			total += r.Feedback.Score
			scored++
			qf.Score = r.Feedback.Score
			qf.Feedback = r.Feedback.Feedback
		} else if r.IsSkipped() {
			qf.Feedback = "Skipped"
		}
		feedback = append(feedback, qf)
	}

	overall := 0.0
	if scored > 0 {
		overall = math.Round(total/float64(scored)*10) / 10
	}

	return &entity.FinalReport{
		OverallScore:       overall,
		CommunicationScore: overall,
		ConfidenceScore:    math.Max(0, overall-0.5),
		TechnicalScore:     overall,
		Summary:            fmt.Sprintf("Answered %d of %d questions with an average score of %.1f.", scored, len(req.AllResponses), overall),
		Strengths:          []string{"Communicates clearly", "Uses concrete examples"},
		Improvements:       []string{"Quantify impact", "Keep answers focused"},
		Recommendations:    []string{"Practice the STAR method", "Prepare two stories per competency"},
		QuestionFeedback:   feedback,
		NextSteps:          []string{"Schedule another mock interview in a week"},
	}, nil
}

func interleave(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}
