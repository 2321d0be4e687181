package entity

// CallbackEventType represents the type of callback event
type CallbackEventType string

const (
	CallbackEventTypeInterviewCompleted CallbackEventType = "interviewCompleted"
)

// CallbackEvent represents a callback event
type CallbackEvent struct {
	Event     CallbackEventType `json:"event"`
	Timestamp string            `json:"timestamp"` // ISO-8601 UTC
	Data      any               `json:"data"`
}

// CallbackInterviewCompletedData is sent once per completed interview
type CallbackInterviewCompletedData struct {
	Progress
	OverallScore float64 `json:"overallScore"`
	Questions    int     `json:"questions"`
	Skipped      int     `json:"skipped"`
}
