package turn

import "github.com/futig/interview-backend/internal/entity"

// Effect is a side effect requested by Reduce and executed by the runtime
type Effect interface {
	effect()
}

// RequestQuestion asks the question service for a question or follow-up.
// The result must be dispatched back as QuestionReady or RemoteFailure.
type RequestQuestion struct {
	Seq     uint64
	Request entity.QuestionRequest
}

// RequestAnalysis asks for per-answer feedback. The result must be
// dispatched back as AnalysisReady (nil feedback on failure).
type RequestAnalysis struct {
	Seq      uint64
	Question string
	Answer   string
}

// RequestReport asks for the final report. The result must be dispatched
// back as ReportReady or RemoteFailure.
type RequestReport struct {
	Seq       uint64
	Responses []entity.Response
}

type Speak struct {
	Text string
}

type StartListening struct{}

type StopListening struct{}

type CancelSpeech struct{}

type ReleaseCamera struct{}

// RecordProgress hands summary scores to the progress tracker
type RecordProgress struct {
	Progress entity.Progress
}

type NoticeCode string

const (
	NoticeQuestionFailed NoticeCode = "question_failed"
	NoticeAnalysisFailed NoticeCode = "analysis_failed"
	NoticeReportFailed   NoticeCode = "report_failed"
	NoticeNoResponse     NoticeCode = "no_response"
)

// Notice is a transient, non-blocking message for the user
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

type Notify struct {
	Notice Notice
}

func (RequestQuestion) effect() {}
func (RequestAnalysis) effect() {}
func (RequestReport) effect()   {}
func (Speak) effect()           {}
func (StartListening) effect()  {}
func (StopListening) effect()   {}
func (CancelSpeech) effect()    {}
func (ReleaseCamera) effect()   {}
func (RecordProgress) effect()  {}
func (Notify) effect()          {}
