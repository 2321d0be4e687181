package turn

import (
	"fmt"
	"slices"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/emotion"
	"github.com/futig/interview-backend/internal/interview/followup"
	"github.com/futig/interview-backend/internal/interview/protip"
)

// FallbackFollowUp is asked when follow-up generation fails
const FallbackFollowUp = "Could you elaborate a bit more on that? Perhaps share a specific example."

// Reduce applies ev to s. Events that are not valid for the current phase,
// state or pending call return s unchanged with an error wrapping
// entity.ErrEventIgnored.
func Reduce(s Session, ev Event) (Session, []Effect, error) {
	switch e := ev.(type) {
	case Personalize:
		return personalize(s, e)
	case StartInterview:
		return startInterview(s, e)
	case QuestionReady:
		return questionReady(s, e)
	case RemoteFailure:
		return remoteFailure(s, e)
	case SpeechEnded:
		return speechEnded(s, e)
	case TranscriptUpdated:
		return transcriptUpdated(s, e)
	case TranscriptSubmitted:
		return transcriptSubmitted(s, e)
	case AnalysisReady:
		return analysisReady(s, e)
	case ReportReady:
		return reportReady(s, e)
	case Skip:
		return skip(s, e)
	case EndEarly:
		return endEarly(s, e)
	case Restart:
		return restart(s)
	default:
		return s, nil, fmt.Errorf("%w: unknown event %T", entity.ErrEventIgnored, ev)
	}
}

func ignored(s Session, ev Event) (Session, []Effect, error) {
	return s, nil, fmt.Errorf("%w: %s in phase '%s' state '%s'", entity.ErrEventIgnored, ev.Name(), s.Phase, s.State)
}

func personalize(s Session, e Personalize) (Session, []Effect, error) {
	if s.Phase != PhasePersonalizing || s.InFlight() {
		return ignored(s, e)
	}

	s.Personalization = clonePersonalization(e.Personalization)
	s.Phase = PhaseSettingUp
	return s, nil, nil
}

func startInterview(s Session, e StartInterview) (Session, []Effect, error) {
	if s.Phase != PhaseSettingUp || s.InFlight() {
		return ignored(s, e)
	}

	s.Phase = PhaseInterviewing
	s.State = StateIdle
	s.QuestionIndex = len(s.Responses) + 1
	s.FollowUpCount = 0
	s.Transcript = ""
	s.PendingAnswer = ""

	if len(s.Responses) >= s.Config.TotalQuestions {
		s.QuestionIndex = len(s.Responses)
		s.ResumeState = StateIdle
		return beginReport(s, nil)
	}

	return beginQuestion(s, nil)
}

func questionReady(s Session, e QuestionReady) (Session, []Effect, error) {
	if !awaiting(s, e.Seq, CallQuestion, CallFollowUp) {
		return ignored(s, e)
	}

	isFollowUp := s.Pending.Call == CallFollowUp
	if strings.TrimSpace(e.Content) == "" {
		return remoteFailure(s, RemoteFailure{Seq: e.Seq, Err: entity.ErrEmptyQuestion})
	}

	return applyQuestion(s, e.Content, isFollowUp, nil)
}

func remoteFailure(s Session, e RemoteFailure) (Session, []Effect, error) {
	if !awaiting(s, e.Seq, CallQuestion, CallFollowUp, CallAnalysis, CallReport) {
		return ignored(s, e)
	}

	call := s.Pending.Call
	s.Pending = nil

	switch call {
	case CallFollowUp:
		return applyQuestion(s, FallbackFollowUp, true, nil)

	case CallQuestion:
		s.Phase = PhaseSettingUp
		s.State = StateIdle
		return s, []Effect{notify(NoticeQuestionFailed, "Could not generate the next question", e.Err)}, nil

	case CallAnalysis:
		s.State = StateListening
		s.PendingAnswer = ""
		effects := []Effect{notify(NoticeAnalysisFailed, "Could not process your answer, please try again", e.Err)}
		if s.Config.Capabilities.SpeechRecognition {
			effects = append(effects, StartListening{})
		}
		return s, effects, nil

	default:
		s.Phase = PhaseInterviewing
		s.State = s.ResumeState
		if s.State == "" {
			s.State = StateIdle
		}
		effects := []Effect{notify(NoticeReportFailed, "Could not generate the interview report", e.Err)}
		if s.State == StateListening && s.Config.Capabilities.SpeechRecognition {
			effects = append(effects, StartListening{})
		}
		return s, effects, nil
	}
}

func speechEnded(s Session, e SpeechEnded) (Session, []Effect, error) {
	if s.Phase != PhaseInterviewing || s.State != StateResponding {
		return ignored(s, e)
	}

	s.State = StateListening
	return s, listen(s, nil), nil
}

func transcriptUpdated(s Session, e TranscriptUpdated) (Session, []Effect, error) {
	if s.Phase != PhaseInterviewing || s.State != StateListening {
		return ignored(s, e)
	}

	s.Transcript = e.Text
	return s, nil, nil
}

func transcriptSubmitted(s Session, e TranscriptSubmitted) (Session, []Effect, error) {
	if s.Phase != PhaseInterviewing || s.State != StateListening || s.InFlight() {
		return ignored(s, e)
	}

	answer := strings.TrimSpace(e.Text)
	if answer == "" {
		answer = strings.TrimSpace(s.Transcript)
	}
	if answer == "" {
		return s, []Effect{notify(NoticeNoResponse, "No response detected, please answer before submitting", nil)}, entity.ErrNoResponse
	}

	var effects []Effect
	if s.Config.Capabilities.SpeechRecognition {
		effects = append(effects, StopListening{})
	}

	s.Transcript = ""
	s.PendingAnswer = answer
	s.State = StateThinking

	if followup.NeedsFollowUp(answer, s.FollowUpCount) {
		s.FollowUpCount++
		seq := s.nextSeq()
		s.Pending = &Pending{Seq: seq, Call: CallFollowUp}

		req := s.questionRequest()
		req.IsFollowUp = true
		req.PreviousQuestion = s.CurrentQuestionDisplay
		req.PreviousAnswer = answer

		return s, append(effects, RequestQuestion{Seq: seq, Request: req}), nil
	}

	seq := s.nextSeq()
	s.Pending = &Pending{Seq: seq, Call: CallAnalysis}
	return s, append(effects, RequestAnalysis{Seq: seq, Question: s.CurrentQuestionDisplay, Answer: answer}), nil
}

func analysisReady(s Session, e AnalysisReady) (Session, []Effect, error) {
	if !awaiting(s, e.Seq, CallAnalysis) {
		return ignored(s, e)
	}

	var feedback *entity.Feedback
	if e.Feedback != nil {
		f := *e.Feedback
		f.Strengths = slices.Clone(e.Feedback.Strengths)
		f.Improvements = slices.Clone(e.Feedback.Improvements)
		feedback = &f
	}

	s.Pending = nil
	s.Responses = appendResponse(s.Responses, entity.Response{
		Question: s.CurrentQuestionDisplay,
		Answer:   s.PendingAnswer,
		Feedback: feedback,
	})
	s.PendingAnswer = ""

	return advanceOrFinish(s, nil)
}

func reportReady(s Session, e ReportReady) (Session, []Effect, error) {
	if !awaiting(s, e.Seq, CallReport) {
		return ignored(s, e)
	}

	report := e.Report
	s.Pending = nil
	s.FinalReport = &report
	s.Phase = PhaseComplete
	s.State = StateIdle

	return s, []Effect{
		ReleaseCamera{},
		RecordProgress{Progress: entity.Progress{
			CommunicationScore: report.CommunicationScore,
			ConfidenceScore:    report.ConfidenceScore,
			TechnicalScore:     report.TechnicalScore,
			InterviewType:      s.Config.InterviewType,
		}},
	}, nil
}

func skip(s Session, e Skip) (Session, []Effect, error) {
	if s.Phase != PhaseInterviewing || s.InFlight() ||
		(s.State != StateListening && s.State != StateResponding) {
		return ignored(s, e)
	}

	effects := silence(s)
	s.Responses = appendResponse(s.Responses, entity.Response{
		Question: s.CurrentQuestionDisplay,
		Answer:   entity.SkippedAnswer,
	})
	s.Transcript = ""
	s.PendingAnswer = ""

	return advanceOrFinish(s, effects)
}

func endEarly(s Session, e EndEarly) (Session, []Effect, error) {
	if s.Phase != PhaseInterviewing || s.InFlight() {
		return ignored(s, e)
	}

	effects := silence(s)

	if len(s.Responses) > 0 {
		s.ResumeState = s.State
		if s.ResumeState == StateResponding {
			s.ResumeState = StateListening
		}
		s.Transcript = ""
		return beginReport(s, effects)
	}

	n := Initial(s.Config)
	n.Phase = PhaseSettingUp
	n.Personalization = s.Personalization
	n.Generation = s.Generation
	return n, append(effects, ReleaseCamera{}), nil
}

func restart(s Session) (Session, []Effect, error) {
	n := Initial(s.Config)
	n.Generation = s.Generation
	return n, []Effect{StopListening{}, CancelSpeech{}, ReleaseCamera{}}, nil
}

// beginQuestion is the Idle -> Thinking edge for the current question index
func beginQuestion(s Session, effects []Effect) (Session, []Effect, error) {
	s.State = StateThinking

	if q, ok := s.customQuestion(); ok {
		return applyQuestion(s, q, false, effects)
	}

	seq := s.nextSeq()
	s.Pending = &Pending{Seq: seq, Call: CallQuestion}
	return s, append(effects, RequestQuestion{Seq: seq, Request: s.questionRequest()}), nil
}

func applyQuestion(s Session, content string, isFollowUp bool, effects []Effect) (Session, []Effect, error) {
	parsed := emotion.Parse(content)

	s.Pending = nil
	s.CurrentQuestionRaw = content
	s.CurrentQuestionDisplay = parsed.Clean
	s.CurrentEmotion = parsed.Emotion
	s.AskedQuestions = appendString(s.AskedQuestions, parsed.Clean)

	tip := Tip{Kind: TipQuestion, Text: protip.Select(parsed.Clean), QuestionIndex: s.QuestionIndex}
	if isFollowUp {
		tip = Tip{Kind: TipElaborate, Text: protip.Elaborate, QuestionIndex: s.QuestionIndex}
	}
	s.Tips = appendTip(s.Tips, tip)

	if s.Config.Capabilities.SpeechSynthesis {
		s.State = StateResponding
		return s, append(effects, Speak{Text: parsed.Clean}), nil
	}

	s.State = StateListening
	return s, listen(s, effects), nil
}

func advanceOrFinish(s Session, effects []Effect) (Session, []Effect, error) {
	if s.QuestionIndex >= s.Config.TotalQuestions {
		s.ResumeState = StateIdle
		return beginReport(s, effects)
	}

	s.QuestionIndex++
	s.FollowUpCount = 0
	s.State = StateIdle
	return beginQuestion(s, effects)
}

func beginReport(s Session, effects []Effect) (Session, []Effect, error) {
	seq := s.nextSeq()
	s.Phase = PhaseProcessing
	s.State = StateIdle
	s.Pending = &Pending{Seq: seq, Call: CallReport}
	return s, append(effects, RequestReport{Seq: seq, Responses: slices.Clone(s.Responses)}), nil
}

// silence stops whatever speech I/O the current state has open
func silence(s Session) []Effect {
	var effects []Effect
	switch s.State {
	case StateListening:
		if s.Config.Capabilities.SpeechRecognition {
			effects = append(effects, StopListening{})
		}
	case StateResponding:
		effects = append(effects, CancelSpeech{})
	}
	return effects
}

func listen(s Session, effects []Effect) []Effect {
	if s.Config.Capabilities.SpeechRecognition {
		effects = append(effects, StartListening{})
	}
	return effects
}

func awaiting(s Session, seq uint64, calls ...Call) bool {
	if s.Pending == nil || s.Pending.Seq != seq {
		return false
	}
	return slices.Contains(calls, s.Pending.Call)
}

func notify(code NoticeCode, message string, err error) Notify {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return Notify{Notice: Notice{Code: code, Message: message}}
}

func (s *Session) nextSeq() uint64 {
	s.Generation++
	return s.Generation
}

func (s Session) customQuestion() (string, bool) {
	if s.Personalization == nil {
		return "", false
	}
	qs := s.Personalization.CustomQuestions
	if s.QuestionIndex < 1 || s.QuestionIndex > len(qs) {
		return "", false
	}
	q := strings.TrimSpace(qs[s.QuestionIndex-1])
	return q, q != ""
}

func (s Session) questionRequest() entity.QuestionRequest {
	req := entity.QuestionRequest{
		QuestionNumber:    s.QuestionIndex,
		TotalQuestions:    s.Config.TotalQuestions,
		PreviousQuestions: slices.Clone(s.AskedQuestions),
		InterviewType:     s.Config.InterviewType,
	}
	if s.Personalization != nil {
		req.ResumeText = s.Personalization.ResumeText
		req.JobDescription = s.Personalization.JobDescription
	}
	return req
}
