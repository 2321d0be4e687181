package orchestrator

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (o *Orchestrator) execute(ctx context.Context, s turn.Session, effects []turn.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case turn.RequestQuestion:
			o.requestQuestion(ctx, e)

		case turn.RequestAnalysis:
			o.requestAnalysis(ctx, e)

		case turn.RequestReport:
			o.requestReport(ctx, e)

		case turn.Speak:
			if err := o.deps.Speech.Speak(ctx, e.Text); err != nil {
				// playback never started, so nothing will report its end
				ctxzap.Warn(ctx, "speech synthesis failed, continuing with text only", zap.Error(err))
				go o.post(turn.SpeechEnded{})
			}

		case turn.StartListening:
			if err := o.deps.Speech.StartListening(ctx); err != nil {
				ctxzap.Warn(ctx, "failed to start listening", zap.Error(err))
			}

		case turn.StopListening:
			if err := o.deps.Speech.StopListening(ctx); err != nil {
				ctxzap.Warn(ctx, "failed to stop listening", zap.Error(err))
			}

		case turn.CancelSpeech:
			if err := o.deps.Speech.CancelSpeech(ctx); err != nil {
				ctxzap.Warn(ctx, "failed to cancel speech", zap.Error(err))
			}

		case turn.ReleaseCamera:
			if err := o.deps.Camera.Release(ctx); err != nil {
				ctxzap.Warn(ctx, "failed to release camera", zap.Error(err))
			}

		case turn.RecordProgress:
			o.recordProgress(ctx, s, e)

		case turn.Notify:
			notice := e.Notice
			ctxzap.Info(ctx, "user notice", zap.String("code", string(notice.Code)), zap.String("message", notice.Message))
			o.publish(Update{Session: s.Clone(), Notice: &notice})
		}
	}
}

// call runs fn outside the loop and posts the event it returns
func (o *Orchestrator) call(ctx context.Context, seq uint64, fn func(context.Context) turn.Event) {
	callCtx, cancel := context.WithCancel(ctx)
	o.inflight[seq] = cancel

	o.calls.Add(1)
	go func() {
		defer o.calls.Done()
		defer cancel()

		ev := fn(callCtx)
		if callCtx.Err() != nil {
			return
		}
		o.post(ev)
	}()
}

func (o *Orchestrator) requestQuestion(ctx context.Context, e turn.RequestQuestion) {
	req := e.Request
	o.call(ctx, e.Seq, func(ctx context.Context) turn.Event {
		content, err := o.deps.Questions.GenerateQuestion(ctx, &req)
		if err != nil {
			ctxzap.Error(ctx, "question generation failed",
				zap.Int("question_number", req.QuestionNumber),
				zap.Bool("follow_up", req.IsFollowUp),
				zap.Error(err),
			)
			return turn.RemoteFailure{Seq: e.Seq, Err: err}
		}
		return turn.QuestionReady{Seq: e.Seq, Content: content}
	})
}

func (o *Orchestrator) requestAnalysis(ctx context.Context, e turn.RequestAnalysis) {
	req := entity.AnalysisRequest{Question: e.Question, UserResponse: e.Answer}
	o.call(ctx, e.Seq, func(ctx context.Context) turn.Event {
		feedback, err := o.deps.Analysis.AnalyzeAnswer(ctx, &req)
		if err != nil {
			ctxzap.Warn(ctx, "answer analysis aborted", zap.Error(err))
			return turn.RemoteFailure{Seq: e.Seq, Err: err}
		}
		if feedback == nil {
			ctxzap.Warn(ctx, "answer left unscored")
		}
		return turn.AnalysisReady{Seq: e.Seq, Feedback: feedback}
	})
}

func (o *Orchestrator) requestReport(ctx context.Context, e turn.RequestReport) {
	req := entity.ReportRequest{AllResponses: e.Responses}
	o.call(ctx, e.Seq, func(ctx context.Context) turn.Event {
		report, err := o.deps.Reports.GenerateReport(ctx, &req)
		if err != nil {
			ctxzap.Error(ctx, "report generation failed", zap.Int("responses", len(req.AllResponses)), zap.Error(err))
			return turn.RemoteFailure{Seq: e.Seq, Err: err}
		}
		return turn.ReportReady{Seq: e.Seq, Report: *report}
	})
}

// recordProgress hands the completed interview to the tracker without
// blocking the loop. It survives session teardown.
func (o *Orchestrator) recordProgress(ctx context.Context, s turn.Session, e turn.RecordProgress) {
	if o.deps.Progress == nil || s.FinalReport == nil {
		return
	}

	now := o.now()
	progress := e.Progress
	progress.SessionID = o.id
	progress.CompletedAt = now

	record := entity.InterviewRecord{
		ID:            o.id,
		InterviewType: s.Config.InterviewType,
		Responses:     s.Clone().Responses,
		Report:        *s.FinalReport,
		CreatedAt:     now,
	}

	detached := context.WithoutCancel(ctx)
	o.calls.Add(1)
	go func() {
		defer o.calls.Done()
		if err := o.deps.Progress.Record(detached, record, progress); err != nil {
			ctxzap.Error(detached, "failed to record progress", zap.Error(err))
			return
		}
		ctxzap.Info(detached, "progress recorded", zap.Float64("overall_score", record.Report.OverallScore))
	}()
}
