package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
)

// Terminal commands typed instead of an answer
const (
	inputSkip    = ":skip"
	inputEnd     = ":end"
	inputRestart = ":restart"
	inputQuit    = ":quit"
)

var errNoAnswers = errors.New("interview ended before any answer")

// interviewer is the part of the interview use case a terminal session drives
type interviewer interface {
	CreateSession(ctx context.Context, req interviewuc.CreateSessionRequest) (*interviewuc.Snapshot, error)
	Personalize(ctx context.Context, sessionID string, p *entity.Personalization) (*interviewuc.Snapshot, error)
	StartInterview(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	SubmitTextAnswer(ctx context.Context, sessionID, text string) (*interviewuc.Snapshot, error)
	Skip(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	EndEarly(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	Restart(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (*interviewuc.Stream, error)
	GetReport(ctx context.Context, sessionID string) (*entity.InterviewRecord, error)
}

// terminalSession plays one interview over a line based reader and writer
type terminalSession struct {
	uc  interviewer
	in  io.Reader
	out io.Writer

	sessionID string
	asked     [3]int
	// listening is true while the current question awaits an answer
	listening bool
	// idle is true while the interview waits for :end or :restart, as it
	// does after a failed report when no question is open
	idle bool
	// queue holds input typed ahead of the next question
	queue []string
	// restarting skips updates published before a restart took effect
	restarting bool
	reporting  bool
}

// run drives the interview until the final report is ready. Input typed
// ahead is replayed one line per question; end of input ends the interview
// early.
func (t *terminalSession) run(ctx context.Context, req interviewuc.CreateSessionRequest) (*entity.InterviewRecord, error) {
	snapshot, err := t.uc.CreateSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	t.sessionID = snapshot.ID
	defer func() {
		// the record is persisted, the live session is no longer needed
		_ = t.uc.DeleteSession(context.WithoutCancel(ctx), t.sessionID)
	}()

	stream, err := t.uc.Subscribe(ctx, t.sessionID)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	defer stream.Unsubscribe()

	cfg := snapshot.Session.Config
	fmt.Fprintf(t.out, "Starting a %s interview with %d questions.\n", cfg.InterviewType, cfg.TotalQuestions)
	fmt.Fprintf(t.out, "Type your answer on one line. Commands: %s %s %s %s\n", inputSkip, inputEnd, inputRestart, inputQuit)

	if err := t.begin(ctx, snapshot.Session.Phase); err != nil {
		return nil, err
	}

	lines := scanLines(ctx, t.in)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case u, ok := <-stream.Updates:
			if !ok {
				return nil, entity.ErrSessionClosed
			}
			if record, done, err := t.onUpdate(ctx, u.Session, u.Notice); done || err != nil {
				return record, err
			}

		case line, ok := <-lines:
			if !ok {
				lines = nil
				line = inputEnd
			}
			line = strings.TrimSpace(line)
			if line == inputQuit {
				return nil, context.Canceled
			}
			if line != "" {
				t.queue = append(t.queue, line)
			}
		}

		if err := t.drain(ctx); err != nil {
			return nil, err
		}
	}
}

func (t *terminalSession) begin(ctx context.Context, phase turn.Phase) error {
	if phase == turn.PhasePersonalizing {
		if _, err := t.uc.Personalize(ctx, t.sessionID, nil); err != nil {
			return fmt.Errorf("personalize: %w", err)
		}
	}
	if _, err := t.uc.StartInterview(ctx, t.sessionID); err != nil {
		return fmt.Errorf("start interview: %w", err)
	}
	t.asked = [3]int{}
	return nil
}

func (t *terminalSession) onUpdate(ctx context.Context, s turn.Session, notice *turn.Notice) (*entity.InterviewRecord, bool, error) {
	if notice != nil {
		fmt.Fprintf(t.out, "! %s\n", notice.Message)
		if notice.Code == turn.NoticeReportFailed {
			// the interview resumes at the open question
			t.asked = [3]int{}
			t.reporting = false
			if awaitingCommand(s) {
				fmt.Fprintf(t.out, "(type %s to try the report again)\n> ", inputEnd)
			}
		}
		return nil, false, nil
	}

	if t.restarting {
		t.restarting = s.Phase != turn.PhasePersonalizing && s.Phase != turn.PhaseSettingUp
		return nil, false, nil
	}

	t.idle = awaitingCommand(s)

	switch {
	case s.Phase == turn.PhaseInterviewing && s.State == turn.StateListening:
		key := [3]int{s.QuestionIndex, s.FollowUpCount, len(s.AskedQuestions)}
		if key == t.asked {
			// replays of a question already answered do not reopen it
			return nil, false, nil
		}
		t.asked = key
		t.listening = true

		if s.FollowUpCount > 0 {
			fmt.Fprintf(t.out, "\n[follow-up %d] %s\n> ", s.QuestionIndex, s.CurrentQuestionDisplay)
		} else {
			fmt.Fprintf(t.out, "\n[%d/%d] %s\n> ", s.QuestionIndex, s.Config.TotalQuestions, s.CurrentQuestionDisplay)
		}

	case s.Phase == turn.PhaseProcessing:
		t.listening = false
		if !t.reporting {
			t.reporting = true
			fmt.Fprintln(t.out, "\nPreparing your report...")
		}

	case s.Phase == turn.PhaseComplete && s.FinalReport != nil:
		record, err := t.uc.GetReport(ctx, t.sessionID)
		if err != nil {
			return nil, true, fmt.Errorf("get report: %w", err)
		}
		return record, true, nil

	default:
		t.listening = false
	}

	return nil, false, nil
}

// drain answers the open question with the oldest queued line. With no
// question open only :end and :restart move the interview on.
func (t *terminalSession) drain(ctx context.Context) error {
	for len(t.queue) > 0 && (t.listening || t.idle) {
		line := t.queue[0]
		t.queue = t.queue[1:]

		if t.idle && line != inputEnd && line != inputRestart {
			fmt.Fprintf(t.out, "(no open question, type %s or %s)\n> ", inputEnd, inputRestart)
			continue
		}
		// the next update reopens listening
		t.listening = false
		t.idle = false

		return t.onInput(ctx, line)
	}
	return nil
}

// awaitingCommand reports an interview parked in Idle with no remote call
// that would open the next question
func awaitingCommand(s turn.Session) bool {
	return s.Phase == turn.PhaseInterviewing && s.State == turn.StateIdle && !s.InFlight()
}

func (t *terminalSession) onInput(ctx context.Context, line string) error {
	var err error
	switch line {
	case inputSkip:
		_, err = t.uc.Skip(ctx, t.sessionID)
	case inputRestart:
		var snapshot *interviewuc.Snapshot
		if snapshot, err = t.uc.Restart(ctx, t.sessionID); err == nil {
			fmt.Fprintln(t.out, "Starting over.")
			t.restarting = true
			t.reporting = false
			return t.begin(ctx, snapshot.Session.Phase)
		}
	case inputEnd:
		var snapshot *interviewuc.Snapshot
		if snapshot, err = t.uc.EndEarly(ctx, t.sessionID); err == nil && snapshot.Session.Phase == turn.PhaseSettingUp {
			return errNoAnswers
		}
	default:
		_, err = t.uc.SubmitTextAnswer(ctx, t.sessionID, line)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrEventIgnored):
		fmt.Fprintln(t.out, "(wait for the next question)")
		return nil
	case errors.Is(err, entity.ErrNoResponse):
		t.listening = true
		fmt.Fprint(t.out, "(please type an answer)\n> ")
		return nil
	default:
		return err
	}
}

// scanLines feeds input lines to a channel closed at end of input
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
