package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/orchestrator"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/futig/interview-backend/internal/repository"
	"github.com/futig/interview-backend/internal/speech"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultProgressLimit = 50

// CreateSessionRequest describes a new interview. Zero values fall back to
// the profile and then to the configured defaults.
type CreateSessionRequest struct {
	Profile        string
	InterviewType  entity.InterviewType
	TotalQuestions int
	Capabilities   turn.Capabilities
	// RequireCamera overrides the configured camera requirement
	RequireCamera *bool
}

// Snapshot is the externally visible state of a live session
type Snapshot struct {
	ID      string
	Session turn.Session
}

// Stream is a live view of one session for a connected client
type Stream struct {
	Updates     <-chan orchestrator.Update
	Directives  <-chan speech.Directive
	Unsubscribe func()
}

// InterviewUsecase manages live interview sessions and their history
type InterviewUsecase struct {
	registry      *registry
	llmConnector  LLMConnector
	asrConnector  ASRConnector
	tracker       orchestrator.ProgressTracker
	interviewRepo repository.InterviewRepository
	progressRepo  repository.ProgressRepository
	cfg           config.InterviewConfig
	profiles      map[string]config.Profile
	logger        *zap.Logger
}

// NewUsecase creates a new interview use case
func NewUsecase(
	cfg config.InterviewConfig,
	profiles map[string]config.Profile,
	interviewRepo repository.InterviewRepository,
	progressRepo repository.ProgressRepository,
	tracker orchestrator.ProgressTracker,
	llmConnector LLMConnector,
	asrConnector ASRConnector,
	logger *zap.Logger,
) *InterviewUsecase {
	return &InterviewUsecase{
		registry:      newRegistry(cfg.SessionTTL, cfg.CleanupInterval, logger),
		llmConnector:  llmConnector,
		asrConnector:  asrConnector,
		tracker:       tracker,
		interviewRepo: interviewRepo,
		progressRepo:  progressRepo,
		cfg:           cfg,
		profiles:      profiles,
		logger:        logger,
	}
}

// CreateSession starts a new session in the Personalizing phase, or in
// SettingUp when the chosen profile carries a personalization
func (uc *InterviewUsecase) CreateSession(ctx context.Context, req CreateSessionRequest) (*Snapshot, error) {
	cfg := turn.Config{
		TotalQuestions: uc.cfg.TotalQuestions,
		InterviewType:  uc.cfg.DefaultType,
		Capabilities:   req.Capabilities,
	}

	var personalization *entity.Personalization
	if req.Profile != "" {
		profile, ok := uc.profiles[req.Profile]
		if !ok {
			return nil, fmt.Errorf("%w: unknown profile %q", entity.ErrInvalidParameter, req.Profile)
		}
		if profile.InterviewType != "" {
			cfg.InterviewType = profile.InterviewType
		}
		if profile.TotalQuestions > 0 {
			cfg.TotalQuestions = profile.TotalQuestions
		}
		personalization = profile.Personalization
	}

	if req.InterviewType != "" {
		if !req.InterviewType.Valid() {
			return nil, fmt.Errorf("%w: interview type %q", entity.ErrInvalidParameter, req.InterviewType)
		}
		cfg.InterviewType = req.InterviewType
	}
	if req.TotalQuestions != 0 {
		if req.TotalQuestions < 1 || req.TotalQuestions > 20 {
			return nil, fmt.Errorf("%w: total questions must be between 1 and 20", entity.ErrInvalidParameter)
		}
		cfg.TotalQuestions = req.TotalQuestions
	}

	requireCamera := uc.cfg.RequireCamera
	if req.RequireCamera != nil {
		requireCamera = *req.RequireCamera
	}

	id := uuid.New().String()
	sessionLogger := uc.logger.With(zap.String("session_id", id))

	bridge := speech.NewBridge(speech.Options{
		Capabilities:  cfg.Capabilities,
		RequireCamera: requireCamera,
	}, sessionLogger)

	orch := orchestrator.New(id, cfg, orchestrator.Dependencies{
		Questions: uc.llmConnector,
		Analysis:  uc.llmConnector,
		Reports:   uc.llmConnector,
		Speech:    bridge,
		Camera:    bridge,
		Progress:  uc.tracker,
	}, uc.logger)

	uc.registry.add(id, &liveSession{orch: orch, bridge: bridge})

	ctxzap.Info(ctx, "interview session created",
		zap.String("session_id", id),
		zap.String("interview_type", string(cfg.InterviewType)),
		zap.Int("total_questions", cfg.TotalQuestions),
		zap.Bool("require_camera", requireCamera),
	)

	if personalization != nil {
		return uc.dispatch(ctx, id, turn.Personalize{Personalization: personalization})
	}

	return &Snapshot{ID: id, Session: orch.Snapshot()}, nil
}

// GetSession returns the current state of a live session
func (uc *InterviewUsecase) GetSession(ctx context.Context, sessionID string) (*Snapshot, error) {
	s, err := uc.registry.get(sessionID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{ID: sessionID, Session: s.orch.Snapshot()}, nil
}

// Personalize stores the optional resume, job description and custom questions
func (uc *InterviewUsecase) Personalize(ctx context.Context, sessionID string, p *entity.Personalization) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.Personalize{Personalization: p})
}

// StartInterview acquires the camera and asks the first question
func (uc *InterviewUsecase) StartInterview(ctx context.Context, sessionID string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.StartInterview{})
}

// CameraReady records whether the client camera is available
func (uc *InterviewUsecase) CameraReady(ctx context.Context, sessionID string, ready bool) error {
	s, err := uc.registry.get(sessionID)
	if err != nil {
		return err
	}

	s.bridge.CameraReady(ready)
	ctxzap.Debug(ctx, "camera state reported", zap.String("session_id", sessionID), zap.Bool("ready", ready))
	return nil
}

// SpeechEnded reports that the client finished playing the current question
func (uc *InterviewUsecase) SpeechEnded(ctx context.Context, sessionID string) error {
	s, err := uc.registry.get(sessionID)
	if err != nil {
		return err
	}

	s.bridge.SpeechEnded(ctx)
	return nil
}

// UpdateTranscript replaces the live transcript of the open answer
func (uc *InterviewUsecase) UpdateTranscript(ctx context.Context, sessionID, text string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.TranscriptUpdated{Text: text})
}

// SubmitTextAnswer submits the answer to the current question. An empty text
// submits the live transcript.
func (uc *InterviewUsecase) SubmitTextAnswer(ctx context.Context, sessionID, text string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.TranscriptSubmitted{Text: text})
}

// SubmitAudioAnswer transcribes a recorded answer and submits it
func (uc *InterviewUsecase) SubmitAudioAnswer(ctx context.Context, sessionID string, audio []byte, filename string) (*Snapshot, error) {
	if _, err := uc.registry.get(sessionID); err != nil {
		return nil, err
	}

	transcription, err := uc.asrConnector.TranscribeBytes(ctx, audio, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}

	ctxzap.Info(ctx, "audio answer transcribed",
		zap.String("session_id", sessionID),
		zap.Int("transcription_length", len(transcription)),
	)

	return uc.SubmitTextAnswer(ctx, sessionID, transcription)
}

func (uc *InterviewUsecase) Skip(ctx context.Context, sessionID string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.Skip{})
}

func (uc *InterviewUsecase) EndEarly(ctx context.Context, sessionID string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.EndEarly{})
}

func (uc *InterviewUsecase) Restart(ctx context.Context, sessionID string) (*Snapshot, error) {
	return uc.dispatch(ctx, sessionID, turn.Restart{})
}

// DeleteSession tears the session down and forgets it
func (uc *InterviewUsecase) DeleteSession(ctx context.Context, sessionID string) error {
	if err := uc.registry.remove(sessionID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "interview session deleted", zap.String("session_id", sessionID))
	return nil
}

// Subscribe opens a live stream of session updates and client directives
func (uc *InterviewUsecase) Subscribe(ctx context.Context, sessionID string) (*Stream, error) {
	s, err := uc.registry.get(sessionID)
	if err != nil {
		return nil, err
	}

	updates, unsubscribe := s.orch.Subscribe()
	return &Stream{
		Updates:     updates,
		Directives:  s.bridge.Directives(),
		Unsubscribe: unsubscribe,
	}, nil
}

// Touch extends the lifetime of a session with an open client connection
func (uc *InterviewUsecase) Touch(sessionID string) {
	_, _ = uc.registry.get(sessionID)
}

// GetReport returns the final report of a live or stored interview
func (uc *InterviewUsecase) GetReport(ctx context.Context, sessionID string) (*entity.InterviewRecord, error) {
	s, err := uc.registry.get(sessionID)
	if err == nil {
		snapshot := s.orch.Snapshot()
		if snapshot.FinalReport == nil {
			return nil, entity.ErrReportNotReady
		}
		return &entity.InterviewRecord{
			ID:            sessionID,
			InterviewType: snapshot.Config.InterviewType,
			Responses:     snapshot.Responses,
			Report:        *snapshot.FinalReport,
		}, nil
	}

	record, err := uc.interviewRepo.GetInterview(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entity.ErrInterviewNotFound) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}

	return record, nil
}

// ListProgress returns progress history, newest first
func (uc *InterviewUsecase) ListProgress(ctx context.Context, interviewType *entity.InterviewType, limit int) ([]entity.Progress, error) {
	if limit <= 0 {
		limit = defaultProgressLimit
	}
	if interviewType != nil && !interviewType.Valid() {
		return nil, fmt.Errorf("%w: interview type %q", entity.ErrInvalidParameter, *interviewType)
	}

	progress, err := uc.progressRepo.ListProgress(ctx, interviewType, limit)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	return progress, nil
}

// ActiveSessions returns the number of live sessions
func (uc *InterviewUsecase) ActiveSessions() int {
	return uc.registry.count()
}

// Close tears down every live session
func (uc *InterviewUsecase) Close() {
	uc.registry.closeAll()
}

func (uc *InterviewUsecase) dispatch(ctx context.Context, sessionID string, ev turn.Event) (*Snapshot, error) {
	s, err := uc.registry.get(sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.orch.Dispatch(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ev.Name(), err)
	}

	return &Snapshot{ID: sessionID, Session: session}, nil
}
