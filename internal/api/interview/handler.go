package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/pkg/formatter"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/futig/interview-backend/internal/pkg/validator"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxProgressLimit = 200

type Handler struct {
	usecase       InterviewUsecase
	validator     *validator.Validator
	maxUploadSize int64
	upgrader      websocket.Upgrader
}

func NewHandler(
	usecase InterviewUsecase,
	validator *validator.Validator,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		usecase:       usecase,
		validator:     validator,
		maxUploadSize: maxUploadSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the REST API allows any origin, the stream follows it
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// CreateSession handles POST /interview-sessions - Create a new interview session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	var req entity.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateCreateSession(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	snapshot, err := h.usecase.CreateSession(ctx, toCreateSessionRequest(&req))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "session created", zap.String("session_id", snapshot.ID))
	h.respondJSON(w, http.StatusCreated, toSessionDTO(snapshot))
}

// GetSession handles GET /interview-sessions/{id} - Get session snapshot
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	ctxzap.Debug(ctx, "fetching session")

	snapshot, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toSessionDTO(snapshot))
}

// DeleteSession handles DELETE /interview-sessions/{id} - Tear the session down
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "DeleteSession")

	if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Personalize handles POST /interview-sessions/{id}/personalize
func (h *Handler) Personalize(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Personalize")

	var req entity.PersonalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidatePersonalize(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Info(ctx, "personalizing session",
		zap.Bool("has_resume", req.ResumeText != nil),
		zap.Bool("has_job_description", req.JobDescription != nil),
		zap.Int("custom_questions", len(req.CustomQuestions)),
	)

	snapshot, err := h.usecase.Personalize(ctx, sessionID, toPersonalization(&req))
	h.respondSnapshot(ctx, w, snapshot, err)
}

// StartInterview handles POST /interview-sessions/{id}/start
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "StartInterview")

	snapshot, err := h.usecase.StartInterview(ctx, sessionID)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// CameraReady handles POST /interview-sessions/{id}/camera
func (h *Handler) CameraReady(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "CameraReady")

	var req entity.CameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.usecase.CameraReady(ctx, sessionID, req.Ready); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SpeechEnded handles POST /interview-sessions/{id}/speech-ended
func (h *Handler) SpeechEnded(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SpeechEnded")

	if err := h.usecase.SpeechEnded(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// UpdateTranscript handles POST /interview-sessions/{id}/transcript
func (h *Handler) UpdateTranscript(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "UpdateTranscript")

	var req entity.TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateTranscript(req.Text); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	snapshot, err := h.usecase.UpdateTranscript(ctx, sessionID, req.Text)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// SubmitTextAnswer handles POST /interview-sessions/{id}/answer
func (h *Handler) SubmitTextAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SubmitTextAnswer")

	var req entity.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateTranscript(req.Answer); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ctxzap.Info(ctx, "submitting text answer", zap.Int("answer_length", len(req.Answer)))

	snapshot, err := h.usecase.SubmitTextAnswer(ctx, sessionID, req.Answer)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// SubmitAudioAnswer handles POST /interview-sessions/{id}/answer/audio
func (h *Handler) SubmitAudioAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "SubmitAudioAnswer")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "audio file is required", err)
		return
	}
	defer file.Close()

	req := entity.SubmitAudioAnswerRequest{AudioFile: header}
	if err := h.validator.ValidateSubmitAudioAnswer(&req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	audio, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read audio file", err)
		return
	}

	ctxzap.Info(ctx, "submitting audio answer",
		zap.String("filename", header.Filename),
		zap.Int64("size_bytes", header.Size),
	)

	snapshot, err := h.usecase.SubmitAudioAnswer(ctx, sessionID, audio, header.Filename)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// Skip handles POST /interview-sessions/{id}/skip
func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Skip")

	snapshot, err := h.usecase.Skip(ctx, sessionID)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// EndEarly handles POST /interview-sessions/{id}/end
func (h *Handler) EndEarly(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "EndEarly")

	snapshot, err := h.usecase.EndEarly(ctx, sessionID)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// Restart handles POST /interview-sessions/{id}/restart
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Restart")

	snapshot, err := h.usecase.Restart(ctx, sessionID)
	h.respondSnapshot(ctx, w, snapshot, err)
}

// GetReport handles GET /interview-sessions/{id}/report - Get or export the final report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetReport")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "md" {
		formatParam = string(entity.FormatMarkdown)
	}
	if formatParam == "" {
		formatParam = string(entity.FormatJSON)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		ctxzap.Warn(ctx, "invalid format parameter", zap.String("format", formatParam))
		h.respondError(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("format must be one of: json, md, pdf, docx"))
		return
	}

	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	record, err := h.usecase.GetReport(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if format == entity.FormatJSON {
		h.respondJSON(w, http.StatusOK, record)
		return
	}

	fmtr, err := formatter.NewFactory().Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	formatted, err := fmtr.Format(record)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to format report", err)
		return
	}

	ctxzap.Info(ctx, "report exported")
	response.File(w, fmtr.ContentType(), "interview-"+sessionID+fmtr.FileExtension(), formatted)
}

// ListProgress handles GET /progress - Progress history, newest first
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListProgress")

	var interviewType *entity.InterviewType
	if t := r.URL.Query().Get("interview_type"); t != "" {
		it := entity.InterviewType(t)
		interviewType = &it
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxProgressLimit {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid limit parameter",
				fmt.Errorf("%w: limit must be between 1 and %d", entity.ErrInvalidParameter, maxProgressLimit))
			return
		}
		limit = n
	}

	items, err := h.usecase.ListProgress(ctx, interviewType, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if items == nil {
		items = []entity.Progress{}
	}
	h.respondJSON(w, http.StatusOK, entity.ProgressListDTO{Items: items, Total: len(items)})
}

// Helper methods

func (h *Handler) respondSnapshot(ctx context.Context, w http.ResponseWriter, snapshot *interviewuc.Snapshot, err error) {
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toSessionDTO(snapshot))
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	return logger.WithSession(r.Context(), sessionID, action), sessionID
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	if err != nil && status < http.StatusInternalServerError {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	h.respondError(ctx, w, errorStatus(err), errorMessage(err), err)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrInterviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrMissingField):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidExtension):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrEventIgnored) || errors.Is(err, entity.ErrReportNotReady) || errors.Is(err, entity.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNoResponse) || errors.Is(err, entity.ErrCameraUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch errorStatus(err) {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusBadRequest:
		return "invalid parameter"
	case http.StatusRequestEntityTooLarge:
		return "invalid file"
	case http.StatusConflict:
		return "invalid session state"
	case http.StatusUnprocessableEntity:
		return "cannot proceed"
	default:
		return "internal server error"
	}
}
