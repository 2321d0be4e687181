package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/orchestrator"
	"github.com/futig/interview-backend/internal/pkg/response"
	"github.com/futig/interview-backend/internal/speech"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/gorilla/websocket"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamPongTimeout  = 60 * time.Second
	streamPingInterval = 25 * time.Second
	streamReadLimit    = 64 << 10
	streamOutboundSize = 16
)

// Server message types
const (
	MessageSessionUpdate = "session.update"
	MessageSessionNotice = "session.notice"
	MessageSessionClosed = "session.closed"
	MessageError         = "error"
)

// Client message types
const (
	MessageSpeechEnded      = "speech.ended"
	MessageSpeechTranscript = "speech.transcript"
	MessageCameraReady      = "camera.ready"
	MessageAnswerSubmit     = "answer.submit"
)

type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Stream handles GET /interview-sessions/{id}/stream - Live session websocket.
// The server pushes session updates, notices and speech directives; the
// client reports playback completion, recognition text and camera state.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Stream")

	stream, err := h.usecase.Subscribe(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	defer stream.Unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		ctxzap.Warn(ctx, "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// the request context ends with the handler, not with the connection
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	ctxzap.Info(ctx, "stream opened")

	outbound := make(chan entity.StreamMessage, streamOutboundSize)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer cancel()
		// unblocks the reader once the writer gives up
		defer conn.Close()
		h.writeStream(ctx, conn, sessionID, stream, outbound)
	}()

	if snapshot, err := h.usecase.GetSession(ctx, sessionID); err == nil {
		send(ctx, outbound, MessageSessionUpdate, toSessionDTO(snapshot))
	}

	h.readStream(ctx, conn, sessionID, outbound)
	cancel()
	<-writerDone

	ctxzap.Info(ctx, "stream closed")
}

func (h *Handler) readStream(ctx context.Context, conn *websocket.Conn, sessionID string, outbound chan<- entity.StreamMessage) {
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	conn.SetPongHandler(func(string) error {
		h.usecase.Touch(sessionID)
		return conn.SetReadDeadline(time.Now().Add(streamPongTimeout))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ctxzap.Warn(ctx, "stream read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamPongTimeout))

		if err := h.handleClientMessage(ctx, sessionID, msg); err != nil {
			ctxzap.Debug(ctx, "client message rejected", zap.String("type", msg.Type), zap.Error(err))
			send(ctx, outbound, MessageError, response.ErrorResponse{
				Error:   http.StatusText(errorStatus(err)),
				Message: err.Error(),
			})
			if errors.Is(err, entity.ErrSessionNotFound) {
				return
			}
		}
	}
}

func (h *Handler) handleClientMessage(ctx context.Context, sessionID string, msg clientMessage) error {
	switch msg.Type {
	case MessageSpeechEnded:
		return h.usecase.SpeechEnded(ctx, sessionID)

	case MessageSpeechTranscript:
		var req entity.TranscriptRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return err
		}
		if err := h.validator.ValidateTranscript(req.Text); err != nil {
			return err
		}
		_, err := h.usecase.UpdateTranscript(ctx, sessionID, req.Text)
		return err

	case MessageCameraReady:
		var req entity.CameraRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return err
		}
		return h.usecase.CameraReady(ctx, sessionID, req.Ready)

	case MessageAnswerSubmit:
		var req entity.SubmitAnswerRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return err
		}
		_, err := h.usecase.SubmitTextAnswer(ctx, sessionID, req.Answer)
		return err

	default:
		return fmt.Errorf("%w: unknown message type %q", entity.ErrInvalidParameter, msg.Type)
	}
}

func (h *Handler) writeStream(
	ctx context.Context,
	conn *websocket.Conn,
	sessionID string,
	stream *interviewuc.Stream,
	outbound <-chan entity.StreamMessage,
) {
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	updates := stream.Updates
	directives := stream.Directives

	for {
		var msg entity.StreamMessage

		select {
		case <-ctx.Done():
			closeStream(conn, websocket.CloseNormalClosure, "")
			return

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout)); err != nil {
				ctxzap.Debug(ctx, "stream ping failed", zap.Error(err))
				return
			}
			continue

		case m := <-outbound:
			msg = m

		case u, ok := <-updates:
			if !ok {
				// the session was torn down
				_ = writeMessage(conn, newMessage(MessageSessionClosed, map[string]string{"session_id": sessionID}))
				closeStream(conn, websocket.CloseGoingAway, "session closed")
				return
			}
			msg = updateMessage(sessionID, u)

		case d := <-directives:
			msg = directiveMessage(d)
		}

		if err := writeMessage(conn, msg); err != nil {
			ctxzap.Debug(ctx, "stream write failed", zap.Error(err))
			return
		}
	}
}

func updateMessage(sessionID string, u orchestrator.Update) entity.StreamMessage {
	if u.Notice != nil {
		return newMessage(MessageSessionNotice, toNoticeDTO(u.Notice))
	}
	return newMessage(MessageSessionUpdate, toSessionDTO(&interviewuc.Snapshot{ID: sessionID, Session: u.Session}))
}

func directiveMessage(d speech.Directive) entity.StreamMessage {
	var payload any
	if d.Text != "" {
		payload = map[string]string{"text": d.Text}
	}
	return newMessage(string(d.Type), payload)
}

func newMessage(msgType string, payload any) entity.StreamMessage {
	return entity.StreamMessage{Type: msgType, Payload: payload, Timestamp: time.Now().UTC()}
}

func send(ctx context.Context, outbound chan<- entity.StreamMessage, msgType string, payload any) {
	select {
	case outbound <- newMessage(msgType, payload):
	case <-ctx.Done():
	}
}

func writeMessage(conn *websocket.Conn, msg entity.StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return conn.WriteJSON(msg)
}

func closeStream(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(streamWriteTimeout))
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	return nil
}
