package handlers

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxVoiceFileSize = 10 * 1024 * 1024 // 10 MB
	downloadTimeout  = 30 * time.Second
	// Telegram voice notes are OGG/Opus, which the speech service accepts as is
	voiceFilename = "voice.ogg"
)

var secureHTTPClient = &http.Client{
	Timeout: downloadTimeout,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// downloadVoice fetches a voice note from Telegram file storage
func (h *InterviewHandler) downloadVoice(ctx context.Context, voice *tgbotapi.Voice) ([]byte, error) {
	if voice.FileSize > maxVoiceFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", voice.FileSize, maxVoiceFileSize)
	}

	fileURL, err := h.api.GetFileDirectURL(voice.FileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("invalid file URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("insecure URL scheme: %s (expected https)", parsedURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// one extra byte tells an oversized body from an exact fit
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file data: %w", err)
	}
	if len(data) > maxVoiceFileSize {
		return nil, fmt.Errorf("file too large: more than %d bytes", maxVoiceFileSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty voice file")
	}

	return data, nil
}
