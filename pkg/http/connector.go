package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

var ErrResponseTooLarge = errors.New("response body exceeds limit")

// Connector is a JSON client bound to one upstream service.
type Connector struct {
	baseURL         string
	client          *http.Client
	maxResponseSize int64
	logger          *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...Option) *Connector {
	settings := defaultSettings()
	for _, opt := range options {
		opt(&settings)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Connector{
		baseURL:         strings.TrimRight(config.BaseURL, "/"),
		client:          newHTTPClient(settings),
		maxResponseSize: settings.maxResponseSize,
		logger:          logger,
	}
}

type RequestOpt func(*requestOptions)

type requestOptions struct {
	header http.Header
	url    string
}

func WithHeader(key, value string) RequestOpt {
	return func(o *requestOptions) {
		o.header.Set(key, value)
	}
}

// WithURL targets an absolute URL instead of the base URL plus endpoint.
func WithURL(url string) RequestOpt {
	return func(o *requestOptions) {
		o.url = url
	}
}

// DoRequest sends reqBody as JSON and decodes a 2xx JSON reply into respBody.
// Either body may be nil.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var (
		body        io.Reader
		contentType string
	)
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	return c.do(ctx, method, endpoint, body, contentType, respBody, opts)
}

// DoMultipartRequest builds a multipart/form-data body with prepareBody.
// The body is buffered so the call can be retried.
func (c *Connector) DoMultipartRequest(
	ctx context.Context,
	method, endpoint string,
	prepareBody func(*multipart.Writer) error,
	respBody any,
	opts ...RequestOpt,
) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := prepareBody(writer); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	return c.do(ctx, method, endpoint, &buf, writer.FormDataContentType(), respBody, opts)
}

func (c *Connector) do(
	ctx context.Context,
	method, endpoint string,
	body io.Reader,
	contentType string,
	respBody any,
	opts []RequestOpt,
) error {
	ro := requestOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&ro)
	}

	target := ro.url
	if target == "" {
		target = c.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range ro.header {
		req.Header[key] = values
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if int64(len(data)) > c.maxResponseSize {
		return fmt.Errorf("%s %s: %w (%d bytes)", method, req.URL.Path, ErrResponseTooLarge, c.maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, bytes.TrimSpace(data))
	}

	if respBody == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, respBody); err != nil {
		c.logger.Warn("undecodable upstream response",
			zap.String("path", req.URL.Path),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
