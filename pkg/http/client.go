package http

import (
	"net"
	"net/http"
	"time"
)

// Option tunes the underlying *http.Client of a Connector.
type Option func(*clientSettings)

type clientSettings struct {
	timeout               time.Duration
	dialTimeout           time.Duration
	keepAlive             time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxResponseSize       int64
	token                 string
	userAgent             string
	logRequests           bool
}

func defaultSettings() clientSettings {
	return clientSettings{
		timeout:               30 * time.Second,
		dialTimeout:           10 * time.Second,
		keepAlive:             90 * time.Second,
		responseHeaderTimeout: 30 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxResponseSize:       4 << 20,
		userAgent:             "interview-backend",
	}
}

// WithTimeout bounds a whole exchange including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.timeout = d }
}

func WithDialTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.dialTimeout = d }
}

func WithKeepAlive(d time.Duration) Option {
	return func(s *clientSettings) { s.keepAlive = d }
}

func WithResponseHeaderTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.responseHeaderTimeout = d }
}

func WithIdleConnTimeout(d time.Duration) Option {
	return func(s *clientSettings) { s.idleConnTimeout = d }
}

// WithMaxResponseSize caps how many bytes of a response body are read.
func WithMaxResponseSize(n int64) Option {
	return func(s *clientSettings) { s.maxResponseSize = n }
}

// WithAuthToken sends the token as a bearer Authorization header. An empty
// token disables it.
func WithAuthToken(token string) Option {
	return func(s *clientSettings) { s.token = token }
}

func WithUserAgent(ua string) Option {
	return func(s *clientSettings) { s.userAgent = ua }
}

// WithRequestLogging logs every outbound exchange at debug level through the
// request context logger.
func WithRequestLogging() Option {
	return func(s *clientSettings) { s.logRequests = true }
}

func newHTTPClient(s clientSettings) *http.Client {
	dialer := &net.Dialer{
		Timeout:   s.dialTimeout,
		KeepAlive: s.keepAlive,
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: s.responseHeaderTimeout,
		IdleConnTimeout:       s.idleConnTimeout,
	}

	if s.logRequests {
		rt = &logTransport{next: rt}
	}
	rt = &headerTransport{token: s.token, userAgent: s.userAgent, next: rt}

	return &http.Client{
		Timeout:   s.timeout,
		Transport: rt,
	}
}
