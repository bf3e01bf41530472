package proxy

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/logger"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
	"github.com/spigell/pathfinder/internal/utils"
)

const (
	// Provider is the name of this analysis backend in configuration and logs.
	Provider = "proxy"

	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/pathfinder"

	defaultMaxLogLength = 200

	unreachableMessage = "Unable to reach the analysis service, please try again later."
	unreadableMessage  = "The analysis service returned a report that could not be read."
)

// Client submits answers to the remote analysis proxy. It makes exactly one request
// per Analyze call: no retries and no timeout beyond what ctx and the transport impose.
type Client struct {
	endpoint   string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	// MaxLogLength bounds the request/response previews written at debug level.
	MaxLogLength int
}

type request struct {
	Answers *questionnaire.Answers `json:"answers"`
}

type errorPayload struct {
	Detail any `json:"detail"`
}

// New validates the endpoint and returns a client for it.
func New(endpoint string, log *zap.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("analysis endpoint is required")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse analysis endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("analysis endpoint must be an http(s) url, got %q", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("analysis endpoint %q has no host", endpoint)
	}

	return &Client{
		endpoint:     endpoint,
		logger:       logger.WithAnalysis(log, Provider, "", endpoint),
		HTTPClient:   &http.Client{},
		UserAgent:    userAgent,
		MaxLogLength: defaultMaxLogLength,
	}, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze posts {"answers": ...} and decodes the response body as a report.
// Every failure is returned as *ai.Error.
func (c *Client) Analyze(ctx context.Context, answers *questionnaire.Answers) (*report.Report, error) {
	if answers == nil {
		return nil, &ai.Error{Message: ai.GenericMessage, Err: errors.New("answers are required")}
	}

	body, err := json.Marshal(request{Answers: answers})
	if err != nil {
		return nil, &ai.Error{Message: ai.GenericMessage, Err: fmt.Errorf("marshal answers: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ai.Error{Message: ai.GenericMessage, Err: fmt.Errorf("build request: %w", err)}
	}
	req = c.setHeaders(req)

	c.logger.Debug("analysis request",
		zap.Int("answers", answers.Len()),
		zap.Int("request_length", len(body)),
		zap.String("request_preview", utils.Preview(string(body), c.MaxLogLength)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ai.Error{Message: unreachableMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, &ai.Error{Message: unreachableMessage, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("analysis response",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_length", utf8.RuneCount(data)),
		zap.String("response_preview", utils.Preview(string(data), c.MaxLogLength)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp, data)
	}

	var result report.Report
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &ai.Error{Message: unreadableMessage, Status: resp.StatusCode, Err: fmt.Errorf("decode report: %w", err)}
	}

	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.UserAgent)

	return req
}

// statusError prefers the server's "detail" message and falls back to the status code.
func statusError(resp *http.Response, data []byte) error {
	message := fmt.Sprintf("Server responded with status %d", resp.StatusCode)

	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err == nil {
		if detail, ok := payload.Detail.(string); ok && strings.TrimSpace(detail) != "" {
			message = strings.TrimSpace(detail)
		}
	}

	return &ai.Error{
		Message: message,
		Status:  resp.StatusCode,
		Err:     fmt.Errorf("bad status: %s", resp.Status),
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
