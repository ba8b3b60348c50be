// Package jobe talks to a Jobe sandbox server over its REST API.
package jobe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/programme-lv/activecode/api"
)

const (
	DefaultRunPath       = "/jobe/index.php/restapi/runs/"
	DefaultFilePath      = "/jobe/index.php/restapi/files/"
	DefaultLanguagesPath = "/jobe/index.php/restapi/languages"
)

// TransportError is a failed round trip: the request never completed or
// the server answered with an unexpected status.
type TransportError struct {
	Method string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Config struct {
	BaseURL       string
	APIKey        string
	RunPath       string
	FilePath      string
	LanguagesPath string
	Timeout       time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.RunPath == "" {
		cfg.RunPath = DefaultRunPath
	}
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultFilePath
	}
	if cfg.LanguagesPath == "" {
		cfg.LanguagesPath = DefaultLanguagesPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) url(path string, elem ...string) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	for _, e := range elem {
		u = strings.TrimRight(u, "/") + "/" + e
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-KEY", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	return resp, nil
}

func statusError(resp *http.Response) *TransportError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &TransportError{
		Method: resp.Request.Method,
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(b)),
	}
}

// Run submits spec and returns Jobe's verdict. It is never retried.
func (c *Client) Run(ctx context.Context, spec api.RunSpec) (*api.RunResult, error) {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, c.url(c.cfg.RunPath), api.RunRequest{RunSpec: spec})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var res api.RunResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, &TransportError{Method: http.MethodPost, URL: resp.Request.URL.String(), Status: resp.StatusCode,
			Err: fmt.Errorf("failed to decode run result: %w", err)}
	}
	c.logger.Debug("run finished",
		"language", spec.LanguageID,
		"outcome", int(res.Outcome),
		"elapsed", time.Since(start))
	return &res, nil
}

// CheckFile reports whether the sandbox holds a file with the given id.
func (c *Client) CheckFile(ctx context.Context, id string) (bool, error) {
	resp, err := c.do(ctx, http.MethodHead, c.url(c.cfg.FilePath, id), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound, http.StatusAlreadyReported:
		return false, nil
	}
	return false, statusError(resp)
}

// PutFile uploads base64 encoded contents under id.
func (c *Client) PutFile(ctx context.Context, id, contents string) error {
	resp, err := c.do(ctx, http.MethodPut, c.url(c.cfg.FilePath, id), api.PutFileRequest{FileContents: contents})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

// Languages lists the languages the sandbox supports.
func (c *Client) Languages(ctx context.Context) ([]api.Language, error) {
	resp, err := c.do(ctx, http.MethodGet, c.url(c.cfg.LanguagesPath), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var langs []api.Language
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	return langs, nil
}
