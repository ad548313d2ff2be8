// Package httpclient implements the login-sync service as a client of the HTTP
// API served by "pass-fxa serve".
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pass-fxa/core/loginsync"
	"pass-fxa/core/reconcile"

	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// Dialer opens sessions on a remote login-sync server.
type Dialer struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

var (
	_ loginsync.Dialer = (*Dialer)(nil)
	_ loginsync.Client = (*Client)(nil)
)

// New creates a dialer for cfg.Endpoint. A nil httpClient gets one with
// cfg.TimeoutSeconds as request timeout.
func New(cfg loginsync.Config, httpClient *http.Client, logger *zap.Logger) *Dialer {
	if httpClient == nil {
		timeout := cfg.TimeoutSeconds
		if timeout <= 0 {
			timeout = 30
		}
		httpClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialer{
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  logger,
	}
}

// Authenticate opens a session and returns a client bound to it.
func (d *Dialer) Authenticate(ctx context.Context, username, password string) (loginsync.Client, error) {
	var resp loginsync.SessionResponse
	err := d.do(ctx, http.MethodPost, "/sessions", "", loginsync.SessionRequest{Username: username, Password: password}, &resp)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
		return nil, loginsync.ErrAuthFailed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("failed to open session: empty token")
	}
	return &Client{dialer: d, token: resp.Token}, nil
}

// Client is an open session.
type Client struct {
	dialer *Dialer
	token  string
}

// FetchLogins returns the account's logins in snapshot order.
func (c *Client) FetchLogins(ctx context.Context) ([]reconcile.RemoteLogin, error) {
	var logins []reconcile.RemoteLogin
	if err := c.dialer.do(ctx, http.MethodGet, "/logins", c.token, nil, &logins); err != nil {
		return nil, fmt.Errorf("failed to fetch logins: %w", err)
	}
	if logins == nil {
		logins = []reconcile.RemoteLogin{}
	}
	return logins, nil
}

// PutLogins applies create and update jobs as one request.
func (c *Client) PutLogins(ctx context.Context, jobs []reconcile.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	var resp loginsync.PutResponse
	err := c.dialer.do(ctx, http.MethodPut, "/logins", c.token, loginsync.PutRequest{Jobs: jobs}, &resp)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", statusErr.Message, loginsync.ErrUnknownLogin)
	}
	if err != nil {
		return err
	}
	c.dialer.logger.Debug("Applied login batch", zap.Int("applied", resp.Applied))
	return nil
}

// DeleteLogins removes logins by id as one request.
func (c *Client) DeleteLogins(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var resp loginsync.DeleteResponse
	if err := c.dialer.do(ctx, http.MethodPost, "/logins/delete", c.token, loginsync.DeleteRequest{IDs: ids}, &resp); err != nil {
		return err
	}
	c.dialer.logger.Debug("Deleted logins", zap.Int("deleted", resp.Deleted))
	return nil
}

func (d *Dialer) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if d.apiKey != "" {
		req.Header.Set("X-API-Key", d.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp loginsync.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &StatusError{Method: method, Path: apiPrefix + path, Code: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, apiPrefix+path, err)
	}
	return nil
}
