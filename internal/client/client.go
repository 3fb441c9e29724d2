// Package client talks to a running hostel service over its REST API. Its
// Records type satisfies crud.Store so a crud.Session can drive a remote
// service the same way it drives a local store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hostel-service/internal/auth"
	"hostel-service/internal/crud"
	"hostel-service/internal/dashboard"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("unauthorized")

type Conn struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewConn connects to the service at baseURL, e.g. "http://localhost:8080".
// token may be empty when auth is disabled.
func NewConn(baseURL, token string) *Conn {
	return &Conn{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithHTTPClient replaces the underlying client.
func (c *Conn) WithHTTPClient(hc *http.Client) *Conn {
	c.httpClient = hc
	return c
}

func (c *Conn) Login(ctx context.Context, email, password string) (auth.LoginResponse, error) {
	var out auth.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, auth.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Conn) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	var out dashboard.Summary
	err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, nil, &out)
	return out, err
}

// Report downloads a CSV report into w.
func (c *Conn) Report(ctx context.Context, kind string, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(kind), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return nil
}

func (c *Conn) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// send executes a request and turns non-2xx responses into errors. The
// caller closes the body of a successful response.
func (c *Conn) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, crud.ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", crud.ErrValidation, strings.TrimPrefix(msg, crud.ErrValidation.Error()+": "))
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case http.StatusPreconditionRequired:
		return crud.ErrConfirmationRequired
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}
}

// Records is a crud.Store backed by one record kind of a remote service.
type Records[T crud.Entity[T]] struct {
	conn *Conn
	base string
}

func NewRecords[T crud.Entity[T]](conn *Conn, kind crud.Kind) *Records[T] {
	return &Records[T]{conn: conn, base: "/api/" + kind.Plural}
}

func (r *Records[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.conn.do(ctx, http.MethodGet, r.base, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Records[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var out T
	err := r.conn.do(ctx, http.MethodGet, r.base+"/"+id.String(), nil, nil, &out)
	return out, err
}

func (r *Records[T]) Create(ctx context.Context, rec T) (T, error) {
	var out T
	err := r.conn.do(ctx, http.MethodPost, r.base, nil, rec, &out)
	return out, err
}

func (r *Records[T]) Update(ctx context.Context, rec T) (T, error) {
	var out T
	err := r.conn.do(ctx, http.MethodPut, r.base+"/"+rec.GetID().String(), nil, rec, &out)
	return out, err
}

// Delete removes a record. Confirmation is the caller's job, so the request
// always carries confirm=true.
func (r *Records[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn.do(ctx, http.MethodDelete, r.base+"/"+id.String(), url.Values{"confirm": {"true"}}, nil, nil)
}
