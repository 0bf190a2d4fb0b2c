package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-leave/internal/role"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type envelope struct {
	Ok      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the leave backend. It is safe for concurrent use; a token
// bound copy is made with WithToken.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("client.api")
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		logger: zap.L().Named("client.api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) EmployeeLogin(ctx context.Context, whatsappNumber string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"whatsappNumber": whatsappNumber}
	err := c.do(ctx, http.MethodPost, "/"+role.Employee.PathPrefix()+"/login", nil, body, nil, &out)
	return out, err
}

func (c *Client) PasswordLogin(ctx context.Context, r role.Role, employeeCode, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"employeeCode": employeeCode, "password": password}
	err := c.do(ctx, http.MethodPost, "/"+r.PathPrefix()+"/login", nil, body, nil, &out)
	return out, err
}

// SubmitLeave sends idempotencyKey when it is not empty so a repeated click
// replays the first result.
func (c *Client) SubmitLeave(ctx context.Context, r role.Role, req SubmitLeaveRequest, idempotencyKey string) (LeaveRecord, error) {
	var out LeaveRecord
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{HeaderIdempotencyKey: []string{idempotencyKey}}
	}
	err := c.do(ctx, http.MethodPost, "/"+r.PathPrefix()+"/submit-leave-application", nil, req, headers, &out)
	return out, err
}

func (c *Client) PendingLeaves(ctx context.Context, r role.Role, employeeCode string) ([]LeaveRecord, error) {
	var out []LeaveRecord
	q := url.Values{"employeeCode": []string{employeeCode}}
	err := c.do(ctx, http.MethodGet, "/"+r.PathPrefix()+"/get-pending-leaves", q, nil, nil, &out)
	if out == nil && err == nil {
		out = []LeaveRecord{}
	}
	return out, err
}

func (c *Client) ChangeStatus(ctx context.Context, r role.Role, req ChangeStatusRequest) (LeaveRecord, error) {
	var out LeaveRecord
	err := c.do(ctx, http.MethodPut, "/"+r.PathPrefix()+"/change-leave-application-status", nil, req, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers http.Header, out any) error {
	op := method + " " + path

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	c.logger.Debug("backend request", zap.String("op", op))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil {
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				if env.Error.Message != "" {
					apiErr.Message = env.Error.Message
				}
			}
			if env.Message != "" {
				apiErr.Message = env.Message
			}
		}
		c.logger.Debug("backend error", zap.String("op", op), zap.Int("status", apiErr.Status), zap.String("code", apiErr.Code))
		return apiErr
	}

	if decodeErr != nil {
		return &NetworkError{Op: op, Err: decodeErr}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &NetworkError{Op: op, Err: errors.Join(errors.New("decode data"), err)}
	}
	return nil
}
