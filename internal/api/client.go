package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/model-cloud/mcloud/internal/notify"
	"github.com/model-cloud/mcloud/internal/session"
)

const (
	defaultTimeout  = 30 * time.Second
	jsonContentType = "application/json;charset=UTF-8"

	msgAuthExpired  = "Login expired, please log in again"
	msgForbidden    = "No permission to access this resource"
	msgNotFound     = "Requested resource does not exist"
	msgServerError  = "Internal server error"
	msgNetworkError = "Network error, please check your connection"
	msgGenericFail  = "Request failed"
)

// envelope is the wire contract every API response follows.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Navigator receives the forced redirect to the login view when a call
// comes back 401. The route guard's router implements it.
type Navigator interface {
	RedirectToLogin()
}

// RequestHook runs on every outgoing request before it is sent.
type RequestHook func(req *http.Request) error

// Client is the single configured HTTP client for the Model Cloud API.
// It attaches credentials on the way out, interprets the response
// envelope on the way in, and translates failures into user-visible
// notices. It never retries; all errors propagate to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    session.Storage
	sessions   *session.Store
	notifier   notify.Notifier
	nav        Navigator
	log        zerolog.Logger
	hooks      []RequestHook
}

// New creates a new API client. The token is read from storage on each
// request rather than from the session store, so requests issued before
// the store is seeded still carry credentials.
func New(baseURL string, sessions *session.Store, storage session.Storage, notifier notify.Notifier, log zerolog.Logger) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		storage:  storage,
		notifier: notifier,
		log:      log,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	c.hooks = []RequestHook{
		c.attachBearerToken,
		attachRequestID,
	}
	return c
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetNavigator sets the navigator used for the forced login redirect.
func (c *Client) SetNavigator(nav Navigator) {
	c.nav = nav
}

// attachBearerToken injects the stored token as a bearer credential.
// A missing token is not an error; the call simply goes out anonymous.
func (c *Client) attachBearerToken(req *http.Request) error {
	token, ok, err := c.storage.Get(session.KeyToken)
	if err != nil {
		c.log.Debug().Err(err).Msg("failed to read token from storage")
		return nil
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func attachRequestID(req *http.Request) error {
	req.Header.Set("X-Request-Id", uuid.NewString())
	return nil
}

// get issues a GET request and unwraps the envelope data into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// post issues a POST with a JSON body (nil for an empty body).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, reader, jsonContentType, out)
}

// put issues a PUT with a JSON body (nil for an empty body).
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, reader, jsonContentType, out)
}

// del issues a DELETE, optionally with a JSON body (batch endpoints).
func (c *Client) del(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, reader, jsonContentType, out)
}

// submitForm issues a multipart request. The content type comes from
// the multipart writer so the boundary is always correct; the client's
// JSON default never applies to form bodies.
func (c *Client) submitForm(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, nil, body, contentType, out)
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do sends one request and interprets the response. Every completed
// call, success or failure, passes through here exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, hook := range c.hooks {
		if err := hook(req); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response at all: connection failure or timeout.
		c.notifier.Error(msgNetworkError)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.notifier.Error(msgNetworkError)
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(resp.StatusCode, data)
	}
	return c.handleEnvelope(data, out)
}

// handleHTTPError maps transport-level failures to the fixed notice
// table. A 401 here forces the same logout as an envelope 401.
func (c *Client) handleHTTPError(status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)

	switch status {
	case http.StatusUnauthorized:
		c.sessionExpired()
		return &HTTPError{StatusCode: status, Message: msgAuthExpired}
	case http.StatusForbidden:
		c.notifier.Error(msgForbidden)
		return &HTTPError{StatusCode: status, Message: msgForbidden}
	case http.StatusNotFound:
		c.notifier.Error(msgNotFound)
		return &HTTPError{StatusCode: status, Message: msgNotFound}
	case http.StatusInternalServerError:
		c.notifier.Error(msgServerError)
		return &HTTPError{StatusCode: status, Message: msgServerError}
	default:
		msg := env.Message
		if msg == "" {
			msg = msgGenericFail
		}
		c.notifier.Error(msg)
		return &HTTPError{StatusCode: status, Message: msg}
	}
}

// handleEnvelope unwraps a 2xx response. Envelope code 200 returns the
// payload; 401 forces logout; anything else is an application error.
func (c *Client) handleEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.notifier.Error(msgGenericFail)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	switch {
	case env.Code == http.StatusOK:
		if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
		return nil

	case env.Code == http.StatusUnauthorized:
		c.sessionExpired()
		msg := env.Message
		if msg == "" {
			msg = msgAuthExpired
		}
		return &Error{Code: env.Code, Message: msg}

	default:
		msg := env.Message
		if msg == "" {
			msg = msgGenericFail
		}
		c.notifier.Error(msg)
		return &Error{Code: env.Code, Message: msg}
	}
}

// sessionExpired is the single recovery path for a 401: clear the
// session, tell the user once, and send navigation back to login.
func (c *Client) sessionExpired() {
	if err := c.sessions.ClearUserInfo(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear session")
	}
	c.notifier.Warn(msgAuthExpired)
	if c.nav != nil {
		c.nav.RedirectToLogin()
	}
}

// Form accumulates a multipart body.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// AddField adds a plain text field.
func (f *Form) AddField(name, value string) error {
	if err := f.writer.WriteField(name, value); err != nil {
		return fmt.Errorf("failed to write form field %s: %w", name, err)
	}
	return nil
}

// AddFile adds a file part read from r.
func (f *Form) AddFile(field, filename string, r io.Reader) error {
	part, err := f.writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to write form file %s: %w", field, err)
	}
	return nil
}

func (f *Form) encode() (io.Reader, string, error) {
	if err := f.writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return &f.buf, f.writer.FormDataContentType(), nil
}
