package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
)

const maxResponseBytes = 1 << 20

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// registerBody and loginBody hold the public members only; the password is
// appended by secretJSON.
type registerBody struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PicturePath string `json:"picturePath,omitempty"`
	Location    string `json:"location,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
}

type loginBody struct {
	Email string `json:"email"`
}

// errorBody covers both error shapes the server produces.
type errorBody struct {
	Error  string              `json:"error"`
	Msg    string              `json:"msg"`
	Fields []common.FieldError `json:"fields"`
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	body := registerBody{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PicturePath: req.PicturePath,
		Location:    req.Location,
		Occupation:  req.Occupation,
	}
	data, err := secretJSON(body, req.Password)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(data)

	var u User
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", data, http.StatusCreated, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	data, err := secretJSON(loginBody{Email: email}, password)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(data)

	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", data, http.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, http.StatusOK, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, http.StatusOK, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body []byte, wantStatus int, out any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != wantStatus {
		return mapStatus(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(code int, data []byte) error {
	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	switch code {
	case http.StatusBadRequest:
		if eb.Msg != "" {
			return ErrInvalidCredentials
		}
		if len(eb.Fields) == 0 {
			return ErrValidation
		}
		parts := make([]string, 0, len(eb.Fields))
		for _, f := range eb.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyExists
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		msg := eb.Error
		if msg == "" {
			msg = http.StatusText(code)
		}
		return fmt.Errorf("server error %d: %s", code, msg)
	}
}

// secretJSON encodes the public members of v and appends a "password"
// member built straight from pw. The password never becomes a Go string,
// so wiping pw and the returned slice leaves no copy behind.
func secretJSON(v any, pw []byte) ([]byte, error) {
	pub, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if len(pub) < 2 || pub[0] != '{' || pub[len(pub)-1] != '}' {
		return nil, fmt.Errorf("encode request: %T is not a JSON object", v)
	}

	// worst case every byte becomes \u00XX; sized up front so append never
	// reallocates and strands a copy
	buf := make([]byte, 0, len(pub)+len(`,"password":""`)+6*len(pw))
	buf = append(buf, pub[:len(pub)-1]...)
	if len(pub) > 2 {
		buf = append(buf, ',')
	}
	buf = append(buf, `"password":"`...)
	buf = appendJSONEscaped(buf, pw)
	buf = append(buf, '"', '}')
	return buf, nil
}

func appendJSONEscaped(dst, s []byte) []byte {
	const hex = "0123456789abcdef"
	for _, b := range s {
		switch {
		case b == '"' || b == '\\':
			dst = append(dst, '\\', b)
		case b < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hex[b>>4], hex[b&0xf])
		default:
			dst = append(dst, b)
		}
	}
	return dst
}
