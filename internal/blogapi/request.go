package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 10 << 20

// call describes one request and how to interpret its failure statuses.
type call struct {
	op     string // action phrase used in messages, e.g. "delete post"
	method string
	path   string
	query  url.Values
	body   any
	auth   bool

	// statuses maps the op-specific status codes to error kinds. 401 is
	// handled for every call and need not be listed.
	statuses map[int]ErrorKind

	// fallbacks holds the message used when a mapped status carries no
	// "error" field in its body. For 404 it is always used, since the
	// message names the requested resource.
	fallbacks map[int]string
}

// errorBody is the JSON error envelope the blog server sends.
type errorBody struct {
	Error string `json:"error"`
}

// do executes c and decodes a 2xx body into out (when out is non-nil). It
// returns the raw body of a successful response.
func (c *Client) do(ctx context.Context, cl call, out any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, c.transportError(cl, "could not build the request", err)
	}

	slog.Debug("calling blog API", "op", cl.op, "method", cl.method, "path", cl.path)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(cl, "the blog server could not be reached", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportError(cl, "the response could not be read", err)
	}

	if err := c.classify(cl, resp, body); err != nil {
		return nil, err
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, c.transportError(cl, "the blog server returned an unreadable response", err)
		}
	}
	return body, nil
}

// newRequest builds the HTTP request for cl.
func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if cl.auth {
		if c.apiKey != "" {
			req.Header.Set(APIKeyHeader, c.apiKey)
		} else {
			slog.Warn("no API key configured for authenticated call", "op", cl.op)
		}
	}
	return req, nil
}

// classify maps a non-2xx response to an *Error. It returns nil for 2xx.
func (c *Client) classify(cl call, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	e := &Error{
		Op:         cl.op,
		Status:     code,
		StatusText: statusText(resp),
	}

	if code == http.StatusUnauthorized {
		e.Kind = KindAuthentication
		e.Message = authMessage
		return e
	}

	if kind, ok := cl.statuses[code]; ok {
		e.Kind = kind
		e.Message = cl.fallbacks[code]
		if kind != KindNotFound {
			if msg := serverMessage(body); msg != "" {
				e.Message = msg
			}
		}
		if e.Message == "" {
			e.Message = fmt.Sprintf("Unable to %s. Status: %d - %s", cl.op, code, e.StatusText)
		}
		return e
	}

	e.Kind = KindRequest
	e.Message = fmt.Sprintf("Unable to %s. Status: %d - %s", cl.op, code, e.StatusText)
	return e
}

func (c *Client) transportError(cl call, what string, err error) *Error {
	slog.Warn("blog API transport failure", "op", cl.op, "error", err)

	msg := fmt.Sprintf("Unable to %s: %s.", cl.op, what)
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		msg = fmt.Sprintf("Unable to %s: the request timed out.", cl.op)
	} else if errors.Is(err, context.Canceled) {
		msg = fmt.Sprintf("Unable to %s: the request was canceled.", cl.op)
	}
	return &Error{
		Kind:    KindTransport,
		Op:      cl.op,
		Message: msg,
		Err:     err,
	}
}

// serverMessage extracts the "error" field from a JSON error body.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}

// statusText returns the reason phrase of resp, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
