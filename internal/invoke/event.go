// Package invoke runs a catalog resource as a serverless function: one JSON
// event in, one JSON response envelope out, with a fresh datastore
// connection per invocation.
package invoke

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"
)

// Event is the request envelope handed to a function.
type Event struct {
	HTTPMethod            string            `json:"httpMethod"`
	Path                  string            `json:"path"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	RequestContext        RequestContext    `json:"requestContext"`
}

type RequestContext struct {
	RequestID string `json:"requestId"`
}

// Response is the envelope a function returns.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Dispatch turns ev into an *http.Request, serves it with h and captures the
// result. A missing method means GET. The request id comes from the event's
// requestContext, or a new xid when the platform did not supply one, and is
// passed on as X-Request-Id so chi's RequestID middleware adopts it.
func Dispatch(ctx context.Context, h http.Handler, ev Event) (Response, error) {
	req, err := newRequest(ctx, ev)
	if err != nil {
		return Response{}, err
	}

	rec := newRecorder()
	h.ServeHTTP(rec, req)
	return rec.response(), nil
}

func newRequest(ctx context.Context, ev Event) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(ev.HTTPMethod))
	if method == "" {
		method = http.MethodGet
	}

	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 body: %w", err)
		}
		body = decoded
	}

	path := ev.Path
	if path == "" {
		path = "/"
	}
	u := &url.URL{Path: path}
	if len(ev.QueryStringParameters) > 0 {
		q := url.Values{}
		for k, v := range ev.QueryStringParameters {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range ev.Headers {
		req.Header.Set(k, v)
	}

	requestID := ev.RequestContext.RequestID
	if requestID == "" {
		requestID = xid.New().String()
	}
	req.Header.Set(chimiddleware.RequestIDHeader, requestID)
	return req, nil
}

// recorder is a minimal http.ResponseWriter that buffers the reply.
type recorder struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: http.Header{}, status: http.StatusOK}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
}

func (r *recorder) Write(b []byte) (int, error) {
	r.WriteHeader(http.StatusOK)
	return r.body.Write(b)
}

// response flattens multi-value headers with ", " and base64-encodes a body
// that is not valid UTF-8.
func (r *recorder) response() Response {
	headers := make(map[string]string, len(r.header))
	for k, v := range r.header {
		headers[k] = strings.Join(v, ", ")
	}

	resp := Response{
		StatusCode: r.status,
		Headers:    headers,
	}
	if utf8.Valid(r.body.Bytes()) {
		resp.Body = r.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(r.body.Bytes())
		resp.IsBase64Encoded = true
	}
	return resp
}
