// Package universalhttp sends a single JSON request and decodes the response
// into a caller-chosen model type.
//
// Every call reports through two channels: the Delegate is told that an error
// occurred, and the result (an *Outcome or the completion arguments) carries
// the decoded model or its absence. An empty response body is not an error.
package universalhttp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/samvad-hq/universal-http/pkg/httpclient"
)

// DefaultTimeout applies to executors built without an explicit client.
const DefaultTimeout = 60 * time.Second

// Executor owns the shared transport. It holds no per-request state and is
// safe for concurrent use.
type Executor struct {
	client httpclient.Client
	log    Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithClient sets the transport.
func WithClient(c httpclient.Client) Option {
	return func(e *Executor) { e.client = c }
}

// WithTimeout builds the default resty transport with the given timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.client = httpclient.NewRestyClient(d) }
}

// WithLogger sets the logger used for warnings and debug output. Without it
// the executor logs through zap's global logger.
func WithLogger(l Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor builds an executor, defaulting to a resty transport.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.client == nil {
		e.client = httpclient.NewRestyClient(DefaultTimeout)
	}
	e.log = ensureLogger(e.log)
	return e
}

var shared = sync.OnceValue(func() *Executor { return NewExecutor() })

// Default returns the process-wide executor used when a nil *Executor is passed.
func Default() *Executor { return shared() }

// Execute sends the request and blocks until the response is decoded.
//
// A nil *Outcome means the request was never sent (invalid URL). Otherwise the
// outcome's Model is nil on failure or empty body and its StatusCode is nil when
// no HTTP response was received. The delegate is notified exactly when the
// returned error is non-nil.
func Execute[M any](ctx context.Context, e *Executor, req Request) (*Outcome[M], error) {
	if e == nil {
		e = Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := execute[M](ctx, e, req)
	if err != nil {
		notify(req.Delegate)
	}
	return out, err
}

// PerformRequest sends the request on its own goroutine and invokes completion
// exactly once. completion receives (nil, nil) when the request was never sent.
func PerformRequest[M any](ctx context.Context, e *Executor, req Request, completion func(model *M, statusCode *int)) {
	go func() {
		out, _ := Execute[M](ctx, e, req)
		if completion == nil {
			return
		}
		if out == nil {
			completion(nil, nil)
			return
		}
		completion(out.Model, out.StatusCode)
	}()
}

// Send is the fire-and-forget form: failures reach only the delegate.
func Send[M any](ctx context.Context, e *Executor, req Request) {
	go func() {
		_, _ = Execute[M](ctx, e, req)
	}()
}

func execute[M any](ctx context.Context, e *Executor, req Request) (*Outcome[M], error) {
	method := req.Method.String()

	u, err := parseURL(req.URL)
	if err != nil {
		e.log.WarnObj("request url rejected", "request_error", map[string]any{
			"method": method,
			"url":    req.URL,
			"error":  err.Error(),
		})
		return nil, &Error{Kind: KindInvalidURL, Method: method, URL: req.URL, Err: err}
	}

	body, encErr := encodeBody(req)
	if encErr != nil {
		e.log.WarnObj("request body not attached", "request_error", map[string]any{
			"method": method,
			"url":    req.URL,
			"error":  (&Error{Kind: KindEncode, Method: method, URL: req.URL, Err: encErr}).Error(),
		})
	}

	resp, err := e.client.Do(ctx, httpclient.Request{
		Method: method,
		URL:    u.String(),
		Header: buildHeader(req.Headers, body != nil),
		Body:   body,
	})
	if err == nil && resp == nil {
		err = errors.New("transport returned no response")
	}

	status := statusOf(resp)
	if req.Debug && resp != nil {
		e.log.InfoObj("response received", "response", responseFields(method, req.URL, status, resp.Header(), resp.Body(), true))
	}

	if err != nil {
		e.log.WarnObj("request transport failed", "request_error", map[string]any{
			"method": method,
			"url":    req.URL,
			"error":  err.Error(),
		})
		return &Outcome[M]{StatusCode: status}, &Error{Kind: KindTransport, Method: method, URL: req.URL, Err: err}
	}

	raw := resp.Body()
	if len(raw) == 0 {
		return &Outcome[M]{StatusCode: status}, nil
	}

	model, err := decode[M](raw)
	if err != nil {
		fields := responseFields(method, req.URL, status, resp.Header(), raw, false)
		fields["error"] = err.Error()
		e.log.WarnObj("response decode failed", "request_error", fields)
		return &Outcome[M]{StatusCode: status}, &Error{Kind: KindDecode, Method: method, URL: req.URL, Err: err}
	}

	return &Outcome[M]{Model: &model, StatusCode: status}, nil
}

func decode[M any](raw []byte) (M, error) {
	var model M
	if err := json.Unmarshal(raw, &model); err != nil {
		return model, err
	}
	return model, nil
}

func statusOf(resp httpclient.Response) *int {
	if resp == nil {
		return nil
	}
	code := resp.StatusCode()
	if code == 0 {
		return nil
	}
	return &code
}
