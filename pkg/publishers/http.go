package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/universal-http/pkg/httpclient"
)

// webhookPublisher posts each alert as JSON to a configured endpoint. It uses
// the same transport abstraction as the executor.
type webhookPublisher struct {
	id     string
	method string
	url    string
	header http.Header
	client httpclient.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	header := make(http.Header, len(cfg.HTTP.Headers)+1)
	for k, v := range cfg.HTTP.Headers {
		header.Set(k, v)
	}
	header.Set("Content-Type", "application/json")

	method := cfg.HTTP.Method
	if method == "" {
		method = httpDefaultMethod
	}

	return &webhookPublisher{
		id:     cfg.ID,
		method: method,
		url:    cfg.HTTP.URL,
		header: header,
		client: httpclient.NewRestyClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:    ensureLogger(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	header := w.header.Clone()
	if evt.ID != "" {
		header.Set("X-Alert-Id", evt.ID)
	}

	resp, err := w.client.Do(ctx, httpclient.Request{
		Method: w.method,
		URL:    w.url,
		Header: header,
		Body:   payload,
	})
	if err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		w.log.WarnObj("webhook refused alert", "alert_delivery", map[string]any{
			"sink_id":    w.id,
			"request_id": evt.RequestID,
			"status":     code,
		})
		return fmt.Errorf("webhook status %d: %s", code, trimmedBody(resp.Body()))
	}
	return nil
}

// trimmedBody keeps error messages short.
func trimmedBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
