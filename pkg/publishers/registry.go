package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Builder turns one sink entry into a Publisher.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry resolves sink types to builders. Types are matched case-insensitively.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// DefaultRegistry knows every sink type this package ships.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeHTTP, newHTTPPublisher)
	r.Register(TypeSQS, newSQSPublisher)
	r.Register(TypeSNS, newSNSPublisher)
	r.Register(TypePubSub, newPubSubPublisher)
	return r
}

// Register binds typ to b, replacing any previous binding. Blank types and
// nil builders are ignored.
func (r *Registry) Register(typ string, b Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || b == nil {
		return
	}
	r.mu.Lock()
	r.builders[typ] = b
	r.mu.Unlock()
}

// Types lists the registered sink types in order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builders))
	for typ := range r.builders {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Build creates the sink described by cfg.
func (r *Registry) Build(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	r.mu.RLock()
	b, ok := r.builders[strings.ToLower(strings.TrimSpace(cfg.Type))]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sink %q: unknown type %q (known: %s)", cfg.ID, cfg.Type, strings.Join(r.Types(), ", "))
	}
	return b(ctx, cfg, log)
}

// BuildAll builds one sink per entry. If any entry fails, sinks already built
// are closed before the error is returned.
func BuildAll(ctx context.Context, reg *Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	if reg == nil {
		return nil, errors.New("sink registry is nil")
	}

	built := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.Build(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(err, closeAll(built))
		}
		built = append(built, pub)
	}
	return built, nil
}

func closeAll(pubs []Publisher) error {
	var errs []error
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close sink %s: %w", p.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
