// Package requests loads named request definitions from YAML or JSON files.
package requests

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/universal-http/pkg/configfile"
	"github.com/samvad-hq/universal-http/pkg/universalhttp"
)

// Definition is one request entry declared in a requests file.
type Definition struct {
	ID        string            `json:"id" yaml:"id"`
	URL       string            `json:"url" yaml:"url"`
	Method    string            `json:"method" yaml:"method"`
	Headers   map[string]string `json:"headers" yaml:"headers"`
	Body      map[string]any    `json:"body" yaml:"body"`
	BodyModel any               `json:"body_model" yaml:"body_model"`
	Debug     bool              `json:"debug" yaml:"debug"`
	Enabled   *bool             `json:"enabled" yaml:"enabled"`
}

type file struct {
	Requests []Definition `json:"requests" yaml:"requests"`
}

// Registry holds the loaded definitions.
type Registry struct {
	mu   sync.RWMutex
	defs []Definition
	idx  map[string]Definition
}

// LoadRegistry loads request definitions from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	parsed, err := configfile.Load[file](path, "requests")
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Requests)
}

// NewRegistry validates defs and indexes them by id.
func NewRegistry(defs []Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("requests file contains no requests entries")
	}

	reg := &Registry{
		defs: make([]Definition, len(defs)),
		idx:  make(map[string]Definition, len(defs)),
	}
	for i := range defs {
		d := sanitizeDefinition(defs[i])
		if err := validateDefinition(d); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := reg.idx[d.ID]; exists {
			return nil, fmt.Errorf("duplicate request id %q", d.ID)
		}
		reg.defs[i] = d
		reg.idx[d.ID] = d
	}
	return reg, nil
}

func sanitizeDefinition(d Definition) Definition {
	d.ID = strings.TrimSpace(d.ID)
	d.URL = strings.TrimSpace(d.URL)
	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	if d.Method == "" {
		d.Method = universalhttp.GET.String()
	}
	if d.Enabled == nil {
		def := true
		d.Enabled = &def
	}
	return d
}

func validateDefinition(d Definition) error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	if d.URL == "" {
		return fmt.Errorf("url is required for request %q", d.ID)
	}
	if _, err := universalhttp.ParseMethod(d.Method); err != nil {
		return fmt.Errorf("request %q: %w", d.ID, err)
	}
	return nil
}

// ByID returns the definition with the given id.
func (r *Registry) ByID(id string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Definition{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.idx[id]
	return d, ok
}

// All returns every loaded definition.
func (r *Registry) All() []Definition {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Enabled returns definitions that are enabled.
func (r *Registry) Enabled() []Definition {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Definition, 0, len(all))
	for _, d := range all {
		if d.EnabledValue() {
			out = append(out, d)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (d Definition) EnabledValue() bool {
	if d.Enabled == nil {
		return true
	}
	return *d.Enabled
}

// Request maps the definition onto an executor request. debug forces debug
// output on regardless of the definition's own flag.
func (d Definition) Request(delegate universalhttp.Delegate, debug bool) (universalhttp.Request, error) {
	method, err := universalhttp.ParseMethod(d.Method)
	if err != nil {
		return universalhttp.Request{}, err
	}
	return universalhttp.Request{
		Delegate:  delegate,
		URL:       d.URL,
		Body:      d.Body,
		Method:    method,
		BodyModel: d.BodyModel,
		Headers:   d.Headers,
		Debug:     d.Debug || debug,
	}, nil
}
