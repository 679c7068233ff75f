package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/universal-http/internal/config"
	"github.com/samvad-hq/universal-http/internal/logger"
	"github.com/samvad-hq/universal-http/internal/storage"
	"github.com/samvad-hq/universal-http/pkg/publishers"
	"github.com/samvad-hq/universal-http/pkg/requests"
	"github.com/samvad-hq/universal-http/pkg/universalhttp"
)

// Runner executes the configured requests on an interval, publishes an alert
// for every failed request and journals the last outcome per request.
type Runner struct {
	cfg      *config.Config
	defs     *requests.Registry
	fanout   *publishers.Fanout
	executor *universalhttp.Executor
	store    storage.Store
	interval time.Duration
	log      logger.Logger
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	defs, err := requests.LoadRegistry(cfg.RequestsFile)
	if err != nil {
		return nil, fmt.Errorf("load requests registry: %w", err)
	}
	ids := make([]string, 0, len(defs.All()))
	for _, d := range defs.All() {
		ids = append(ids, d.ID)
	}
	log.InfoObj("requests registry loaded", "requests_meta", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	executor := universalhttp.NewExecutor(
		universalhttp.WithTimeout(cfg.HTTPTimeout),
		universalhttp.WithLogger(log),
	)

	return newRunner(cfg, defs, fanout, store, executor, log), nil
}

func newRunner(cfg *config.Config, defs *requests.Registry, fanout *publishers.Fanout, store storage.Store, executor *universalhttp.Executor, log logger.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		defs:     defs,
		fanout:   fanout,
		executor: executor,
		store:    store,
		interval: cfg.RunInterval,
		log:      log,
	}
}

// buildFanout loads alert sinks; no publishers file means alerts are only logged.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.InfoObj("no publishers file configured; alerts are logged only", "publishers_file", cfg.PublishersFile)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run executes all enabled requests, then repeats every interval until the
// context is cancelled. With run_once it returns after the first pass.
// Cancellation is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.executor == nil {
		return fmt.Errorf("runner is not initialized")
	}
	defer r.close()

	defs := r.defs.Enabled()
	if len(defs) == 0 {
		r.log.WarnObj("no enabled requests; runner idle", "requests_file", r.cfg.RequestsFile)
		if r.cfg.RunOnce {
			return nil
		}
		<-ctx.Done()
		r.log.InfoObj("runner loop exiting", "reason", ctx.Err())
		return nil
	}

	r.log.InfoObj("runner loop starting", "runner_state", map[string]any{
		"requests_count":   len(defs),
		"publishers_count": r.fanout.Size(),
		"run_interval":     r.interval.String(),
		"run_once":         r.cfg.RunOnce,
	})

	err := r.runOnce(ctx, defs)
	if r.cfg.RunOnce {
		return err
	}
	if err != nil {
		r.log.ErrorObj("initial run had failures", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("runner loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, defs); err != nil {
				r.log.ErrorObj("scheduled run had failures", "error", err)
			}
		}
	}
}

// runOnce executes every definition concurrently and joins the failures.
func (r *Runner) runOnce(ctx context.Context, defs []requests.Definition) error {
	start := time.Now()

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, def := range defs {
		wg.Add(1)
		go func(def requests.Definition) {
			defer wg.Done()
			if err := r.execute(ctx, def); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(def)
	}
	wg.Wait()

	r.log.InfoObj("run completed", "run_meta", map[string]any{
		"requests_count": len(defs),
		"failed_count":   len(errs),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// execute sends one definition, alerts on failure and journals the outcome.
func (r *Runner) execute(ctx context.Context, def requests.Definition) error {
	var failed bool
	req, err := def.Request(universalhttp.DelegateFunc(func() { failed = true }), r.cfg.Debug)
	if err != nil {
		return fmt.Errorf("request %s: %w", def.ID, err)
	}

	out, err := universalhttp.Execute[any](ctx, r.executor, req)
	status, hasStatus := out.Status()

	entry := storage.Entry{StatusCode: status, OK: out.OK()}
	if err != nil {
		entry.Kind = universalhttp.KindOf(err).String()
	}
	r.journal(def.ID, entry)

	if failed {
		var statusPtr *int
		if hasStatus {
			statusPtr = &status
		}
		r.alert(ctx, publishers.NewEvent(def.ID, req.Method.String(), def.URL, statusPtr, err))
		return fmt.Errorf("request %s: %w", def.ID, err)
	}

	r.log.InfoObj("request completed", "request_result", map[string]any{
		"request_id":  def.ID,
		"status_code": status,
		"decoded":     out.OK(),
	})
	return nil
}

func (r *Runner) alert(ctx context.Context, evt publishers.Event) {
	r.log.WarnObj("request failed", "request_alert", evt)
	if r.fanout.Size() == 0 {
		return
	}
	delivered, err := r.fanout.Publish(ctx, evt)
	if err != nil {
		r.log.ErrorObj("alert delivery failed", "alert_error", map[string]any{
			"request_id": evt.RequestID,
			"delivered":  delivered,
			"error":      err.Error(),
		})
	}
}

// journal records the outcome and logs when it differs from the previous run.
func (r *Runner) journal(id string, entry storage.Entry) {
	prev, found, err := r.store.Record(id, entry)
	if err != nil {
		r.log.ErrorObj("journal write failed", "journal_error", map[string]any{
			"request_id": id,
			"error":      err.Error(),
		})
		return
	}
	if found && (prev.StatusCode != entry.StatusCode || prev.OK != entry.OK) {
		r.log.InfoObj("request outcome changed", "request_transition", map[string]any{
			"request_id":      id,
			"previous_status": prev.StatusCode,
			"previous_ok":     prev.OK,
			"status":          entry.StatusCode,
			"ok":              entry.OK,
		})
	}
}

// close releases the store and publisher clients, logging any errors encountered.
func (r *Runner) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err)
	}
}
