package lifecycle

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// CacheStatusHeader reports whether a response was served from a cache store.
	CacheStatusHeader = "X-Precache"

	maxRequestBodySize = 16 << 20
)

// Worker hosts the lifecycle phases. It installs and activates manifests,
// answers fetches, and serves HTTP requests against the manifest origin.
type Worker struct {
	storage ports.CacheStorage
	network ports.Network
	tracer  ports.Tracer
	log     ports.Logger

	// lifecycle serializes Register and Update.
	lifecycle sync.Mutex

	mu      sync.RWMutex
	state   domain.WorkerState
	latest  *domain.Manifest
	current *domain.Manifest
}

// NewWorker creates an unregistered Worker.
func NewWorker(storage ports.CacheStorage, network ports.Network, tracer ports.Tracer, log ports.Logger) *Worker {
	return &Worker{
		storage: storage,
		network: network,
		tracer:  tracer,
		log:     log,
		state:   domain.StateUnregistered,
	}
}

// State returns the lifecycle state of the most recently registered manifest.
func (w *Worker) State() domain.WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Controlling returns the active manifest, if any. Only an active manifest
// routes fetches through the cache.
func (w *Worker) Controlling() (domain.Manifest, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return domain.Manifest{}, false
	}
	return *w.current, true
}

// Register installs and activates manifest.
func (w *Worker) Register(ctx context.Context, manifest domain.Manifest) error {
	return w.Update(ctx, manifest)
}

// Update installs and activates manifest unless it is already active.
// When install fails the previously active manifest keeps control.
func (w *Worker) Update(ctx context.Context, manifest domain.Manifest) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if active, ok := w.Controlling(); ok && active.Equal(manifest) {
		w.log.Info("manifest unchanged", "version", manifest.Version)
		return nil
	}

	w.setState(domain.StateInstalling, &manifest)
	if err := w.Install(ctx, manifest); err != nil {
		w.setState(domain.StateRedundant, nil)
		return err
	}
	w.setState(domain.StateInstalled, nil)

	w.setState(domain.StateActivating, nil)
	_, err := w.Activate(ctx, manifest.Version)

	// A failed eviction leaves stale stores behind but still hands over control.
	w.mu.Lock()
	w.state = domain.StateActivated
	w.current = &manifest
	w.mu.Unlock()

	w.log.Info("worker activated", "version", manifest.Version)
	return err
}

func (w *Worker) setState(state domain.WorkerState, latest *domain.Manifest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	if latest != nil {
		w.latest = latest
	}
}

// Install runs the install phase for manifest inside a trace span.
// It does not change which manifest is in control.
func (w *Worker) Install(ctx context.Context, manifest domain.Manifest) error {
	ctx, span := w.tracer.Start(ctx, "lifecycle.install",
		ports.WithAttribute("version", manifest.Version),
		ports.WithAttribute("assets", len(manifest.Assets)),
	)
	defer span.End()

	if err := OnInstall(ctx, manifest, w.storage, w.network); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Activate runs the activate phase for version inside a trace span and
// returns the names of the deleted cache stores.
func (w *Worker) Activate(ctx context.Context, version string) ([]string, error) {
	ctx, span := w.tracer.Start(ctx, "lifecycle.activate", ports.WithAttribute("version", version))
	defer span.End()

	deleted, err := OnActivate(ctx, version, w.storage)
	span.SetAttribute("deleted", len(deleted))
	if err != nil {
		span.RecordError(err)
		return deleted, err
	}
	return deleted, nil
}

// Fetch answers req through OnFetch while a manifest is active. Before that
// the request is not controlled and goes straight to the network.
func (w *Worker) Fetch(ctx context.Context, req *domain.Request) (*domain.Response, Source, error) {
	ctx, span := w.tracer.Start(ctx, "lifecycle.fetch",
		ports.WithAttribute("method", req.Method),
		ports.WithAttribute("url", req.URL),
	)
	defer span.End()

	var (
		resp   *domain.Response
		source Source
		err    error
	)
	if _, ok := w.Controlling(); ok {
		resp, source, err = OnFetch(ctx, req, w.storage, w.network)
	} else {
		span.SetAttribute("controlled", false)
		resp, err = w.network.Fetch(ctx, req)
		source = SourceNetwork
	}

	span.SetAttribute("source", source.String())
	if err != nil {
		span.RecordError(err)
		return nil, source, err
	}
	span.SetAttribute("status", resp.Status)
	return resp, source, nil
}

// ServeHTTP resolves the request path against the origin of the active
// manifest, or of the most recently registered one while nothing is active,
// and answers it through Fetch. A failed fetch is answered with 502 Bad
// Gateway and an oversized request body with 413.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Body != nil && r.Body != http.NoBody {
		r.Body = http.MaxBytesReader(rw, r.Body, maxRequestBodySize)
	}

	req, err := w.newRequest(r)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrWorkerNotRegistered):
			status = http.StatusServiceUnavailable
		case errors.Is(err, domain.ErrRequestTooLarge):
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(rw, err.Error(), status)
		return
	}

	resp, source, err := w.Fetch(r.Context(), req)
	if err != nil {
		rw.Header().Set(CacheStatusHeader, source.String())
		http.Error(rw, err.Error(), http.StatusBadGateway)
		return
	}

	writeResponse(rw, r.Method, resp, source)
}

func (w *Worker) newRequest(r *http.Request) (*domain.Request, error) {
	w.mu.RLock()
	base := w.current
	if base == nil {
		base = w.latest
	}
	w.mu.RUnlock()

	if base == nil {
		return nil, domain.ErrWorkerNotRegistered
	}

	target, err := base.Resolve(r.URL.RequestURI())
	if err != nil {
		return nil, err
	}

	req, err := domain.NewRequest(r.Method, target)
	if err != nil {
		return nil, err
	}

	for name, values := range r.Header {
		if domain.IsHopByHopHeader(name) {
			continue
		}
		req.Header[name] = append([]string(nil), values...)
	}

	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, errors.Join(domain.ErrRequestTooLarge, maxErr)
			}
			return nil, zerr.Wrap(err, domain.ErrRequestReadFailed.Error())
		}
		req.Body = body
	}

	return req, nil
}

func writeResponse(rw http.ResponseWriter, method string, resp *domain.Response, source Source) {
	h := rw.Header()
	for name, values := range resp.Header {
		if domain.IsHopByHopHeader(name) || http.CanonicalHeaderKey(name) == "Content-Length" {
			continue
		}
		h[name] = append([]string(nil), values...)
	}
	h.Set(CacheStatusHeader, source.String())

	if !bodyAllowed(resp.Status) {
		rw.WriteHeader(resp.Status)
		return
	}

	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	rw.WriteHeader(resp.Status)
	if method != http.MethodHead {
		_, _ = rw.Write(resp.Body)
	}
}

// bodyAllowed reports whether a response with status may carry a body.
func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
