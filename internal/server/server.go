// Package server exposes the concept-graph pipeline over HTTP.
//
// Routes:
//
//	POST /v1/graphs                 text → scene, graph and stats as JSON
//	POST /v1/graphs/render?format=  text → png, svg, dot, json or pdf bytes
//	GET  /v1/similarity?a=&b=       oracle score for two terms
//	GET  /healthz                   liveness
//	GET  /version                   build info
//	GET  /metrics                   Prometheus metrics
//
// Errors are JSON bodies carrying the error code; INVALID_* codes map to
// 400, NOT_FOUND to 404 and lexicon or oracle failures to 503.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/conceptmap/pkg/buildinfo"
	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout"
	"github.com/matzehuels/conceptmap/pkg/linker"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/similarity"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// Config wires a Server.
type Config struct {
	Runner  *pipeline.Runner
	Oracle  similarity.Oracle // for /v1/similarity; defaults to Runner.Oracle
	Options pipeline.Options  // base options; requests override a subset
	Style   viewport.Style
	Display viewport.Size // default device size; zero means the canvas
	MaxBody int64
	Metrics *Metrics // optional
	Logger  *log.Logger
}

// Server handles API requests. It holds no per-request state.
type Server struct {
	cfg     Config
	logger  *log.Logger
	metrics *Metrics
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Oracle == nil && cfg.Runner != nil {
		cfg.Oracle = cfg.Runner.Oracle
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = cerrors.MaxTextBytes
	}
	cfg.Options.SetDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, logger: logger, metrics: cfg.Metrics}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(withRequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.healthz)
	r.Get("/version", s.version)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/graphs", func(r chi.Router) {
			r.Post("/", s.createGraph)
			r.Post("/render", s.renderGraph)
		})
		r.Get("/similarity", s.similarity)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Requests and responses
// =============================================================================

// GraphRequest is the body of the graph endpoints. Unset fields keep the
// server's configured values.
type GraphRequest struct {
	Text      string   `json:"text"`
	Layout    string   `json:"layout,omitempty"`
	Policy    string   `json:"policy,omitempty"`
	Seed      *uint64  `json:"seed,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Width     int      `json:"width,omitempty"`  // device width
	Height    int      `json:"height,omitempty"` // device height
	OffsetX   float64  `json:"offset_x,omitempty"`
	OffsetY   float64  `json:"offset_y,omitempty"`
}

// GraphResponse is returned by POST /v1/graphs.
type GraphResponse struct {
	Scene    *scene.Scene     `json:"scene"`
	Graph    concept.Snapshot `json:"graph"`
	Tokens   int              `json:"tokens"`
	Link     linker.Stats     `json:"link"`
	CacheHit bool             `json:"cache_hit"`
	Overflow int              `json:"overflow,omitempty"`
}

// SimilarityResponse is returned by GET /v1/similarity.
type SimilarityResponse struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Score   float64 `json:"score"`
	Known   bool    `json:"known"`
	Related bool    `json:"related"`
}

func (s *Server) options(req GraphRequest) (pipeline.Options, error) {
	opts := s.cfg.Options
	if req.Layout != "" {
		st, err := layout.ParseStrategy(req.Layout)
		if err != nil {
			return opts, err
		}
		opts.Layout.Strategy = st
	}
	if req.Policy != "" {
		opts.Policy = concept.Policy(req.Policy)
	}
	if req.Seed != nil {
		opts.Layout.Seed = *req.Seed
	}
	if req.Threshold != nil {
		opts.Link.Threshold = *req.Threshold
	}
	return opts, opts.Validate()
}

func (s *Server) viewport(req GraphRequest) (*viewport.Viewport, error) {
	canvas := viewport.Size{Width: s.cfg.Options.Layout.Width, Height: s.cfg.Options.Layout.Height}
	device := s.cfg.Display
	if req.Width != 0 || req.Height != 0 {
		device = viewport.Size{Width: req.Width, Height: req.Height}
		if !device.Valid() {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "device size %s must be positive", device)
		}
	}
	vp := viewport.New(canvas, device)
	vp.Pan(req.OffsetX, req.OffsetY)
	return vp, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (GraphRequest, error) {
	var req GraphRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBody+4096)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return req, err
		}
		return req, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "decode request")
	}
	return req, nil
}

// build runs the pipeline for a request and maps the result to a scene.
func (s *Server) build(w http.ResponseWriter, r *http.Request) (*pipeline.Result, *scene.Scene, pipeline.Options, error) {
	req, err := s.decode(w, r)
	if err != nil {
		return nil, nil, pipeline.Options{}, err
	}
	opts, err := s.options(req)
	if err != nil {
		return nil, nil, opts, err
	}
	vp, err := s.viewport(req)
	if err != nil {
		return nil, nil, opts, err
	}
	res, err := s.cfg.Runner.Build(r.Context(), req.Text, opts)
	if err != nil {
		return nil, nil, opts, err
	}
	vp.ClampGraph(res.Graph, float64(opts.Layout.Margin+opts.Layout.MaxRadius))
	return res, pipeline.Scene(res, vp, s.cfg.Style), opts, nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) createGraph(w http.ResponseWriter, r *http.Request) {
	res, sc, opts, err := s.build(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := GraphResponse{
		Scene:    sc,
		Graph:    res.Graph.Snapshot(),
		Tokens:   res.Stats.TokenCount,
		Link:     res.LinkStats,
		CacheHit: res.CacheHit,
	}
	if opts.Layout.Strategy == layout.StrategyGrid {
		g := &layout.Grid{
			Width:     opts.Layout.Width,
			Height:    opts.Layout.Height,
			Margin:    opts.Layout.Margin,
			Padding:   opts.Layout.Padding,
			MaxRadius: opts.Layout.MaxRadius,
		}
		resp.Overflow = g.Overflow(res.Graph.NodeCount())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(render.FormatSVG)
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, sc, _, err := s.build(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := render.Encode(r.Context(), sc, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Scene-ID", sc.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) similarity(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		s.writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidInput, "query parameters a and b are required"))
		return
	}
	for _, t := range []string{a, b} {
		if err := cerrors.ValidateTerm(t); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	score, err := s.cfg.Oracle.Similarity(r.Context(), a, b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SimilarityResponse{
		A:       a,
		B:       b,
		Score:   score.Value,
		Known:   score.Known,
		Related: score.Known && linker.Related(score.Value, s.cfg.Options.Link.Threshold),
	})
}
