// Package server exposes upload, preview, selection and export over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"assetgen/internal/encode"
	"assetgen/internal/export"
	"assetgen/internal/logging"
	"assetgen/internal/resample"
	"assetgen/internal/session"
	"assetgen/internal/source"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Cache    *source.Cache
	Exporter *export.Exporter
	Logger   *zap.Logger
	// MaxUploadBytes bounds the request body of an upload. Zero means 32 MiB.
	MaxUploadBytes int64
	// Format is used for exports that do not name one.
	Format encode.Format
	// Tier is the initial tier of every new session. The zero value is
	// Standard.
	Tier resample.Tier
}

// Server holds uploaded sources and their selection sessions.
type Server struct {
	cache     *source.Cache
	exporter  *export.Exporter
	logger    *zap.Logger
	maxUpload int64
	format    encode.Format
	tier      resample.Tier
	validate  *validator.Validate

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		cache:     opts.Cache,
		exporter:  opts.Exporter,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		format:    opts.Format,
		tier:      opts.Tier,
		validate:  validator.New(),
		sessions:  make(map[string]*session.Session),
	}
	if s.cache == nil {
		s.cache = source.NewCache(source.DefaultCacheSize)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.exporter == nil {
		s.exporter = export.New(export.WithLogger(s.logger))
	}
	if !s.tier.Valid() {
		s.tier = resample.DefaultTier
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 32 << 20
	}
	s.cache.OnEvict(s.dropSession)
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.HTTPMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/bundles", s.handleBundles)
		r.Post("/assets", s.handleUpload)
		r.Route("/assets/{id}", func(r chi.Router) {
			r.Get("/", s.handleAsset)
			r.Get("/preview", s.handlePreview)
			r.Post("/commands", s.handleCommand)
			r.Get("/export/{bundle}", s.handleExport)
		})
	})
	return r
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

var errNotFound = errors.New("not found")

// lookup returns the source and session of id.
func (s *Server) lookup(id string) (*source.Image, *session.Session, error) {
	img, sess, ok := s.sessionFor(id)
	if !ok {
		return nil, nil, fmt.Errorf("asset %s: %w", id, errNotFound)
	}
	return img, sess, nil
}

// sessionFor returns the cached source of id and its session, creating the
// session on first use. The cache is consulted under s.mu: eviction hooks
// also take s.mu, so a session is never registered for an evicted id.
func (s *Server) sessionFor(id string) (*source.Image, *session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.cache.Get(id)
	if !ok {
		delete(s.sessions, id)
		return nil, nil, false
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = s.newSession(img)
		s.sessions[id] = sess
	}
	return img, sess, true
}

func (s *Server) newSession(img *source.Image) *session.Session {
	sess := session.New(img.AspectRatio())
	_, _, _ = sess.Dispatch(session.SetTier{Tier: s.tier})
	return sess
}

// tierOr parses q, falling back to def when q is empty.
func tierOr(q string, def resample.Tier) (resample.Tier, error) {
	if q == "" {
		return def, nil
	}
	return resample.ParseTier(q)
}
