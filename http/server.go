package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/seocrawl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is closed.
const ShutdownTimeout = 10 * time.Second

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

// Server serves the crawl, review and save endpoints as JSON over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, e.g. ":8080".
	Addr string

	CrawlService  seocrawl.CrawlService
	ReviewService seocrawl.ReviewService
	CommitService seocrawl.CommitService

	// AllowedOrigins enables CORS for the listed origins. Empty disables CORS.
	AllowedOrigins []string

	// RateLimit is the number of requests allowed per client IP per minute.
	// Zero disables rate limiting.
	RateLimit int

	Logger *slog.Logger
}

// NewServer returns a new Server.
func NewServer() *Server {
	return &Server{
		server: &http.Server{ReadHeaderTimeout: 10 * time.Second},
	}
}

// Open binds the listener and starts serving in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.server.Handler = s.Handler()

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("server stopped", "err", err)
		}
	}()
	return nil
}

// URL returns the address the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if len(s.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.RequestSize(maxRequestBody))
	if s.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.RateLimit, time.Minute))
	}

	r.Get("/health", s.handleHealth)
	r.Post("/crawl", s.handleCrawl)
	r.Get("/review", s.handleReview)
	r.Post("/review", s.handleSavePreferences)
	r.Post("/save", s.handleSave)
	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type crawlResponse struct {
	Success bool `json:"success"`
	*seocrawl.CrawlResult
}

type preferencesRequest struct {
	UserID string `json:"userId"`
	seocrawl.Preferences
}

type preferencesResponse struct {
	Success     bool                 `json:"success"`
	Preferences seocrawl.Preferences `json:"preferences"`
}

type saveResponse struct {
	Success bool `json:"success"`
	*seocrawl.CommitResult
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req seocrawl.CrawlRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.CrawlService.Crawl(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, crawlResponse{Success: true, CrawlResult: result})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.ReviewService.Review(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	prefs, err := s.ReviewService.SavePreferences(r.Context(), req.UserID, req.Preferences)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesResponse{Success: true, Preferences: prefs})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.CommitService.Commit(r.Context(), req.UserID, req.Preferences)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Success: true, CommitResult: result})
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger().Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// writeError maps an application error code to a status and writes the
// error body. Internal errors carry the underlying error as details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := seocrawl.ErrorCode(err)
	status := errorStatus(code)
	resp := errorResponse{Error: seocrawl.ErrorMessage(err)}
	if status == http.StatusInternalServerError {
		resp.Details = err.Error()
		s.logger().Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"err", err,
		)
	}
	writeJSON(w, status, resp)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func errorStatus(code string) int {
	switch code {
	case seocrawl.EINVALID, seocrawl.ENOCHANGES:
		return http.StatusBadRequest
	case seocrawl.ENOTFOUND:
		return http.StatusNotFound
	case seocrawl.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return seocrawl.Errorf(seocrawl.EINVALID, "request body required")
		}
		return seocrawl.Errorf(seocrawl.EINVALID, "invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
