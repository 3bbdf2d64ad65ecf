package http

import (
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/acsign"
)

// CORSConfig configures cross-origin access to the gateway.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// HandlerConfig configures the gateway built by NewHandler.
type HandlerConfig struct {
	// Verifier authenticates API calls. Nil accepts unsigned requests.
	Verifier RequestVerifier
	CORS     CORSConfig
	// MaxBodySize caps request bodies in bytes. Zero means no limit.
	MaxBodySize int64
}

// EchoResponse describes the request the gateway received.
type EchoResponse struct {
	RequestID   string              `json:"RequestId"`
	AccessKeyID string              `json:"AccessKeyId,omitempty"`
	Action      string              `json:"Action"`
	Version     string              `json:"Version"`
	Method      string              `json:"Method"`
	Path        string              `json:"Path"`
	Query       map[string][]string `json:"Query"`
	ContentType string              `json:"ContentType,omitempty"`
	BodyLength  int                 `json:"BodyLength"`
}

// Handler serves a mock ACS3 API that authenticates every call and echoes
// what it received.
type Handler struct {
	config HandlerConfig
}

// NewHandler creates a new Handler with the given configuration.
func NewHandler(config *HandlerConfig) *Handler {
	return &Handler{
		config: *config,
	}
}

// Router returns an http.Handler with the gateway routes.
// GET /healthz is never authenticated; any other path accepts
// GET, POST, PUT and DELETE.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, RequestIDFromContext(r.Context()), CodeNotFound, "Specified api is not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, RequestIDFromContext(r.Context()), CodeMethodNotAllowed, "Specified method is not allowed.")
	})

	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(MaxBodyMiddleware(h.config.MaxBodySize))
		r.Use(AuthMiddleware(h.config.Verifier))
		for _, pattern := range []string{"/", "/*"} {
			r.Get(pattern, h.handleEcho)
			r.Post(pattern, h.handleEcho)
			r.Put(pattern, h.handleEcho)
			r.Delete(pattern, h.handleEcho)
		}
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleEcho(w http.ResponseWriter, r *http.Request) {
	n, err := io.Copy(io.Discard, r.Body)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		query = url.Values{}
	}

	_ = WriteJSON(w, http.StatusOK, EchoResponse{
		RequestID:   RequestIDFromContext(r.Context()),
		AccessKeyID: AccessKeyIDFromContext(r.Context()),
		Action:      r.Header.Get(acsign.HeaderAction),
		Version:     r.Header.Get(acsign.HeaderVersion),
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       query,
		ContentType: r.Header.Get("Content-Type"),
		BodyLength:  int(n),
	})
}
