// Package httpapi exposes synthesis, rendering and classification over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/reoring/toolform/fallback"
	"github.com/reoring/toolform/form"
	"github.com/reoring/toolform/internal/logging"
	"github.com/reoring/toolform/jsonschema"
	"github.com/reoring/toolform/result"
	"github.com/reoring/toolform/synth"
)

// Options configures a Server.
type Options struct {
	Fallback fallback.Editor
	Logger   logrus.FieldLogger
}

// Server exposes parameter synthesis, form rendering and result
// classification over HTTP.
type Server struct {
	renderer *form.Renderer
	synth    *synth.Synthesizer
	log      logrus.FieldLogger
}

// New returns a Server; mount it with Handler.
func New(opts Options) *Server {
	r := form.New(opts.Fallback)
	return &Server{renderer: r, synth: r.Synth, log: logging.OrDiscard(opts.Logger)}
}

type schemaRequest struct {
	Schema *jsonschema.Schema `json:"schema"`
}

type renderRequest struct {
	Schema *jsonschema.Schema `json:"schema"`
	// Value is the current value; synthesized when absent.
	Value any `json:"value"`
}

type synthesizeResponse struct {
	Value any `json:"value"`
}

type renderResponse struct {
	Value  any         `json:"value"`
	Fields []form.View `json:"fields"`
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.With(decodeJSON[schemaRequest]).Post("/synthesize", s.handleSynthesize)
	r.With(decodeJSON[any]).Post("/classify", s.handleClassify)
	r.With(decodeJSON[renderRequest]).Post("/render", s.handleRender)
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, _ := decodedFromContext[schemaRequest](r.Context())
	n := jsonschema.FromSchema(req.Schema)
	writeJSON(w, http.StatusOK, synthesizeResponse{Value: s.synth.Synthesize(n)})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	payload, _ := decodedFromContext[any](r.Context())
	writeJSON(w, http.StatusOK, result.Classify(payload))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, _ := decodedFromContext[renderRequest](r.Context())
	n := jsonschema.FromSchema(req.Schema)
	value := req.Value
	if value == nil {
		value = s.synth.Synthesize(n)
	}
	resp := renderResponse{Value: value}
	if params, ok := value.(map[string]any); ok && n.HasProperties() {
		resp.Fields = form.DescribeParams(s.renderer.RenderParams(n, params, nil))
	} else {
		resp.Fields = []form.View{form.Describe(s.renderer.Render(n, nil, value, nil))}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("http_request")
	})
}
