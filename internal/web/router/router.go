// Package router wires the IIIF Presentation API routes onto a chi mux.
package router

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/recto-project/recto/internal/iiif"
	"github.com/recto-project/recto/internal/presentation"
	"github.com/recto-project/recto/internal/repo"
	"github.com/recto-project/recto/internal/web/middleware"
	"github.com/recto-project/recto/internal/web/problem"
)

// Config holds router configuration
type Config struct {
	// Presentation builds manifests from identifiers
	Presentation *presentation.Context

	// Logger receives request and error logs
	Logger *zap.Logger

	// Version is shown on the landing page
	Version string

	// RequestTimeout bounds each request's context. Zero disables the
	// deadline.
	RequestTimeout time.Duration
}

// Router serves the IIIF Presentation API over HTTP
type Router struct {
	mux     chi.Router
	pres    *presentation.Context
	logger  *zap.Logger
	version string
}

// New creates a router with the standard middleware stack and all
// presentation routes mounted.
func New(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rt := &Router{
		mux:     chi.NewRouter(),
		pres:    cfg.Presentation,
		logger:  logger,
		version: cfg.Version,
	}

	chain := middleware.NewChain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(),
	)
	if cfg.RequestTimeout > 0 {
		chain.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	rt.mux.Use(chain.Apply)

	rt.mux.Get("/", rt.handleHome)
	rt.mux.Post("/", rt.handleLookup)
	rt.mux.Route("/manifests/{id}", func(r chi.Router) {
		r.Get("/", rt.handleManifestRedirect)
		r.Get("/manifest.json", rt.handleManifestRedirect)
		r.Get("/manifest", rt.handleManifest)
		r.Get("/sequence/{name}", rt.handleSequence)
		r.Get("/canvas/{name}", rt.handleCanvas)
		r.Get("/annotation/{name}", rt.handleAnnotation)
		r.Get("/list/{name}", rt.handleList)
	})

	return rt
}

// ServeHTTP implements http.Handler
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>recto</title>
</head>
<body>
  <h1>recto</h1>
  <form method="post" action="/">
    <label for="uri">Object URL</label>
    <input type="text" id="uri" name="uri" required>
    <label for="q">Search within (optional)</label>
    <input type="text" id="q" name="q">
    <button type="submit">View manifest</button>
  </form>
  <footer>recto {{.Version}}</footer>
</body>
</html>
`))

func (rt *Router) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = homeTemplate.Execute(w, struct{ Version string }{Version: rt.version})
}

// handleLookup translates a submitted repository URL to its IIIF
// identifier and redirects to the manifest, carrying the text query
// along when present.
func (rt *Router) handleLookup(w http.ResponseWriter, r *http.Request) {
	id, err := rt.pres.Translator.IIIFID(r.FormValue("uri"))
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	location := "/manifests/" + url.PathEscape(id) + "/manifest"
	if q := r.FormValue("q"); q != "" {
		location += "?q=" + url.QueryEscape(q)
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// handleManifestRedirect sends permanent redirects from the manifest
// base URI and the conventional manifest.json path to the manifest
// document, preserving the query string.
func (rt *Router) handleManifestRedirect(w http.ResponseWriter, r *http.Request) {
	location := "/manifests/" + url.PathEscape(chi.URLParam(r, "id")) + "/manifest"
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, location, http.StatusMovedPermanently)
}

func (rt *Router) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := rt.manifest(r)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	body, err := m.MarshalMap(r.Context(), true)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}
	rt.writeJSON(w, body)
}

func (rt *Router) handleSequence(w http.ResponseWriter, r *http.Request) {
	m, err := rt.manifest(r)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	seq, err := m.FindSequence(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	body, err := seq.MarshalMap(r.Context(), true)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}
	rt.writeJSON(w, body)
}

func (rt *Router) handleCanvas(w http.ResponseWriter, r *http.Request) {
	m, err := rt.manifest(r)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	canvas, err := m.FindCanvas(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	body, err := canvas.MarshalMap(r.Context(), true)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}
	rt.writeJSON(w, body)
}

func (rt *Router) handleAnnotation(w http.ResponseWriter, r *http.Request) {
	m, err := rt.manifest(r)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	ann, err := m.FindAnnotation(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	body, err := ann.MarshalMap(r.Context(), true)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}
	rt.writeJSON(w, body)
}

func (rt *Router) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("q") == "" {
		problem.Write(w, problem.MissingQuery())
		return
	}

	m, err := rt.manifest(r)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	hits, err := m.FindHits(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}

	body, err := hits.MarshalMap(r.Context(), true)
	if err != nil {
		rt.writeErr(w, r, err)
		return
	}
	rt.writeJSON(w, body)
}

// manifest builds the lazy manifest for the request's identifier,
// threading through the text query when one is present.
func (rt *Router) manifest(r *http.Request) (*iiif.Manifest, error) {
	id := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	return rt.pres.Manifest(id, r.URL.Query().Get("q"))
}

func (rt *Router) writeJSON(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// writeErr maps domain errors onto the problem catalogue. Anything
// without a dedicated category is reported as a backend service error
// with the detail kept out of the response.
func (rt *Router) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidID   *repo.InvalidIdentifierError
		invalidURI  *repo.InvalidURIError
		notFound    *presentation.ManifestNotFoundError
		seqNotFound *iiif.SequenceNotFoundError
		canNotFound *iiif.CanvasNotFoundError
		annNotFound *iiif.AnnotationNotFoundError
	)

	switch {
	case errors.As(err, &invalidID):
		problem.Write(w, problem.InvalidIdentifier(invalidID.ID))
	case errors.As(err, &invalidURI):
		problem.Write(w, problem.InvalidURI(invalidURI.URI))
	case errors.As(err, &notFound):
		problem.Write(w, problem.ManifestNotFound(notFound.ID))
	case errors.As(err, &seqNotFound):
		problem.Write(w, problem.SequenceNotFound(seqNotFound.Name, seqNotFound.ManifestID))
	case errors.As(err, &canNotFound):
		problem.Write(w, problem.CanvasNotFound(canNotFound.Name, canNotFound.ManifestID))
	case errors.As(err, &annNotFound):
		problem.Write(w, problem.AnnotationNotFound(annNotFound.Name, annNotFound.ManifestID))
	default:
		rt.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		problem.Write(w, problem.BackendService())
	}
}
