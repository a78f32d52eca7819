// Package presentation composes the identifier translator, the backend
// index, and the image service into per-request manifest objects, and
// translates lower-level failures into user-facing problem categories.
package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/recto-project/recto/internal/iiif"
	"github.com/recto-project/recto/internal/repo"
	"github.com/recto-project/recto/internal/source"
)

// ManifestNotFoundError indicates that no backend document exists for a
// manifest identifier.
type ManifestNotFoundError struct {
	ID string
}

func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("manifest with identifier %q not found", e.ID)
}

// BackendError wraps any backend service failure. Its detail is
// intentionally generic; the cause is available for logging via Unwrap.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend service error: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Context is the composition root binding one deployment's translator,
// resource lookup, search service, and image service to its public base
// URL.
type Context struct {
	Translator     *repo.Translator
	Repo           source.Repository
	Search         source.Searcher
	Images         iiif.InfoService
	BaseURL        string
	LogoURL        string
	ThumbnailWidth int
	Logger         *zap.Logger
}

// ManifestBase returns the public URL of the object with the given
// identifier, without the trailing /manifest segment.
func (c *Context) ManifestBase(id string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/manifests/" + id
}

// Manifest returns a lazily evaluated manifest for the given identifier.
// The identifier is validated immediately; the backend document is not
// fetched until a derived field is first accessed. Fetch failures surface
// as ManifestNotFoundError or BackendError.
func (c *Context) Manifest(id, textQuery string) (*iiif.Manifest, error) {
	resourceURI, err := c.Translator.ResourceURI(id)
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) (*source.Resource, error) {
		resource, err := c.Repo.Resource(ctx, resourceURI)
		if err != nil {
			var notFound *source.DocumentNotFoundError
			if errors.As(err, &notFound) {
				return nil, &ManifestNotFoundError{ID: id}
			}
			c.logger().Error("resource lookup failed", zap.String("uri", resourceURI), zap.Error(err))
			return nil, &BackendError{Err: err}
		}
		return resource, nil
	}

	return iiif.NewManifest(iiif.ManifestConfig{
		ID:             id,
		BaseURI:        c.ManifestBase(id),
		ResourceURI:    resourceURI,
		Fetch:          fetch,
		Images:         c.Images,
		Search:         c.Search,
		TextQuery:      textQuery,
		LogoURL:        c.LogoURL,
		ThumbnailWidth: c.ThumbnailWidth,
	}), nil
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
