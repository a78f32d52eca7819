package iiif

import (
	"context"
	"fmt"

	"github.com/recto-project/recto/internal/source"
)

// SearchHits is the annotation list of text-search highlights on one
// canvas. It references, but does not own, its canvas.
type SearchHits struct {
	canvas   *Canvas
	manifest *Manifest
	query    string
	hits     cell[[]source.TaggedText]
}

// URI returns the hit list URL, carrying the active query.
func (h *SearchHits) URI() string {
	return h.canvas.hitsURI()
}

// Hits runs the scoped search, once per node instance.
func (h *SearchHits) Hits(ctx context.Context) ([]source.TaggedText, error) {
	return h.hits.get(func() ([]source.TaggedText, error) {
		return h.manifest.cfg.Search.TextMatches(ctx, h.manifest.cfg.ResourceURI, h.query, h.canvas.Index())
	})
}

// MarshalMap serializes the hit list as an sc:AnnotationList of numbered
// highlighting annotations anchored to the canvas by bounding-box
// fragment selectors.
func (h *SearchHits) MarshalMap(ctx context.Context, withContext bool) (map[string]any, error) {
	hits, err := h.Hits(ctx)
	if err != nil {
		return nil, err
	}

	resources := make([]any, 0, len(hits))
	for i, hit := range hits {
		resources = append(resources, map[string]any{
			"@id":        fmt.Sprintf("%s/annotation/%s-hit-%d", h.manifest.cfg.BaseURI, h.canvas.Name(), i+1),
			"@type":      "oa:Annotation",
			"motivation": "oa:highlighting",
			"resource": map[string]any{
				"@type": "cnt:ContentAsText",
				"chars": hit.Text,
			},
			"on": h.canvas.URI() + "#xywh=" + hit.BoundingBox(),
		})
	}

	out := map[string]any{
		"@id":       h.URI(),
		"@type":     "sc:AnnotationList",
		"resources": resources,
	}
	if withContext {
		out["@context"] = PresentationContext
	}
	return out, nil
}
