package iiif

import (
	"context"
	"net/url"
)

// Canvas is one page's presentation surface. Its name is its zero-padded
// position in page order; its index doubles as the page-order key and the
// scope argument for text searches.
type Canvas struct {
	sequence   *Sequence
	manifest   *Manifest
	name       string
	pageURI    string
	index      int
	annotation cell[*Annotation]
}

func newCanvas(s *Sequence, name, pageURI string, index int) *Canvas {
	return &Canvas{
		sequence: s,
		manifest: s.manifest,
		name:     name,
		pageURI:  pageURI,
		index:    index,
	}
}

// Name returns the canvas name.
func (c *Canvas) Name() string {
	return c.name
}

// PageURI returns the backend URI of the page this canvas presents.
func (c *Canvas) PageURI() string {
	return c.pageURI
}

// Index returns the 1-based position of the canvas in page order.
func (c *Canvas) Index() int {
	return c.index
}

// URI returns the canvas URL.
func (c *Canvas) URI() string {
	return c.manifest.cfg.BaseURI + "/canvas/" + c.name
}

// ImageAnnotation returns the single painting annotation of the canvas,
// derived once from the page's image identifier.
func (c *Canvas) ImageAnnotation(ctx context.Context) (*Annotation, error) {
	return c.annotation.get(func() (*Annotation, error) {
		resource, err := c.manifest.Resource(ctx)
		if err != nil {
			return nil, err
		}
		imageID, err := resource.PageImageID(c.pageURI)
		if err != nil {
			return nil, err
		}
		image := newImage(c.manifest.cfg.Images, imageID, FullParams())
		return newAnnotation(c, c.name+"-image", "sc:painting", image), nil
	})
}

// Hits returns the search hit list node for this canvas, bound to the
// manifest's active text query.
func (c *Canvas) Hits() *SearchHits {
	return &SearchHits{canvas: c, manifest: c.manifest, query: c.manifest.cfg.TextQuery}
}

func (c *Canvas) hitsURI() string {
	return c.manifest.cfg.BaseURI + "/list/" + c.name + "?q=" + url.QueryEscape(c.manifest.cfg.TextQuery)
}

// MarshalMap serializes the canvas with its painting annotation,
// thumbnail, and dimensions. When a text query is active, otherContent
// references the canvas's search hit list.
func (c *Canvas) MarshalMap(ctx context.Context, withContext bool) (map[string]any, error) {
	resource, err := c.manifest.Resource(ctx)
	if err != nil {
		return nil, err
	}
	label, err := resource.PageLabel(c.pageURI)
	if err != nil {
		return nil, err
	}

	annotation, err := c.ImageAnnotation(ctx)
	if err != nil {
		return nil, err
	}
	annotationMap, err := annotation.MarshalMap(ctx, false)
	if err != nil {
		return nil, err
	}
	thumbnail, err := annotation.ThumbnailMap(ctx)
	if err != nil {
		return nil, err
	}
	width, err := annotation.Width(ctx)
	if err != nil {
		return nil, err
	}
	height, err := annotation.Height(ctx)
	if err != nil {
		return nil, err
	}

	otherContent := []any{}
	if c.manifest.cfg.TextQuery != "" {
		otherContent = append(otherContent, map[string]any{
			"@id":   c.hitsURI(),
			"@type": "sc:AnnotationList",
		})
	}

	out := map[string]any{
		"@id":          c.URI(),
		"@type":        "sc:Canvas",
		"label":        label,
		"images":       []any{annotationMap},
		"thumbnail":    thumbnail,
		"height":       height,
		"width":        width,
		"otherContent": otherContent,
	}
	if withContext {
		out["@context"] = PresentationContext
	}
	return out, nil
}
