package iiif

import (
	"context"
	"fmt"
)

// Sequence is the ordered list of canvases of a manifest. Exactly one
// sequence, named "normal", exists per manifest.
type Sequence struct {
	manifest *Manifest
	name     string
	canvases cell[[]*Canvas]
}

func newSequence(m *Manifest, name string) *Sequence {
	return &Sequence{manifest: m, name: name}
}

// Name returns the sequence name.
func (s *Sequence) Name() string {
	return s.name
}

// URI returns the sequence URL.
func (s *Sequence) URI() string {
	return s.manifest.cfg.BaseURI + "/sequence/" + s.name
}

// Canvases returns one canvas per page URI, in resource page order.
// Canvas names are a zero-padded counter starting at 1.
func (s *Sequence) Canvases(ctx context.Context) ([]*Canvas, error) {
	return s.canvases.get(func() ([]*Canvas, error) {
		resource, err := s.manifest.Resource(ctx)
		if err != nil {
			return nil, err
		}
		pageURIs, err := resource.PageURIs()
		if err != nil {
			return nil, err
		}
		canvases := make([]*Canvas, 0, len(pageURIs))
		for i, pageURI := range pageURIs {
			canvases = append(canvases, newCanvas(s, fmt.Sprintf("%04d", i+1), pageURI, i+1))
		}
		return canvases, nil
	})
}

// Canvas returns the canvas with the given name.
func (s *Sequence) Canvas(ctx context.Context, name string) (*Canvas, error) {
	canvases, err := s.Canvases(ctx)
	if err != nil {
		return nil, err
	}
	for _, canvas := range canvases {
		if canvas.Name() == name {
			return canvas, nil
		}
	}
	return nil, &CanvasNotFoundError{ManifestID: s.manifest.cfg.ID, Name: name}
}

// MarshalMap serializes the sequence. startCanvas is included only when
// the canvas list is non-empty.
func (s *Sequence) MarshalMap(ctx context.Context, withContext bool) (map[string]any, error) {
	canvases, err := s.Canvases(ctx)
	if err != nil {
		return nil, err
	}
	canvasMaps := make([]any, 0, len(canvases))
	for _, canvas := range canvases {
		cm, err := canvas.MarshalMap(ctx, false)
		if err != nil {
			return nil, err
		}
		canvasMaps = append(canvasMaps, cm)
	}

	out := map[string]any{
		"@id":      s.URI(),
		"@type":    "sc:Sequence",
		"canvases": canvasMaps,
	}
	if len(canvases) > 0 {
		out["startCanvas"] = canvases[0].URI()
	}
	if withContext {
		out["@context"] = PresentationContext
	}
	return out, nil
}
