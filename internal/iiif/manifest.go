package iiif

import (
	"context"

	"github.com/recto-project/recto/internal/source"
)

// ManifestConfig carries the identity and collaborators of one manifest.
type ManifestConfig struct {
	// ID is the external IIIF identifier of the object. It appears in
	// diagnostics and not-found errors.
	ID string

	// BaseURI is the absolute public URL of the object, without the
	// trailing /manifest segment.
	BaseURI string

	// ResourceURI is the backend address of the object, used to scope
	// text searches.
	ResourceURI string

	// Fetch retrieves the backend resource. It is called at most once per
	// manifest instance, on first access.
	Fetch func(ctx context.Context) (*source.Resource, error)

	// Images resolves image identifiers to dimensions and capabilities.
	Images InfoService

	// Search runs text searches; may be nil when search is not configured.
	Search source.Searcher

	// TextQuery is the active text query, empty when none.
	TextQuery string

	// LogoURL is included in the manifest only when non-empty.
	LogoURL string

	// ThumbnailWidth is the fixed thumbnail width in pixels; zero means
	// DefaultThumbnailWidth.
	ThumbnailWidth int
}

// Manifest is the root of the presentation object graph for one digital
// object. The backend resource and every derived child are computed
// lazily, exactly once per instance.
type Manifest struct {
	cfg       ManifestConfig
	resource  cell[*source.Resource]
	sequences cell[[]*Sequence]
}

// NewManifest builds a manifest node. No backend calls happen until a
// derived field is first accessed.
func NewManifest(cfg ManifestConfig) *Manifest {
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = DefaultThumbnailWidth
	}
	return &Manifest{cfg: cfg}
}

// ID returns the external identifier of the object.
func (m *Manifest) ID() string {
	return m.cfg.ID
}

// URI returns the canonical manifest URL.
func (m *Manifest) URI() string {
	return m.cfg.BaseURI + "/manifest"
}

// Resource returns the backend resource, fetching it on first access.
func (m *Manifest) Resource(ctx context.Context) (*source.Resource, error) {
	return m.resource.get(func() (*source.Resource, error) {
		return m.cfg.Fetch(ctx)
	})
}

// Sequences returns the single "normal" sequence. Multi-sequence
// manifests are not modeled.
func (m *Manifest) Sequences(ctx context.Context) ([]*Sequence, error) {
	return m.sequences.get(func() ([]*Sequence, error) {
		return []*Sequence{newSequence(m, "normal")}, nil
	})
}

// FindSequence returns the sequence with the given name.
func (m *Manifest) FindSequence(ctx context.Context, name string) (*Sequence, error) {
	sequences, err := m.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	for _, sequence := range sequences {
		if sequence.Name() == name {
			return sequence, nil
		}
	}
	return nil, &SequenceNotFoundError{ManifestID: m.cfg.ID, Name: name}
}

// FindCanvas returns the canvas with the given name, searching every
// sequence.
func (m *Manifest) FindCanvas(ctx context.Context, name string) (*Canvas, error) {
	sequences, err := m.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	for _, sequence := range sequences {
		canvases, err := sequence.Canvases(ctx)
		if err != nil {
			return nil, err
		}
		for _, canvas := range canvases {
			if canvas.Name() == name {
				return canvas, nil
			}
		}
	}
	return nil, &CanvasNotFoundError{ManifestID: m.cfg.ID, Name: name}
}

// FindAnnotation returns the image annotation with the given name.
func (m *Manifest) FindAnnotation(ctx context.Context, name string) (*Annotation, error) {
	sequences, err := m.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	for _, sequence := range sequences {
		canvases, err := sequence.Canvases(ctx)
		if err != nil {
			return nil, err
		}
		for _, canvas := range canvases {
			annotation, err := canvas.ImageAnnotation(ctx)
			if err != nil {
				return nil, err
			}
			if annotation.Name() == name {
				return annotation, nil
			}
		}
	}
	return nil, &AnnotationNotFoundError{ManifestID: m.cfg.ID, Name: name}
}

// FindHits returns the search hit list for the canvas with the given name.
func (m *Manifest) FindHits(ctx context.Context, name string) (*SearchHits, error) {
	canvas, err := m.FindCanvas(ctx, name)
	if err != nil {
		return nil, err
	}
	return canvas.Hits(), nil
}

// MarshalMap serializes the manifest as a Presentation API 2.1 object.
// The JSON-LD @context is included only when withContext is true.
func (m *Manifest) MarshalMap(ctx context.Context, withContext bool) (map[string]any, error) {
	resource, err := m.Resource(ctx)
	if err != nil {
		return nil, err
	}

	labels, err := resource.LabelValues()
	if err != nil {
		return nil, err
	}
	label := ""
	if len(labels) > 0 {
		label = labels[0]
	}

	metadata, err := resource.Metadata()
	if err != nil {
		return nil, err
	}

	sequences, err := m.Sequences(ctx)
	if err != nil {
		return nil, err
	}
	sequenceMaps := make([]any, 0, len(sequences))
	for _, sequence := range sequences {
		sm, err := sequence.MarshalMap(ctx, false)
		if err != nil {
			return nil, err
		}
		sequenceMaps = append(sequenceMaps, sm)
	}

	out := map[string]any{
		"@id":       m.URI(),
		"@type":     "sc:Manifest",
		"label":     label,
		"metadata":  metadata,
		"sequences": sequenceMaps,
	}

	if date, err := resource.Date(); err != nil {
		return nil, err
	} else if date != "" {
		out["navDate"] = date
	}
	if license, err := resource.License(); err != nil {
		return nil, err
	} else if license != "" {
		out["license"] = license
	}
	if description, err := resource.Description(); err != nil {
		return nil, err
	} else if description != "" {
		out["description"] = description
	}

	// the thumbnail comes from the first canvas; a manifest with no pages
	// simply has no thumbnail
	canvases, err := sequences[0].Canvases(ctx)
	if err != nil {
		return nil, err
	}
	if len(canvases) > 0 {
		annotation, err := canvases[0].ImageAnnotation(ctx)
		if err != nil {
			return nil, err
		}
		thumbnail, err := annotation.ThumbnailMap(ctx)
		if err != nil {
			return nil, err
		}
		out["thumbnail"] = thumbnail
	}

	if m.cfg.LogoURL != "" {
		out["logo"] = map[string]any{"@id": m.cfg.LogoURL}
	}
	if withContext {
		out["@context"] = PresentationContext
	}
	return out, nil
}
