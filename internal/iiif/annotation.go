package iiif

import "context"

// Annotation binds an image resource to a canvas with a motivation tag.
type Annotation struct {
	canvas     *Canvas
	manifest   *Manifest
	name       string
	motivation string
	image      *Image
}

func newAnnotation(c *Canvas, name, motivation string, image *Image) *Annotation {
	return &Annotation{
		canvas:     c,
		manifest:   c.manifest,
		name:       name,
		motivation: motivation,
		image:      image,
	}
}

// Name returns the annotation name.
func (a *Annotation) Name() string {
	return a.name
}

// URI returns the annotation URL.
func (a *Annotation) URI() string {
	return a.manifest.cfg.BaseURI + "/annotation/" + a.name
}

// Width returns the pixel width of the annotated image.
func (a *Annotation) Width(ctx context.Context) (int, error) {
	info, err := a.image.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.Width, nil
}

// Height returns the pixel height of the annotated image.
func (a *Annotation) Height(ctx context.Context) (int, error) {
	info, err := a.image.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.Height, nil
}

// ThumbnailMap returns the size-constrained variant of the image
// descriptor.
func (a *Annotation) ThumbnailMap(ctx context.Context) (map[string]any, error) {
	return a.image.ThumbnailMap(ctx, a.manifest.cfg.ThumbnailWidth)
}

// MarshalMap serializes the annotation with its embedded image resource.
func (a *Annotation) MarshalMap(ctx context.Context, withContext bool) (map[string]any, error) {
	resource, err := a.image.MarshalMap(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]any{
		"@id":        a.URI(),
		"@type":      "oa:Annotation",
		"motivation": a.motivation,
		"resource":   resource,
		"on":         a.canvas.URI(),
	}
	if withContext {
		out["@context"] = PresentationContext
	}
	return out, nil
}
