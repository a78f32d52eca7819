// Package iiif builds the IIIF Presentation API 2.1 object graph (manifest,
// sequence, canvas, annotation, image, and search hit list) on top of a
// backend resource. Children are derived lazily and memoized once per node
// instance.
package iiif

import (
	"fmt"
	"regexp"
)

// PresentationContext is the JSON-LD context URI for Presentation API 2
// responses. Top-level objects carry it; embedded objects do not.
const PresentationContext = "http://iiif.io/api/presentation/2/context.json"

// DefaultThumbnailWidth is the pixel width used for manifest and canvas
// thumbnails when the deployment does not configure one.
const DefaultThumbnailWidth = 250

// Params holds one set of IIIF Image API request parameters. See
// https://iiif.io/api/image/2.0/#image-request-parameters for the meaning
// of each component.
type Params struct {
	// Region: `full` | `{x},{y},{w},{h}` | `pct:{x},{y},{w},{h}`
	Region string
	// Size: `full` | `{w},` | `,{h}` | `pct:{n}` | `{w},{h}` | `!{w},{h}`
	Size string
	// Rotation: `{n}` | `!{n}`
	Rotation string
	// Quality: `color` | `gray` | `bitonal` | `default`
	Quality string
	// Format: `jpg` | `tif` | `png` | `gif` | `jp2` | `pdf` | `webp`
	Format string
}

// FullParams returns the parameter set for a full-region, full-size image.
func FullParams() Params {
	return Params{Region: "full", Size: "full", Rotation: "0", Quality: "default", Format: "jpg"}
}

// String renders the parameters as an Image API URL suffix.
func (p Params) String() string {
	return fmt.Sprintf("/%s/%s/%s/%s.%s", p.Region, p.Size, p.Rotation, p.Quality, p.Format)
}

var (
	regionPattern   = regexp.MustCompile(`^(full|(pct:)?\d+(\.\d+)?,\d+(\.\d+)?,\d+(\.\d+)?,\d+(\.\d+)?)$`)
	sizePattern     = regexp.MustCompile(`^(full|\d+,|,\d+|pct:\d+(\.\d+)?|!?\d+,\d+)$`)
	rotationPattern = regexp.MustCompile(`^!?\d+(\.\d+)?$`)
	qualityPattern  = regexp.MustCompile(`^(color|gray|bitonal|default)$`)
	formatPattern   = regexp.MustCompile(`^(jpg|tif|png|gif|jp2|pdf|webp)$`)
)

// Validate checks each component against the Image API 2.0 grammar.
func (p Params) Validate() error {
	if !regionPattern.MatchString(p.Region) {
		return fmt.Errorf("invalid region %q", p.Region)
	}
	if !sizePattern.MatchString(p.Size) {
		return fmt.Errorf("invalid size %q", p.Size)
	}
	if !rotationPattern.MatchString(p.Rotation) {
		return fmt.Errorf("invalid rotation %q", p.Rotation)
	}
	if !qualityPattern.MatchString(p.Quality) {
		return fmt.Errorf("invalid quality %q", p.Quality)
	}
	if !formatPattern.MatchString(p.Format) {
		return fmt.Errorf("invalid format %q", p.Format)
	}
	return nil
}
