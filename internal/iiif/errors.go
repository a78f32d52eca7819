package iiif

import "fmt"

// SequenceNotFoundError indicates a sequence name that does not exist in
// the manifest.
type SequenceNotFoundError struct {
	ManifestID string
	Name       string
}

func (e *SequenceNotFoundError) Error() string {
	return fmt.Sprintf("sequence %q not found in manifest %q", e.Name, e.ManifestID)
}

// CanvasNotFoundError indicates a canvas name that does not exist in the
// manifest.
type CanvasNotFoundError struct {
	ManifestID string
	Name       string
}

func (e *CanvasNotFoundError) Error() string {
	return fmt.Sprintf("canvas %q not found in manifest %q", e.Name, e.ManifestID)
}

// AnnotationNotFoundError indicates an annotation name that does not exist
// in the manifest.
type AnnotationNotFoundError struct {
	ManifestID string
	Name       string
}

func (e *AnnotationNotFoundError) Error() string {
	return fmt.Sprintf("annotation %q not found in manifest %q", e.Name, e.ManifestID)
}
