// Package problem writes RFC 9457 problem detail responses.
package problem

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentType is the media type for problem detail responses.
const ContentType = "application/problem+json"

// Problem is one user-facing error category. Details carries the
// category's description template filled with the specific failure's
// parameters.
type Problem struct {
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Write sends p as an application/problem+json response.
func Write(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// InvalidIdentifier is the client error for a malformed IIIF identifier.
func InvalidIdentifier(id string) Problem {
	return Problem{
		Status:  http.StatusBadRequest,
		Title:   "Invalid identifier",
		Details: fmt.Sprintf("The identifier %q is not recognized as a valid IIIF identifier", id),
	}
}

// InvalidURI is the client error for a submitted URL outside the
// repository namespace.
func InvalidURI(uri string) Problem {
	return Problem{
		Status:  http.StatusBadRequest,
		Title:   "Invalid identifier",
		Details: fmt.Sprintf("The URL %q does not identify a resource in this repository", uri),
	}
}

// MissingQuery is the client error for a hit list request without a "q"
// parameter.
func MissingQuery() Problem {
	return Problem{
		Status:  http.StatusBadRequest,
		Title:   "Missing query",
		Details: `A search hit list request requires a "q" query parameter`,
	}
}

// ManifestNotFound is the not-found error for a manifest identifier with
// no backend document.
func ManifestNotFound(id string) Problem {
	return Problem{
		Status:  http.StatusNotFound,
		Title:   "Manifest not found",
		Details: fmt.Sprintf("Manifest with identifier %q not found", id),
	}
}

// SequenceNotFound is the not-found error for an unknown sequence name.
func SequenceNotFound(name, manifestID string) Problem {
	return Problem{
		Status:  http.StatusNotFound,
		Title:   "Sequence not found",
		Details: fmt.Sprintf("Sequence with name %q not found in manifest %q", name, manifestID),
	}
}

// CanvasNotFound is the not-found error for an unknown canvas name.
func CanvasNotFound(name, manifestID string) Problem {
	return Problem{
		Status:  http.StatusNotFound,
		Title:   "Canvas not found",
		Details: fmt.Sprintf("Canvas with name %q not found in manifest %q", name, manifestID),
	}
}

// AnnotationNotFound is the not-found error for an unknown annotation
// name.
func AnnotationNotFound(name, manifestID string) Problem {
	return Problem{
		Status:  http.StatusNotFound,
		Title:   "Annotation not found",
		Details: fmt.Sprintf("Annotation with name %q not found in manifest %q", name, manifestID),
	}
}

// BackendService is the server error for any backend failure. The detail
// is intentionally generic so no backend internals leak to clients.
func BackendService() Problem {
	return Problem{
		Status:  http.StatusInternalServerError,
		Title:   "Backend service error",
		Details: "Backend service error",
	}
}

// Configuration is the server error for an incorrectly configured
// deployment.
func Configuration() Problem {
	return Problem{
		Status:  http.StatusInternalServerError,
		Title:   "Configuration error",
		Details: "The server is incorrectly configured",
	}
}
