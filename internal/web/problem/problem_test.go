package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, ManifestNotFound("fcrepo:missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(404), body["status"])
	assert.Equal(t, "Manifest not found", body["title"])
	assert.Contains(t, body["details"], "fcrepo:missing")
}

func TestProblems(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		status  int
		title   string
		details string
	}{
		{
			name:    "invalid identifier",
			problem: InvalidIdentifier("bad id"),
			status:  http.StatusBadRequest,
			title:   "Invalid identifier",
			details: `The identifier "bad id" is not recognized as a valid IIIF identifier`,
		},
		{
			name:    "invalid uri",
			problem: InvalidURI("http://elsewhere.example.com/x"),
			status:  http.StatusBadRequest,
			title:   "Invalid identifier",
			details: `The URL "http://elsewhere.example.com/x" does not identify a resource in this repository`,
		},
		{
			name:    "missing query",
			problem: MissingQuery(),
			status:  http.StatusBadRequest,
			title:   "Missing query",
			details: `A search hit list request requires a "q" query parameter`,
		},
		{
			name:    "sequence not found",
			problem: SequenceNotFound("reverse", "fcrepo:123"),
			status:  http.StatusNotFound,
			title:   "Sequence not found",
			details: `Sequence with name "reverse" not found in manifest "fcrepo:123"`,
		},
		{
			name:    "canvas not found",
			problem: CanvasNotFound("9999", "fcrepo:123"),
			status:  http.StatusNotFound,
			title:   "Canvas not found",
			details: `Canvas with name "9999" not found in manifest "fcrepo:123"`,
		},
		{
			name:    "annotation not found",
			problem: AnnotationNotFound("0001-image", "fcrepo:123"),
			status:  http.StatusNotFound,
			title:   "Annotation not found",
			details: `Annotation with name "0001-image" not found in manifest "fcrepo:123"`,
		},
		{
			name:    "backend service",
			problem: BackendService(),
			status:  http.StatusInternalServerError,
			title:   "Backend service error",
			details: "Backend service error",
		},
		{
			name:    "configuration",
			problem: Configuration(),
			status:  http.StatusInternalServerError,
			title:   "Configuration error",
			details: "The server is incorrectly configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, tt.title, tt.problem.Title)
			assert.Equal(t, tt.details, tt.problem.Details)
		})
	}
}
