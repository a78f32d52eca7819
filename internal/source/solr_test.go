package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recto-project/recto/internal/query"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *SolrService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSolrService(SolrConfig{
		Endpoint:  server.URL,
		Spec:      testSpec(),
		TextField: "extracted_text",
		Engine:    query.NewEngine(),
	})
}

func selectResponse(docs ...map[string]any) map[string]any {
	return map[string]any{
		"response": map[string]any{
			"numFound": len(docs),
			"docs":     docs,
		},
	}
}

func TestDocument(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/select", r.URL.Path)
		assert.Equal(t, "{!term f=id v=$id}", r.URL.Query().Get("q"))
		assert.Equal(t, "http://example.com/fcrepo/123", r.URL.Query().Get("id"))
		_ = json.NewEncoder(w).Encode(selectResponse(testDoc()))
	})

	doc, err := service.Document(context.Background(), "http://example.com/fcrepo/123")
	require.NoError(t, err)
	assert.Equal(t, "Foobar", doc["title__txt"])
}

func TestDocumentNotFound(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(selectResponse())
	})

	_, err := service.Document(context.Background(), "http://example.com/fcrepo/missing")
	var notFound *DocumentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "http://example.com/fcrepo/missing", notFound.URI)
}

func TestDocumentMultipleMatches(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(selectResponse(testDoc(), testDoc()))
	})

	_, err := service.Document(context.Background(), "http://example.com/fcrepo/123")
	var lookup *LookupError
	assert.ErrorAs(t, err, &lookup)
}

func TestDocumentServerError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := service.Document(context.Background(), "http://example.com/fcrepo/123")
	var lookup *LookupError
	assert.ErrorAs(t, err, &lookup)
}

func TestDocumentConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // force a connection failure

	service := NewSolrService(SolrConfig{
		Endpoint: server.URL,
		Spec:     testSpec(),
		Engine:   query.NewEngine(),
	})

	_, err := service.Document(context.Background(), "http://example.com/fcrepo/123")
	var lookup *LookupError
	assert.ErrorAs(t, err, &lookup)
}

func TestGetResource(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(selectResponse(testDoc()))
	})

	resource, err := service.Resource(context.Background(), "http://example.com/fcrepo/123")
	require.NoError(t, err)

	label, err := resource.Label()
	require.NoError(t, err)
	assert.Equal(t, "Foobar", label)
}

// highlightHandler wraps two fragments in the request's own highlight tag,
// the way Solr echoes hl.tag.pre/hl.tag.post around matches.
func highlightHandler(t *testing.T, resourceURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := r.URL.Query().Get("hl.tag.pre")
		require.NotEmpty(t, tag)
		assert.Equal(t, tag, r.URL.Query().Get("hl.tag.post"))
		assert.Equal(t, "on", r.URL.Query().Get("hl"))
		assert.Equal(t, "extracted_text", r.URL.Query().Get("hl.fl"))

		snippet := fmt.Sprintf("before %sfoo|n=1&xywh=1,2,3,4%s middle %sbar|n=2&xywh=5,6,7,8%s after",
			tag, tag, tag, tag)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"numFound": 1,
				"docs":     []any{map[string]any{}},
			},
			"highlighting": map[string]any{
				resourceURI: map[string]any{
					"extracted_text": []string{snippet},
				},
			},
		})
	}
}

func TestTextMatches(t *testing.T) {
	const uri = "http://example.com/fcrepo/123"
	service := newTestService(t, highlightHandler(t, uri))

	hits, err := service.TextMatches(context.Background(), uri, "foo", -1)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "foo", hits[0].Text)
	assert.Equal(t, "bar", hits[1].Text)
	assert.Equal(t, "5,6,7,8", hits[1].BoundingBox())
}

func TestTextMatchesScopedToPage(t *testing.T) {
	const uri = "http://example.com/fcrepo/123"
	service := newTestService(t, highlightHandler(t, uri))

	hits, err := service.TextMatches(context.Background(), uri, "foo", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "foo", hits[0].Text)

	n, err := hits[0].PageIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTextMatchesNoHighlights(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(selectResponse(map[string]any{}))
	})

	hits, err := service.TextMatches(context.Background(), "http://example.com/fcrepo/123", "foo", -1)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
