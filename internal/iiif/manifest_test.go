package iiif

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recto-project/recto/internal/query"
	"github.com/recto-project/recto/internal/source"
)

const (
	testManifestID  = "fcrepo:123"
	testBaseURI     = "http://iiif.example.com/manifests/fcrepo:123"
	testResourceURI = "http://example.com/fcrepo/123"
)

func testDoc(pageCount int) map[string]any {
	pageURIs := []any{}
	imageIDs := []any{}
	pages := []any{}
	for i := 1; i <= pageCount; i++ {
		pageURIs = append(pageURIs, fmt.Sprintf("%s/p/%d", testResourceURI, i))
		imageIDs = append(imageIDs, fmt.Sprintf("fcrepo:123:p%d", i))
		pages = append(pages, map[string]any{
			"id":    fmt.Sprintf("%s/p/%d", testResourceURI, i),
			"title": fmt.Sprintf("Page %d", i),
		})
	}
	return map[string]any{
		"id":          testResourceURI,
		"title__txt":  "Foobar",
		"date__str":   "2025-11-25",
		"license":     "https://rightsstatements.org/vocab/NoC-NC/1.0/",
		"pages__uris": pageURIs,
		"images__ids": imageIDs,
		"pages":       pages,
	}
}

func testSpec() *source.QuerySpec {
	return source.NewQuerySpec(
		[2]string{"$uri", ".id"},
		[2]string{"$label", ".title__txt"},
		[2]string{"$date", ".date__str"},
		[2]string{"$license_uri", ".license"},
		[2]string{"$description", ".description[]?"},
		[2]string{"$page_uris", ".pages__uris[]"},
		[2]string{"$page_image_ids", ".images__ids[]"},
		[2]string{"$*page_doc", ".pages[]|select(.id == $uri)"},
		[2]string{"$*page_label", ".pages[]|select(.id == $uri).title"},
		[2]string{"$*file_page_uri", ".pages[]|select(.files[]?.id == $uri).id"},
		[2]string{"Title", ".title__txt"},
	)
}

type fakeInfoService struct {
	calls map[string]int
}

func newFakeInfoService() *fakeInfoService {
	return &fakeInfoService{calls: map[string]int{}}
}

func (f *fakeInfoService) Info(_ context.Context, imageID string) (ImageInfo, error) {
	f.calls[imageID]++
	return ImageInfo{
		URI:     "http://example.com/iiif/" + imageID,
		Context: "http://iiif.io/api/image/2/context.json",
		Profile: "http://iiif.io/api/image/2/level2.json",
		Width:   1024,
		Height:  768,
	}, nil
}

type fakeSearcher struct {
	hits      []source.TaggedText
	lastURI   string
	lastQuery string
}

func (f *fakeSearcher) TextMatches(_ context.Context, resourceURI, textQuery string, pageIndex int) ([]source.TaggedText, error) {
	f.lastURI = resourceURI
	f.lastQuery = textQuery
	if pageIndex < 0 {
		return f.hits, nil
	}
	scoped := []source.TaggedText{}
	for _, hit := range f.hits {
		if n, err := hit.PageIndex(); err == nil && n == pageIndex {
			scoped = append(scoped, hit)
		}
	}
	return scoped, nil
}

func testResource(t *testing.T, pageCount int) *source.Resource {
	t.Helper()
	r, err := source.NewResource(testDoc(pageCount), testSpec(), query.NewEngine())
	require.NoError(t, err)
	return r
}

func newTestManifest(t *testing.T, pageCount int, mutate func(*ManifestConfig)) (*Manifest, *fakeInfoService) {
	t.Helper()
	resource := testResource(t, pageCount)
	images := newFakeInfoService()
	cfg := ManifestConfig{
		ID:          testManifestID,
		BaseURI:     testBaseURI,
		ResourceURI: testResourceURI,
		Fetch: func(ctx context.Context) (*source.Resource, error) {
			return resource, nil
		},
		Images: images,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewManifest(cfg), images
}

func TestManifestURI(t *testing.T) {
	m, _ := newTestManifest(t, 3, nil)
	assert.Equal(t, testBaseURI+"/manifest", m.URI())
}

func TestManifestMarshalMap(t *testing.T) {
	m, _ := newTestManifest(t, 3, nil)
	out, err := m.MarshalMap(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, PresentationContext, out["@context"])
	assert.Equal(t, testBaseURI+"/manifest", out["@id"])
	assert.Equal(t, "sc:Manifest", out["@type"])
	assert.Equal(t, "Foobar", out["label"])
	assert.Equal(t, "2025-11-25", out["navDate"])
	assert.Equal(t, "https://rightsstatements.org/vocab/NoC-NC/1.0/", out["license"])
	assert.NotContains(t, out, "logo")

	metadata, ok := out["metadata"].([]source.Field)
	require.True(t, ok)
	require.Len(t, metadata, 1)
	assert.Equal(t, "Title", metadata[0].Label)

	sequences, ok := out["sequences"].([]any)
	require.True(t, ok)
	require.Len(t, sequences, 1)

	sequence, ok := sequences[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sc:Sequence", sequence["@type"])
	assert.Equal(t, testBaseURI+"/canvas/0001", sequence["startCanvas"])
	assert.NotContains(t, sequence, "@context")

	canvases, ok := sequence["canvases"].([]any)
	require.True(t, ok)
	require.Len(t, canvases, 3)

	first, ok := canvases[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, testBaseURI+"/canvas/0001", first["@id"])
	assert.Equal(t, "Page 1", first["label"])
	assert.Equal(t, 768, first["height"])
	assert.Equal(t, 1024, first["width"])
	assert.Equal(t, []any{}, first["otherContent"])

	thumbnail, ok := out["thumbnail"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/iiif/fcrepo:123:p1/full/250,187/0/default.jpg", thumbnail["@id"])
	assert.Equal(t, 187, thumbnail["height"])
	assert.Equal(t, 250, thumbnail["width"])
}

func TestManifestMarshalMapWithLogo(t *testing.T) {
	m, _ := newTestManifest(t, 1, func(cfg *ManifestConfig) {
		cfg.LogoURL = "http://example.com/logo.png"
	})
	out, err := m.MarshalMap(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"@id": "http://example.com/logo.png"}, out["logo"])
}

func TestManifestZeroPagesOmitsThumbnail(t *testing.T) {
	m, _ := newTestManifest(t, 0, nil)
	out, err := m.MarshalMap(context.Background(), true)
	require.NoError(t, err)

	assert.NotContains(t, out, "thumbnail")
	sequence := out["sequences"].([]any)[0].(map[string]any)
	assert.Empty(t, sequence["canvases"])
	assert.NotContains(t, sequence, "startCanvas")
}

func TestManifestResourceFetchedOnce(t *testing.T) {
	fetches := 0
	resource := testResource(t, 2)
	m := NewManifest(ManifestConfig{
		ID:      testManifestID,
		BaseURI: testBaseURI,
		Fetch: func(ctx context.Context) (*source.Resource, error) {
			fetches++
			return resource, nil
		},
		Images: newFakeInfoService(),
	})

	_, err := m.MarshalMap(context.Background(), true)
	require.NoError(t, err)
	_, err = m.MarshalMap(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
}

func TestImageInfoFetchedOncePerImage(t *testing.T) {
	m, images := newTestManifest(t, 3, nil)

	_, err := m.MarshalMap(context.Background(), true)
	require.NoError(t, err)
	_, err = m.MarshalMap(context.Background(), true)
	require.NoError(t, err)

	for id, calls := range images.calls {
		assert.Equal(t, 1, calls, "image %s fetched more than once", id)
	}
}

func TestFindSequence(t *testing.T) {
	m, _ := newTestManifest(t, 1, nil)

	sequence, err := m.FindSequence(context.Background(), "normal")
	require.NoError(t, err)
	assert.Equal(t, "normal", sequence.Name())

	_, err = m.FindSequence(context.Background(), "reverse")
	var notFound *SequenceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, testManifestID, notFound.ManifestID)
	assert.Equal(t, "reverse", notFound.Name)
}

func TestFindCanvas(t *testing.T) {
	m, _ := newTestManifest(t, 3, nil)

	canvas, err := m.FindCanvas(context.Background(), "0002")
	require.NoError(t, err)
	assert.Equal(t, testResourceURI+"/p/2", canvas.PageURI())
	assert.Equal(t, 2, canvas.Index())

	_, err = m.FindCanvas(context.Background(), "9999")
	var notFound *CanvasNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, testManifestID, notFound.ManifestID)
	assert.Equal(t, "9999", notFound.Name)
}

func TestFindAnnotation(t *testing.T) {
	m, _ := newTestManifest(t, 2, nil)

	annotation, err := m.FindAnnotation(context.Background(), "0002-image")
	require.NoError(t, err)
	assert.Equal(t, testBaseURI+"/annotation/0002-image", annotation.URI())

	_, err = m.FindAnnotation(context.Background(), "0009-image")
	var notFound *AnnotationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, testManifestID, notFound.ManifestID)
	assert.Equal(t, "0009-image", notFound.Name)
}

func TestAnnotationMarshalMap(t *testing.T) {
	m, _ := newTestManifest(t, 1, nil)

	annotation, err := m.FindAnnotation(context.Background(), "0001-image")
	require.NoError(t, err)

	out, err := annotation.MarshalMap(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, PresentationContext, out["@context"])
	assert.Equal(t, "oa:Annotation", out["@type"])
	assert.Equal(t, "sc:painting", out["motivation"])
	assert.Equal(t, testBaseURI+"/canvas/0001", out["on"])

	image, ok := out["resource"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dctypes:Image", image["@type"])
	assert.Equal(t, "http://example.com/iiif/fcrepo:123:p1/full/full/0/default.jpg", image["@id"])
	assert.Equal(t, "image/jpeg", image["format"])
}

func TestCanvasOtherContentWithActiveQuery(t *testing.T) {
	m, _ := newTestManifest(t, 1, func(cfg *ManifestConfig) {
		cfg.TextQuery = "foo bar"
		cfg.Search = &fakeSearcher{}
	})

	canvas, err := m.FindCanvas(context.Background(), "0001")
	require.NoError(t, err)

	out, err := canvas.MarshalMap(context.Background(), true)
	require.NoError(t, err)

	otherContent, ok := out["otherContent"].([]any)
	require.True(t, ok)
	require.Len(t, otherContent, 1)

	entry := otherContent[0].(map[string]any)
	assert.Equal(t, testBaseURI+"/list/0001?q=foo+bar", entry["@id"])
	assert.Equal(t, "sc:AnnotationList", entry["@type"])
}

func TestSearchHitsMarshalMap(t *testing.T) {
	hit1, err := source.ParseTaggedText("foo|n=1&xywh=1,2,3,4")
	require.NoError(t, err)
	hit2, err := source.ParseTaggedText("bar|n=2&xywh=5,6,7,8")
	require.NoError(t, err)

	searcher := &fakeSearcher{hits: []source.TaggedText{hit1, hit2}}
	m, _ := newTestManifest(t, 2, func(cfg *ManifestConfig) {
		cfg.TextQuery = "foo"
		cfg.Search = searcher
	})

	hits, err := m.FindHits(context.Background(), "0001")
	require.NoError(t, err)

	out, err := hits.MarshalMap(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, PresentationContext, out["@context"])
	assert.Equal(t, "sc:AnnotationList", out["@type"])
	assert.Equal(t, testResourceURI, searcher.lastURI)
	assert.Equal(t, "foo", searcher.lastQuery)

	resources, ok := out["resources"].([]any)
	require.True(t, ok)
	require.Len(t, resources, 1)

	annotation := resources[0].(map[string]any)
	assert.Equal(t, testBaseURI+"/annotation/0001-hit-1", annotation["@id"])
	assert.Equal(t, "oa:highlighting", annotation["motivation"])
	assert.Equal(t, testBaseURI+"/canvas/0001#xywh=1,2,3,4", annotation["on"])

	content := annotation["resource"].(map[string]any)
	assert.Equal(t, "cnt:ContentAsText", content["@type"])
	assert.Equal(t, "foo", content["chars"])
}
