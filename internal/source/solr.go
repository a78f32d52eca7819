package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recto-project/recto/internal/query"
)

// DefaultURIField is the Solr field holding the resource URI.
const DefaultURIField = "id"

// DocumentNotFoundError indicates that no backend document matches the
// requested resource URI.
type DocumentNotFoundError struct {
	URI string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("no document with id %q found", e.URI)
}

// LookupError indicates a transport or protocol failure talking to the
// backend index.
type LookupError struct {
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("index lookup: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("index lookup: %s", e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Repository retrieves resources from the backend index.
type Repository interface {
	Resource(ctx context.Context, resourceURI string) (*Resource, error)
}

// Searcher runs highlighted full-text searches scoped to one resource.
// A pageIndex below zero means unscoped.
type Searcher interface {
	TextMatches(ctx context.Context, resourceURI, textQuery string, pageIndex int) ([]TaggedText, error)
}

// SolrConfig configures a SolrService.
type SolrConfig struct {
	// Endpoint is the URL of the Solr core; it must expose a /select
	// query handler.
	Endpoint string

	// Spec is the metadata query spec compiled into every Resource.
	Spec *QuerySpec

	// TextField is the Solr field containing tagged text data.
	TextField string

	// URIField is the Solr field containing the resource URI. Empty means
	// DefaultURIField.
	URIField string

	Engine query.Engine
	Client *http.Client
	Logger *zap.Logger
}

// SolrService queries a Solr core for digital object metadata and text
// matches. It implements Repository and Searcher.
type SolrService struct {
	endpoint  string
	spec      *QuerySpec
	textField string
	uriField  string
	engine    query.Engine
	client    *http.Client
	logger    *zap.Logger
}

// NewSolrService builds a SolrService from cfg.
func NewSolrService(cfg SolrConfig) *SolrService {
	uriField := cfg.URIField
	if uriField == "" {
		uriField = DefaultURIField
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolrService{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		spec:      cfg.Spec,
		textField: cfg.TextField,
		uriField:  uriField,
		engine:    cfg.Engine,
		client:    client,
		logger:    logger,
	}
}

type solrResponse struct {
	Response struct {
		NumFound int              `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
}

// Document retrieves the single document whose URI field matches
// resourceURI. Zero matches is a DocumentNotFoundError; more than one
// match, or any transport or protocol failure, is a LookupError.
func (s *SolrService) Document(ctx context.Context, resourceURI string) (map[string]any, error) {
	params := s.termQuery(resourceURI)
	resp, err := s.sel(ctx, params)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.Response.NumFound == 0:
		return nil, &DocumentNotFoundError{URI: resourceURI}
	case resp.Response.NumFound > 1:
		return nil, &LookupError{Message: fmt.Sprintf("multiple documents with id %q found", resourceURI)}
	}
	return resp.Response.Docs[0], nil
}

// Resource retrieves the document for resourceURI and binds it to the
// compiled query spec.
func (s *SolrService) Resource(ctx context.Context, resourceURI string) (*Resource, error) {
	doc, err := s.Document(ctx, resourceURI)
	if err != nil {
		return nil, err
	}
	return NewResource(doc, s.spec, s.engine)
}

// TextMatches searches the text field of the resource at resourceURI for
// textQuery using the index's highlighting support, and parses each
// highlighted fragment into a TaggedText hit. A pageIndex of zero or
// greater limits the hits to that page.
func (s *SolrService) TextMatches(ctx context.Context, resourceURI, textQuery string, pageIndex int) ([]TaggedText, error) {
	// a unique tag marks the snippet fragments to extract, so the
	// delimiter can never collide with the query text
	matchTag := fmt.Sprintf("<<%s>>", uuid.New())

	params := s.termQuery(resourceURI)
	params.Set("hl", "on")
	params.Set("hl.fl", s.textField)
	params.Set("hl.q", fmt.Sprintf("%s:%s", s.textField, textQuery))
	params.Set("hl.snippets", "100")
	params.Set("hl.fragsize", "50")
	params.Set("hl.maxAnalyzedChars", "1000000")
	params.Set("hl.tag.pre", matchTag)
	params.Set("hl.tag.post", matchTag)

	resp, err := s.sel(ctx, params)
	if err != nil {
		return nil, err
	}

	hits := []TaggedText{}
	for _, snippet := range resp.Highlighting[resourceURI][s.textField] {
		for i, segment := range strings.Split(snippet, matchTag) {
			if i%2 != 1 {
				continue
			}
			hit, err := ParseTaggedText(segment)
			if err != nil {
				return nil, &LookupError{Message: "parse highlighted fragment", Err: err}
			}
			hits = append(hits, hit)
		}
	}

	if pageIndex < 0 {
		return hits, nil
	}
	scoped := []TaggedText{}
	for _, hit := range hits {
		n, err := hit.PageIndex()
		if err != nil {
			return nil, &LookupError{Message: "parse highlighted fragment", Err: err}
		}
		if n == pageIndex {
			scoped = append(scoped, hit)
		}
	}
	return scoped, nil
}

func (s *SolrService) termQuery(resourceURI string) url.Values {
	params := url.Values{}
	// the term query parser with the URI as a separate parameter leaves
	// escaping of the URI value to Solr itself
	params.Set("q", fmt.Sprintf("{!term f=%s v=$id}", s.uriField))
	params.Set("id", resourceURI)
	params.Set("wt", "json")
	return params
}

func (s *SolrService) sel(ctx context.Context, params url.Values) (*solrResponse, error) {
	selectURL := s.endpoint + "/select?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, selectURL, nil)
	if err != nil {
		return nil, &LookupError{Message: "build select request", Err: err}
	}

	s.logger.Debug("solr select", zap.String("url", s.endpoint+"/select"), zap.String("q", params.Get("q")))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &LookupError{Message: "send select request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LookupError{Message: fmt.Sprintf("select request returned %s", resp.Status)}
	}

	var body solrResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &LookupError{Message: "decode select response", Err: err}
	}
	return &body, nil
}
