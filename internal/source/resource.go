package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/recto-project/recto/internal/query"
)

// multiValueSep joins multi-valued values used as scalar manifest fields.
const multiValueSep = " / "

// Field is one descriptive metadata entry in a manifest.
type Field struct {
	Label string `json:"label"`
	Value []any  `json:"value"`
}

// PageNotFoundError indicates a page URI that is not part of the
// resource's page list.
type PageNotFoundError struct {
	PageURI string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %q is not part of this resource", e.PageURI)
}

// Resource is one digital object: a backend document plus its compiled
// query spec. It is immutable after construction, and every accessor is a
// pure function of the document, the spec, and an optional argument.
type Resource struct {
	doc      map[string]any
	spec     *QuerySpec
	engine   query.Engine
	compiled map[string]query.Compiled
}

// NewResource compiles the structural and descriptive queries of spec and
// binds them to doc. Parameterized queries are compiled per call because
// they need a runtime-bound argument.
func NewResource(doc map[string]any, spec *QuerySpec, engine query.Engine) (*Resource, error) {
	r := &Resource{
		doc:      doc,
		spec:     spec,
		engine:   engine,
		compiled: make(map[string]query.Compiled, spec.Len()),
	}
	for _, key := range spec.Keys() {
		if IsParameterized(key) {
			continue
		}
		expr, _ := spec.Get(key)
		compiled, err := engine.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("query key %q: %w", key, err)
		}
		r.compiled[key] = compiled
	}
	return r, nil
}

func (r *Resource) all(key string) ([]any, error) {
	compiled, ok := r.compiled[key]
	if !ok {
		return nil, &query.MissingFieldError{Key: key}
	}
	return compiled.Evaluate(r.doc)
}

func (r *Resource) first(key string) (any, error) {
	results, err := r.all(key)
	if err != nil {
		return nil, err
	}
	return query.First(results, key)
}

func (r *Resource) firstString(key string) (string, error) {
	v, err := r.first(key)
	if err != nil {
		return "", err
	}
	return stringValue(v), nil
}

// withArg compiles and runs a parameterized query, binding arg as $uri.
func (r *Resource) withArg(key string, arg string) (any, error) {
	expr, ok := r.spec.Get(key)
	if !ok {
		return nil, &query.MissingFieldError{Key: key}
	}
	compiled, err := r.engine.CompileWithArg(expr, URIArg)
	if err != nil {
		return nil, fmt.Errorf("query key %q: %w", key, err)
	}
	results, err := compiled.Evaluate(r.doc, arg)
	if err != nil {
		return nil, fmt.Errorf("query key %q: %w", key, err)
	}
	return query.First(results, key)
}

// URI is the URI of the digital object. Query key: $uri.
func (r *Resource) URI() (string, error) {
	return r.firstString(KeyURI)
}

// LabelValues returns every label value in order. Query key: $label.
func (r *Resource) LabelValues() ([]string, error) {
	return r.strings(KeyLabel)
}

// Label joins all label values with " / ". Query key: $label.
func (r *Resource) Label() (string, error) {
	values, err := r.LabelValues()
	if err != nil {
		return "", err
	}
	return strings.Join(values, multiValueSep), nil
}

// Date is the navigation date for the manifest, empty when not present.
// Query key: $date.
func (r *Resource) Date() (string, error) {
	return r.optionalString(KeyDate)
}

// License is the license URL for the manifest, empty when not present.
// Query key: $license_uri.
func (r *Resource) License() (string, error) {
	return r.optionalString(KeyLicenseURI)
}

// Description joins all description values with " / ", empty when not
// present. Query key: $description.
func (r *Resource) Description() (string, error) {
	results, err := r.all(KeyDescription)
	if err != nil {
		return "", err
	}
	var values []string
	for _, v := range results {
		if v == nil {
			continue
		}
		values = append(values, stringValue(v))
	}
	return strings.Join(values, multiValueSep), nil
}

// PageURIs returns the page URIs in presentation order. Query key:
// $page_uris.
func (r *Resource) PageURIs() ([]string, error) {
	return r.strings(KeyPageURIs)
}

// Metadata returns the descriptive metadata fields in spec order. Values
// pass through language-tag normalization, and fields whose value list
// comes back empty are dropped.
func (r *Resource) Metadata() ([]Field, error) {
	fields := []Field{}
	for _, key := range r.spec.Descriptive() {
		results, err := r.all(key)
		if err != nil {
			return nil, err
		}
		values := make([]any, 0, len(results))
		for _, v := range results {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok {
				values = append(values, query.ParseValue(s))
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		fields = append(fields, Field{Label: key, Value: values})
	}
	return fields, nil
}

// PageIndex returns the 0-based position of pageURI in the page list.
func (r *Resource) PageIndex(pageURI string) (int, error) {
	pages, err := r.PageURIs()
	if err != nil {
		return 0, err
	}
	for i, uri := range pages {
		if uri == pageURI {
			return i, nil
		}
	}
	return 0, &PageNotFoundError{PageURI: pageURI}
}

// PageImageID returns the image identifier for the page at pageURI. Query
// key: $page_image_ids, indexed by PageIndex.
func (r *Resource) PageImageID(pageURI string) (string, error) {
	index, err := r.PageIndex(pageURI)
	if err != nil {
		return "", err
	}
	ids, err := r.strings(KeyPageImageIDs)
	if err != nil {
		return "", err
	}
	if index >= len(ids) {
		return "", fmt.Errorf("no image id for page %q at index %d", pageURI, index)
	}
	return ids[index], nil
}

// PageLabel returns the display label for the page at pageURI. Query key:
// $*page_label.
func (r *Resource) PageLabel(pageURI string) (string, error) {
	v, err := r.withArg(KeyPageLabel, pageURI)
	if err != nil {
		return "", err
	}
	return stringValue(v), nil
}

// PageDoc returns the metadata document of the single page at pageURI.
// Query key: $*page_doc.
func (r *Resource) PageDoc(pageURI string) (map[string]any, error) {
	v, err := r.withArg(KeyPageDoc, pageURI)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("page document for %q is not a mapping", pageURI)
	}
	return doc, nil
}

// PageForFile returns the URI of the page containing fileURI. Query key:
// $*file_page_uri.
func (r *Resource) PageForFile(fileURI string) (string, error) {
	v, err := r.withArg(KeyFilePageURI, fileURI)
	if err != nil {
		return "", err
	}
	return stringValue(v), nil
}

func (r *Resource) strings(key string) ([]string, error) {
	results, err := r.all(key)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(results))
	for _, v := range results {
		if v == nil {
			continue
		}
		values = append(values, stringValue(v))
	}
	return values, nil
}

// optionalString is like firstString but treats a missing field as empty.
func (r *Resource) optionalString(key string) (string, error) {
	v, err := r.first(key)
	if err != nil {
		var missing *query.MissingFieldError
		if errors.As(err, &missing) {
			return "", nil
		}
		return "", err
	}
	return stringValue(v), nil
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
