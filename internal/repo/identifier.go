// Package repo translates between repository resource URIs and the stable
// IIIF identifiers that appear in manifest URLs.
package repo

import (
	"fmt"
	"strings"
)

// DefaultPathSep is the character that stands in for '/' inside IIIF
// identifiers.
const DefaultPathSep = ":"

// InvalidIdentifierError indicates an identifier that does not carry the
// configured prefix.
type InvalidIdentifierError struct {
	ID     string
	Prefix string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid IIIF identifier: expecting %q + local part, got %q", e.Prefix, e.ID)
}

// InvalidURIError indicates a resource URI outside the configured
// repository endpoint.
type InvalidURIError struct {
	URI      string
	Endpoint string
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("%s is not part of the repository at %s", e.URI, e.Endpoint)
}

// Translator converts between repository URIs and IIIF identifiers.
//
// The mapping is a strict bijection for every URI under Endpoint and every
// identifier under Prefix. Inputs outside those namespaces are rejected,
// never coerced.
type Translator struct {
	// Endpoint is the base URL of the source repository, without a
	// trailing slash.
	Endpoint string

	// Prefix is the leading marker on every IIIF identifier, e.g. "fcrepo:".
	Prefix string

	// PathSep replaces '/' when converting a URI path into an identifier.
	// Empty means DefaultPathSep.
	PathSep string
}

func (t *Translator) sep() string {
	if t.PathSep == "" {
		return DefaultPathSep
	}
	return t.PathSep
}

// ResourceURI converts a IIIF identifier to a repository URI.
func (t *Translator) ResourceURI(iiifID string) (string, error) {
	if !strings.HasPrefix(iiifID, t.Prefix) {
		return "", &InvalidIdentifierError{ID: iiifID, Prefix: t.Prefix}
	}
	local := strings.TrimPrefix(iiifID, t.Prefix)
	return t.Endpoint + "/" + strings.ReplaceAll(local, t.sep(), "/"), nil
}

// IIIFID converts a repository URI to a IIIF identifier.
func (t *Translator) IIIFID(resourceURI string) (string, error) {
	if !strings.HasPrefix(resourceURI, t.Endpoint) {
		return "", &InvalidURIError{URI: resourceURI, Endpoint: t.Endpoint}
	}
	local := strings.TrimPrefix(resourceURI, t.Endpoint+"/")
	return t.Prefix + strings.ReplaceAll(local, "/", t.sep()), nil
}
