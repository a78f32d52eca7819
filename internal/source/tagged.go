package source

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Parameter names carried by tagged text tokens in the index.
const (
	pageIndexParam   = "n"
	boundingBoxParam = "xywh"
)

// TaggedText is one parsed search hit: the matched token text plus the
// positional parameters stored alongside it in the index.
type TaggedText struct {
	// Text of the matched token.
	Text string

	// Params is the parameter mapping from the token. It carries at least
	// a numeric page index ("n") and a bounding box ("xywh").
	Params url.Values
}

// ParseTaggedText splits raw on the first "|". The first part becomes the
// text, the remainder is parsed as an HTTP query string and becomes the
// parameters.
func ParseTaggedText(raw string) (TaggedText, error) {
	text, tag, found := strings.Cut(raw, "|")
	if !found {
		return TaggedText{}, fmt.Errorf("malformed tagged text %q: missing parameter separator", raw)
	}
	params, err := url.ParseQuery(tag)
	if err != nil {
		return TaggedText{}, fmt.Errorf("parse tagged text parameters: %w", err)
	}
	return TaggedText{Text: text, Params: params}, nil
}

// PageIndex returns the numeric page index parameter.
func (t TaggedText) PageIndex() (int, error) {
	n, err := strconv.Atoi(t.Params.Get(pageIndexParam))
	if err != nil {
		return 0, fmt.Errorf("tagged text page index: %w", err)
	}
	return n, nil
}

// BoundingBox returns the "xywh" region parameter.
func (t TaggedText) BoundingBox() string {
	return t.Params.Get(boundingBoxParam)
}
