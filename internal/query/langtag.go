package query

import "regexp"

// Values may carry a leading bracketed language tag, e.g. "[@de]" or
// "[@ja-latn]".
var langTagPattern = regexp.MustCompile(`^\[@(.*?)](.*)`)

// Tagged is a language-qualified metadata value, serialized in JSON-LD
// string object form.
type Tagged struct {
	Language string `json:"@language"`
	Value    string `json:"@value"`
}

// ParseValue splits a leading language tag off a raw string and returns a
// Tagged value. A string without a tag is returned unchanged.
func ParseValue(raw string) any {
	if m := langTagPattern.FindStringSubmatch(raw); m != nil {
		return Tagged{Language: m[1], Value: m[2]}
	}
	return raw
}

// ParseValues applies ParseValue to each string in values. Non-string
// values pass through untouched.
func ParseValues(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, ParseValue(s))
			continue
		}
		out = append(out, v)
	}
	return out
}
