package adaptivequiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionError indicates that no parseable JSON object could be pulled
// out of the provider's raw output.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

// ExtractJSON locates the candidate JSON document inside raw provider
// output. Models frequently wrap the JSON in explanatory prose or markdown
// fences, so the text between the first '{' and the last '}' is taken as the
// candidate and checked for well-formedness.
//
// This is a best-effort heuristic, not a parser: it assumes the payload is a
// single top-level object and will mis-slice pathological inputs where prose
// after the JSON contains a '}' or string values are not balanced. Callers
// that need stronger guarantees should scan incrementally with json.Decoder.
func ExtractJSON(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return nil, &ExtractionError{Reason: "no JSON object found in response"}
	}

	candidate := []byte(raw[start : end+1])
	if !json.Valid(candidate) {
		return nil, &ExtractionError{Reason: "invalid JSON structure in response"}
	}
	return candidate, nil
}
