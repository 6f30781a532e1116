package adaptivequiz

import (
	"errors"
	"testing"
)

func TestExtractJSON_StripsSurroundingProse(t *testing.T) {
	raw := `Sure! Here you go: {"questions": []} Thanks.`

	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(got) != `{"questions": []}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"questions\": [{\"question_text\": \"Q?\"}]}\n```"

	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if string(got) != `{"questions": [{"question_text": "Q?"}]}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_NoBraces(t *testing.T) {
	_, err := ExtractJSON("the model refused to answer")
	if err == nil {
		t.Fatal("expected error for input with no braces")
	}

	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}

func TestExtractJSON_MalformedJSON(t *testing.T) {
	_, err := ExtractJSON(`prefix {"questions": [unterminated} suffix`)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}

func TestExtractJSON_ReversedBraces(t *testing.T) {
	_, err := ExtractJSON(`} no object here {`)
	if err == nil {
		t.Fatal("expected error when last } precedes first {")
	}
}
