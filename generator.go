package adaptivequiz

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Generation pipeline stages, reported inside GenerationFailure.
const (
	StageProvider = "provider"
	StageExtract  = "extract"
	StageValidate = "validate"
)

// GenerationFailure is the single externally-visible failure for Generate.
// Stage distinguishes a provider-call failure from garbage output from
// well-formed but contractually wrong output; the wrapped error carries the
// detail.
type GenerationFailure struct {
	Stage string
	Err   error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("quiz generation failed at %s stage: %v", e.Stage, e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// QuizGenerator orchestrates prompt building, the provider call, extraction,
// and validation into a normalized quiz. It holds no mutable state between
// calls; concurrent Generate calls are independent.
//
// Generate does not retry on failure. Whether a validation failure is worth
// another provider round-trip is caller policy; the webserver wraps Generate
// in a bounded retry loop, the library does not.
type QuizGenerator struct {
	provider   TextGenerator
	transcript *TranscriptLogger
}

// NewQuizGenerator creates a generator over the injected provider.
func NewQuizGenerator(provider TextGenerator) *QuizGenerator {
	return &QuizGenerator{provider: provider}
}

// WithTranscript attaches an optional transcript logger and returns the
// generator for chaining.
func (qg *QuizGenerator) WithTranscript(tl *TranscriptLogger) *QuizGenerator {
	qg.transcript = tl
	return qg
}

// Generate produces a validated quiz for the spec. When a performance
// history is supplied, the effective difficulty is resolved adaptively from
// it; a nil history uses the spec's difficulty as-is. The history snapshot
// is read, never written. Persistence of the returned quiz is the caller's
// responsibility.
func (qg *QuizGenerator) Generate(ctx context.Context, spec QuizSpec, history *QuizPerformanceHistory) (*GeneratedQuiz, error) {
	typeCounts := spec.TypeCounts
	if len(typeCounts) == 0 {
		// Default mirrors the platform's behavior: five plain mcq questions.
		typeCounts = map[QuestionType]int{TypeMCQ: 5}
	}

	difficulty := spec.Difficulty
	if !difficulty.Valid() {
		difficulty = DifficultyIntermediate
	}
	difficulty = AdaptiveDifficulty(history, difficulty)

	logger.WithField("difficulty", difficulty).Info("Starting quiz generation")

	prompt := BuildQuizPrompt(spec.Content, typeCounts, difficulty)
	if qg.transcript != nil {
		qg.transcript.LogRequest("generate", prompt)
	}

	raw, err := qg.provider.GenerateText(ctx, prompt)
	if err != nil {
		if qg.transcript != nil {
			qg.transcript.LogOutcome(StageProvider, err)
		}
		return nil, &GenerationFailure{Stage: StageProvider, Err: err}
	}
	if qg.transcript != nil {
		qg.transcript.LogResponse("generate", raw)
	}
	logger.Debugf("Raw provider response:\n%s", raw)

	candidate, err := ExtractJSON(raw)
	if err != nil {
		if qg.transcript != nil {
			qg.transcript.LogOutcome(StageExtract, err)
		}
		return nil, &GenerationFailure{Stage: StageExtract, Err: err}
	}

	var payload QuizPayload
	if err := json.Unmarshal(candidate, &payload); err != nil {
		if qg.transcript != nil {
			qg.transcript.LogOutcome(StageExtract, err)
		}
		return nil, &GenerationFailure{Stage: StageExtract, Err: fmt.Errorf("failed to decode payload: %w", err)}
	}

	if err := ValidateQuizPayload(&payload, typeCounts); err != nil {
		if qg.transcript != nil {
			qg.transcript.LogOutcome(StageValidate, err)
		}
		return nil, &GenerationFailure{Stage: StageValidate, Err: err}
	}
	if qg.transcript != nil {
		qg.transcript.LogOutcome(StageValidate, nil)
	}

	quiz := &GeneratedQuiz{
		ID:         generateQuizID(),
		Difficulty: difficulty,
		Questions:  payload.Questions,
		CreatedAt:  time.Now(),
	}

	logger.WithField("quiz_id", quiz.ID).Infof("Generated %d questions", len(quiz.Questions))
	return quiz, nil
}

func generateQuizID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 12)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
