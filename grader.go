package adaptivequiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyQuiz is returned when grading is called with zero questions.
// An empty submission is an input-contract violation, not a zero score.
var ErrEmptyQuiz = errors.New("cannot grade an empty quiz")

// defaultPassThreshold is the minimum feedback score for a free-response
// answer to count as passed. Provider-scored grading is approximate; the
// threshold is a heuristic, not a strict contract, and is swappable per
// grader.
const defaultPassThreshold = 0.7

// fallbackFeedback is returned when the feedback provider fails for one
// answer. It carries no score, so the answer counts as failed. This is the
// only place in the pipeline where a failure degrades to a default instead
// of surfacing.
var fallbackFeedback = FeedbackEntry{
	Strengths:           "Unable to analyze strengths",
	AreasForImprovement: "Unable to analyze areas for improvement",
	KeyConcepts:         "Please review the correct answer",
	Suggestions:         "Try reviewing the related course materials",
}

// Grader scores quiz submissions and produces per-answer feedback through
// an injected feedback provider.
type Grader struct {
	feedback      TextGenerator
	passThreshold float64
}

// NewGrader creates a grader over the injected feedback provider.
func NewGrader(feedback TextGenerator) *Grader {
	return &Grader{
		feedback:      feedback,
		passThreshold: defaultPassThreshold,
	}
}

// WithPassThreshold overrides the free-response pass threshold and returns
// the grader for chaining.
func (g *Grader) WithPassThreshold(threshold float64) *Grader {
	g.passThreshold = threshold
	return g
}

// Grade scores the answers against the quiz in submission order. An mcq
// answer passes when its text exactly equals the correct choice's text
// (case-sensitive, no normalization). A free-response answer passes when
// the provider's feedback carries a score at or above the pass threshold.
// Feedback is generated for every answer regardless of type.
//
// Grade does not touch performance history; callers fold the returned score
// in with QuizPerformanceHistory.RecordScore.
func (g *Grader) Grade(ctx context.Context, quiz *GeneratedQuiz, answers []Answer) (*GradeResult, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	if len(answers) != len(quiz.Questions) {
		return nil, fmt.Errorf("got %d answers for %d questions", len(answers), len(quiz.Questions))
	}

	total := len(quiz.Questions)
	passed := 0
	feedback := make([]FeedbackEntry, 0, total)

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		answer := answers[i]

		entry := g.generateFeedback(ctx, question, answer)
		feedback = append(feedback, entry)

		if question.QuestionType == TypeMCQ {
			correct, ok := question.CorrectChoice()
			if ok && answer.Text == correct {
				passed++
			}
			continue
		}

		if entry.Score != nil && *entry.Score >= g.passThreshold {
			passed++
		}
	}

	result := &GradeResult{
		Score:          float64(passed) / float64(total) * 100,
		TotalQuestions: total,
		CorrectAnswers: passed,
		Feedback:       feedback,
	}

	logger.WithField("quiz_id", quiz.ID).Infof("Graded %d/%d correct, score %.1f", passed, total, result.Score)
	return result, nil
}

// generateFeedback asks the feedback provider to analyze one answer. Any
// failure along the way degrades to the static fallback entry.
func (g *Grader) generateFeedback(ctx context.Context, question *GeneratedQuestion, answer Answer) FeedbackEntry {
	prompt := BuildFeedbackPrompt(answer.Text, question.ReferenceAnswer(), question.QuestionType, question.ScenarioContext)

	raw, err := g.feedback.GenerateText(ctx, prompt)
	if err != nil {
		logger.WithError(err).Warn("Feedback generation failed, using fallback")
		return fallbackFeedback
	}

	candidate, err := ExtractJSON(raw)
	if err != nil {
		logger.WithError(err).Warn("Feedback extraction failed, using fallback")
		return fallbackFeedback
	}

	var entry FeedbackEntry
	if err := json.Unmarshal(candidate, &entry); err != nil {
		logger.WithError(err).Warn("Feedback decoding failed, using fallback")
		return fallbackFeedback
	}
	return entry
}
