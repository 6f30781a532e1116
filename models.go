package adaptivequiz

import "time"

// QuestionType tags the style of a generated question.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeScenario    QuestionType = "scenario"
	TypeApplication QuestionType = "application"
	TypeReflection  QuestionType = "reflection"
	TypeDiscussion  QuestionType = "discussion"
)

// questionTypeOrder fixes the traversal order whenever a type/count map has
// to be walked deterministically (prompts, validation messages).
var questionTypeOrder = []QuestionType{
	TypeMCQ, TypeScenario, TypeApplication, TypeReflection, TypeDiscussion,
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeScenario, TypeApplication, TypeReflection, TypeDiscussion:
		return true
	}
	return false
}

// Difficulty is a quiz difficulty level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// QuizSpec describes a single generation request: the source content to quiz
// on, how many questions of each type, and the requested difficulty. It is a
// plain value and is never mutated by the pipeline.
type QuizSpec struct {
	Content    string               `json:"content"`
	TypeCounts map[QuestionType]int `json:"type_counts"`
	Difficulty Difficulty           `json:"difficulty"`
}

// TotalQuestions returns the number of questions the spec asks for.
func (s QuizSpec) TotalQuestions() int {
	total := 0
	for _, count := range s.TypeCounts {
		total += count
	}
	return total
}

// Choice is one multiple choice option.
type Choice struct {
	ChoiceText string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// GeneratedQuestion is a single question produced by the generator. Field
// names match the wire schema the model is asked to emit: ScenarioContext is
// set only for scenario questions, Choices only for mcq, ModelAnswer only
// for the free-response types.
type GeneratedQuestion struct {
	QuestionText    string       `json:"question_text"`
	QuestionType    QuestionType `json:"question_type"`
	DifficultyLevel Difficulty   `json:"difficulty_level"`
	ScenarioContext string       `json:"scenario_context,omitempty"`
	Choices         []Choice     `json:"choices,omitempty"`
	ModelAnswer     string       `json:"model_answer,omitempty"`
	Explanation     string       `json:"explanation"`
}

// CorrectChoice returns the text of the choice marked correct. A validated
// mcq question always has exactly one.
func (q *GeneratedQuestion) CorrectChoice() (string, bool) {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.ChoiceText, true
		}
	}
	return "", false
}

// ReferenceAnswer returns the answer feedback generation compares against:
// the model answer for free-response questions, the correct choice for mcq.
func (q *GeneratedQuestion) ReferenceAnswer() string {
	if q.ModelAnswer != "" {
		return q.ModelAnswer
	}
	if text, ok := q.CorrectChoice(); ok {
		return text
	}
	return ""
}

// QuizPayload is the top-level object the generation provider is expected to
// return.
type QuizPayload struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuiz is the normalized output of a successful generation.
type GeneratedQuiz struct {
	ID         string              `json:"id"`
	Difficulty Difficulty          `json:"difficulty"`
	Questions  []GeneratedQuestion `json:"questions"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Answer is one submitted answer. Answers are matched to questions by
// position in submission order.
type Answer struct {
	Text string `json:"text"`
}

// FeedbackEntry is the per-answer feedback object the feedback provider
// returns. Score, when present, is in [0,1] and drives pass/fail for
// free-response questions.
type FeedbackEntry struct {
	Strengths           string   `json:"strengths"`
	AreasForImprovement string   `json:"areas_for_improvement"`
	KeyConcepts         string   `json:"key_concepts"`
	Suggestions         string   `json:"suggestions"`
	Score               *float64 `json:"score,omitempty"`
}

// GradeResult is the outcome of grading one quiz submission.
type GradeResult struct {
	Score          float64         `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	CorrectAnswers int             `json:"correct_answers"`
	Feedback       []FeedbackEntry `json:"feedback"`
}

// historyWindowSize caps the trailing score window kept per (user, quiz).
const historyWindowSize = 5

// QuizPerformanceHistory tracks one user's performance on one quiz. The
// adaptive difficulty selector reads it; RecordScore is the only mutation.
type QuizPerformanceHistory struct {
	UserID         string     `json:"user_id"`
	QuizID         string     `json:"quiz_id"`
	AverageScore   float64    `json:"average_score"`
	TotalAttempts  int        `json:"total_attempts"`
	LastDifficulty Difficulty `json:"last_difficulty"`
	RecentScores   []float64  `json:"recent_scores"`
}

// RecordScore folds a completed attempt into the history: it increments the
// attempt count, updates the running mean, and appends the score to the
// trailing window, evicting the oldest entry once the window exceeds its cap.
func (h *QuizPerformanceHistory) RecordScore(score float64) {
	oldTotal := h.TotalAttempts
	h.TotalAttempts++
	h.AverageScore = (h.AverageScore*float64(oldTotal) + score) / float64(h.TotalAttempts)

	h.RecentScores = append(h.RecentScores, score)
	if len(h.RecentScores) > historyWindowSize {
		h.RecentScores = h.RecentScores[len(h.RecentScores)-historyWindowSize:]
	}
}
