package adaptivequiz

import "fmt"

// mcqChoiceCount is the number of options every mcq question must carry.
const mcqChoiceCount = 4

// ValidationError indicates a payload that parsed but breaks the quiz
// schema contract. Question is the 0-based index of the offending question,
// or -1 for payload-level failures.
type ValidationError struct {
	Question int
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Question < 0 {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: question %d: %s", e.Question, e.Reason)
}

// ValidateQuizPayload checks a parsed payload against the structural
// contract: required fields on every question, exactly 4 choices with
// exactly one correct answer for mcq, scenario context for scenario
// questions, a model answer for the free-response types, and a per-type
// question count exactly matching the request. An invalid payload is
// rejected wholesale; nothing is patched or dropped.
func ValidateQuizPayload(payload *QuizPayload, typeCounts map[QuestionType]int) error {
	if payload == nil || len(payload.Questions) == 0 {
		return &ValidationError{Question: -1, Reason: "payload has no questions"}
	}

	gotCounts := make(map[QuestionType]int)
	for i := range payload.Questions {
		q := &payload.Questions[i]

		if q.QuestionText == "" {
			return &ValidationError{Question: i, Reason: "missing question_text"}
		}
		if q.QuestionType == "" {
			return &ValidationError{Question: i, Reason: "missing question_type"}
		}
		if !q.QuestionType.Valid() {
			return &ValidationError{Question: i, Reason: fmt.Sprintf("unknown question_type %q", q.QuestionType)}
		}
		if q.DifficultyLevel == "" {
			return &ValidationError{Question: i, Reason: "missing difficulty_level"}
		}
		if q.Explanation == "" {
			return &ValidationError{Question: i, Reason: "missing explanation"}
		}

		gotCounts[q.QuestionType]++

		switch q.QuestionType {
		case TypeMCQ:
			if len(q.Choices) != mcqChoiceCount {
				return &ValidationError{
					Question: i,
					Reason:   fmt.Sprintf("mcq has %d choices, want %d", len(q.Choices), mcqChoiceCount),
				}
			}
			correct := 0
			for _, c := range q.Choices {
				if c.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return &ValidationError{
					Question: i,
					Reason:   fmt.Sprintf("mcq has %d correct choices, want exactly 1", correct),
				}
			}
		case TypeScenario:
			if q.ScenarioContext == "" {
				return &ValidationError{Question: i, Reason: "scenario question missing scenario_context"}
			}
		case TypeApplication, TypeReflection, TypeDiscussion:
			if q.ModelAnswer == "" {
				return &ValidationError{
					Question: i,
					Reason:   fmt.Sprintf("%s question missing model_answer", q.QuestionType),
				}
			}
		}
	}

	// Exact per-type counts: no substitution, no extras, none missing.
	// Walking the full type order also rejects types the request never
	// asked for (want defaults to 0).
	for _, qtype := range questionTypeOrder {
		want := typeCounts[qtype]
		if got := gotCounts[qtype]; got != want {
			return &ValidationError{
				Question: -1,
				Reason:   fmt.Sprintf("got %d %s questions, want %d", got, qtype, want),
			}
		}
	}

	return nil
}
