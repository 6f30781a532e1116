package adaptivequiz

import (
	"errors"
	"strings"
	"testing"
)

func validMCQ() GeneratedQuestion {
	return GeneratedQuestion{
		QuestionText:    "What does a budget track?",
		QuestionType:    TypeMCQ,
		DifficultyLevel: DifficultyIntermediate,
		Choices: []Choice{
			{ChoiceText: "Income and expenses", IsCorrect: true},
			{ChoiceText: "Only income", IsCorrect: false},
			{ChoiceText: "Only expenses", IsCorrect: false},
			{ChoiceText: "Stock prices", IsCorrect: false},
		},
		Explanation: "A budget tracks both money coming in and going out.",
	}
}

func validScenario() GeneratedQuestion {
	return GeneratedQuestion{
		QuestionText:    "How should Maria prioritize her debts?",
		QuestionType:    TypeScenario,
		DifficultyLevel: DifficultyIntermediate,
		ScenarioContext: "Maria has three credit cards with different interest rates.",
		ModelAnswer:     "Pay the highest-rate card first.",
		Explanation:     "Highest interest first minimizes total cost.",
	}
}

func validApplication() GeneratedQuestion {
	return GeneratedQuestion{
		QuestionText:    "Apply the 50/30/20 rule to a $3000 monthly income.",
		QuestionType:    TypeApplication,
		DifficultyLevel: DifficultyIntermediate,
		ModelAnswer:     "$1500 needs, $900 wants, $600 savings.",
		Explanation:     "The rule splits income 50/30/20.",
	}
}

func TestValidateQuizPayload_Valid(t *testing.T) {
	payload := &QuizPayload{Questions: []GeneratedQuestion{
		validMCQ(), validMCQ(), validScenario(), validApplication(),
	}}
	counts := map[QuestionType]int{TypeMCQ: 2, TypeScenario: 1, TypeApplication: 1}

	if err := ValidateQuizPayload(payload, counts); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateQuizPayload_EmptyPayload(t *testing.T) {
	err := ValidateQuizPayload(&QuizPayload{}, map[QuestionType]int{TypeMCQ: 1})
	if err == nil {
		t.Fatal("expected error for empty payload")
	}

	err = ValidateQuizPayload(nil, map[QuestionType]int{TypeMCQ: 1})
	if err == nil {
		t.Fatal("expected error for nil payload")
	}
}

func TestValidateQuizPayload_MissingFields(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*GeneratedQuestion)
	}{
		{"question_text", func(q *GeneratedQuestion) { q.QuestionText = "" }},
		{"question_type", func(q *GeneratedQuestion) { q.QuestionType = "" }},
		{"difficulty_level", func(q *GeneratedQuestion) { q.DifficultyLevel = "" }},
		{"explanation", func(q *GeneratedQuestion) { q.Explanation = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := validMCQ()
			tc.mutate(&q)
			payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

			err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1})
			if err == nil {
				t.Fatalf("expected error for missing %s", tc.name)
			}
		})
	}
}

func TestValidateQuizPayload_WrongChoiceCount(t *testing.T) {
	q := validMCQ()
	q.Choices = q.Choices[:3]
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1})
	if err == nil {
		t.Fatal("expected error for 3 choices")
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(valErr.Reason, "choices") {
		t.Fatalf("unexpected reason: %s", valErr.Reason)
	}
}

func TestValidateQuizPayload_TwoCorrectChoices(t *testing.T) {
	q := validMCQ()
	q.Choices[1].IsCorrect = true
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1}); err == nil {
		t.Fatal("expected error for 2 correct choices")
	}
}

func TestValidateQuizPayload_NoCorrectChoice(t *testing.T) {
	q := validMCQ()
	q.Choices[0].IsCorrect = false
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1}); err == nil {
		t.Fatal("expected error for 0 correct choices")
	}
}

func TestValidateQuizPayload_ScenarioMissingContext(t *testing.T) {
	q := validScenario()
	q.ScenarioContext = ""
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeScenario: 1}); err == nil {
		t.Fatal("expected error for scenario without context")
	}
}

func TestValidateQuizPayload_FreeResponseMissingModelAnswer(t *testing.T) {
	q := validApplication()
	q.ModelAnswer = ""
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeApplication: 1}); err == nil {
		t.Fatal("expected error for application question without model answer")
	}
}

func TestValidateQuizPayload_CountMismatch(t *testing.T) {
	payload := &QuizPayload{Questions: []GeneratedQuestion{validMCQ(), validMCQ()}}

	// Fewer than requested.
	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 3}); err == nil {
		t.Fatal("expected error for too few mcq questions")
	}

	// More than requested.
	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1}); err == nil {
		t.Fatal("expected error for too many mcq questions")
	}

	// Type substitution: scenario requested, mcq delivered.
	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 2, TypeScenario: 1}); err == nil {
		t.Fatal("expected error for missing scenario question")
	}
}

func TestValidateQuizPayload_UnrequestedType(t *testing.T) {
	payload := &QuizPayload{Questions: []GeneratedQuestion{validMCQ(), validScenario()}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1}); err == nil {
		t.Fatal("expected error for unrequested scenario question")
	}
}

func TestValidateQuizPayload_UnknownType(t *testing.T) {
	q := validMCQ()
	q.QuestionType = "essay"
	payload := &QuizPayload{Questions: []GeneratedQuestion{q}}

	if err := ValidateQuizPayload(payload, map[QuestionType]int{TypeMCQ: 1}); err == nil {
		t.Fatal("expected error for unknown question type")
	}
}
