package adaptivequiz

import (
	"math"
	"testing"
)

func TestRecordScore_RunningAverage(t *testing.T) {
	history := &QuizPerformanceHistory{
		AverageScore:  80,
		TotalAttempts: 2,
		RecentScores:  []float64{75, 85},
	}

	history.RecordScore(100)

	if history.TotalAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", history.TotalAttempts)
	}
	want := (80.0*2 + 100) / 3
	if math.Abs(history.AverageScore-want) > 1e-9 {
		t.Fatalf("expected average %.6f, got %.6f", want, history.AverageScore)
	}
}

func TestRecordScore_FirstAttempt(t *testing.T) {
	history := &QuizPerformanceHistory{}
	history.RecordScore(60)

	if history.TotalAttempts != 1 || history.AverageScore != 60 {
		t.Fatalf("unexpected history after first attempt: %+v", history)
	}
	if len(history.RecentScores) != 1 || history.RecentScores[0] != 60 {
		t.Fatalf("unexpected window: %v", history.RecentScores)
	}
}

func TestRecordScore_WindowEviction(t *testing.T) {
	history := &QuizPerformanceHistory{}
	for _, score := range []float64{10, 20, 30, 40, 50} {
		history.RecordScore(score)
	}

	history.RecordScore(60)

	want := []float64{20, 30, 40, 50, 60}
	if len(history.RecentScores) != len(want) {
		t.Fatalf("expected window of %d, got %v", len(want), history.RecentScores)
	}
	for i := range want {
		if history.RecentScores[i] != want[i] {
			t.Fatalf("expected window %v, got %v", want, history.RecentScores)
		}
	}
}

func TestQuizSpec_TotalQuestions(t *testing.T) {
	spec := QuizSpec{TypeCounts: map[QuestionType]int{TypeMCQ: 3, TypeScenario: 2, TypeApplication: 1}}
	if got := spec.TotalQuestions(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}

	if got := (QuizSpec{}).TotalQuestions(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestCorrectChoice(t *testing.T) {
	q := validMCQ()
	text, ok := q.CorrectChoice()
	if !ok || text != "Income and expenses" {
		t.Fatalf("unexpected correct choice: %q ok=%v", text, ok)
	}

	free := validApplication()
	if _, ok := free.CorrectChoice(); ok {
		t.Fatal("expected no correct choice on free-response question")
	}
}

func TestReferenceAnswer(t *testing.T) {
	if got := validMCQ(); got.ReferenceAnswer() != "Income and expenses" {
		t.Fatalf("unexpected mcq reference answer: %q", got.ReferenceAnswer())
	}
	if got := validScenario(); got.ReferenceAnswer() != "Pay the highest-rate card first." {
		t.Fatalf("unexpected scenario reference answer: %q", got.ReferenceAnswer())
	}
}
