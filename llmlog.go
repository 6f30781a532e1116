package adaptivequiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLogger writes a per-generation file transcript of every prompt
// sent to a provider and every raw response, plus the validation outcome.
// Useful when diagnosing why a model keeps failing the schema contract.
type TranscriptLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewTranscriptLogger creates a transcript file for one generation run under
// dir, named after the quiz ID.
func NewTranscriptLogger(dir, quizID string, spec QuizSpec) (*TranscriptLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}

	file, err := os.Create(filepath.Join(dir, fmt.Sprintf("%s.log", quizID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	tl := &TranscriptLogger{file: file}
	tl.Logf("=== Quiz Generation Transcript ===\n")
	tl.Logf("Quiz ID: %s\n", quizID)
	tl.Logf("Difficulty: %s\n", spec.Difficulty)
	tl.Logf("Content Length: %d characters\n", len(spec.Content))
	for _, qtype := range questionTypeOrder {
		if count := spec.TypeCounts[qtype]; count > 0 {
			tl.Logf("Requested: %d %s\n", count, qtype)
		}
	}
	tl.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	tl.Logf("==================================\n\n")
	return tl, nil
}

// Logf writes one timestamped entry.
func (tl *TranscriptLogger) Logf(format string, args ...interface{}) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(tl.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	tl.file.Sync()
}

// LogRequest records a prompt sent to a provider.
func (tl *TranscriptLogger) LogRequest(stage, prompt string) {
	tl.Logf("=== REQUEST (%s) ===\n", stage)
	tl.Logf("Prompt:\n%s\n", prompt)
	tl.Logf("====================\n\n")
}

// LogResponse records a raw provider response.
func (tl *TranscriptLogger) LogResponse(stage, response string) {
	tl.Logf("=== RESPONSE (%s) ===\n", stage)
	tl.Logf("Response:\n%s\n", response)
	tl.Logf("=====================\n\n")
}

// LogOutcome records the final outcome of a pipeline stage.
func (tl *TranscriptLogger) LogOutcome(stage string, err error) {
	if err != nil {
		tl.Logf("Stage %s: FAILED - %v\n", stage, err)
	} else {
		tl.Logf("Stage %s: ok\n", stage)
	}
}

// Close finalizes and closes the transcript file.
func (tl *TranscriptLogger) Close() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(tl.file, "[%s] === Transcript Complete: %s ===\n", timestamp, time.Now().Format(time.RFC3339))
	err := tl.file.Close()
	tl.file = nil
	return err
}
