package adaptivequiz

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists generated quizzes, graded attempts, and per (user, quiz)
// performance history in sqlite. History updates are read-modify-write, so
// RecordAttempt runs inside a transaction; concurrent grades for the same
// (user, quiz) pair serialize on it.
type Store struct {
	db *sql.DB
}

// Attempt is one recorded grading outcome.
type Attempt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuizID         string    `json:"quiz_id"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Feedback       string    `json:"feedback"` // JSON array of FeedbackEntry
	CreatedAt      time.Time `json:"created_at"`
}

// OpenStore opens (or creates) the sqlite database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the schema if it does not exist.
func (s *Store) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			difficulty TEXT NOT NULL,
			questions TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			score REAL NOT NULL,
			correct_answers INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			feedback TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_history (
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			average_score REAL NOT NULL DEFAULT 0,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			last_difficulty TEXT NOT NULL DEFAULT 'intermediate',
			recent_scores TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, quiz_id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveQuiz persists a generated quiz, questions serialized as JSON.
func (s *Store) SaveQuiz(quiz *GeneratedQuiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO quizzes (id, difficulty, questions, created_at) VALUES (?, ?, ?, ?)",
		quiz.ID, string(quiz.Difficulty), string(questions), quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// GetQuiz retrieves a stored quiz by ID.
func (s *Store) GetQuiz(id string) (*GeneratedQuiz, error) {
	var (
		quiz       GeneratedQuiz
		difficulty string
		questions  string
	)
	err := s.db.QueryRow(
		"SELECT id, difficulty, questions, created_at FROM quizzes WHERE id = ?", id,
	).Scan(&quiz.ID, &difficulty, &questions, &quiz.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quiz not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	quiz.Difficulty = Difficulty(difficulty)
	if err := json.Unmarshal([]byte(questions), &quiz.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return &quiz, nil
}

// GetHistory retrieves the performance history for a (user, quiz) pair, or
// nil if the user has no recorded attempts yet.
func (s *Store) GetHistory(userID, quizID string) (*QuizPerformanceHistory, error) {
	var (
		history        QuizPerformanceHistory
		lastDifficulty string
		recentScores   string
	)
	err := s.db.QueryRow(
		`SELECT user_id, quiz_id, average_score, total_attempts, last_difficulty, recent_scores
		 FROM quiz_history WHERE user_id = ? AND quiz_id = ?`,
		userID, quizID,
	).Scan(&history.UserID, &history.QuizID, &history.AverageScore,
		&history.TotalAttempts, &lastDifficulty, &recentScores)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	history.LastDifficulty = Difficulty(lastDifficulty)
	if err := json.Unmarshal([]byte(recentScores), &history.RecentScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recent scores: %w", err)
	}
	return &history, nil
}

// RecordAttempt stores a graded attempt and folds its score into the user's
// performance history in one transaction. Returns the updated history.
func (s *Store) RecordAttempt(userID string, quiz *GeneratedQuiz, result *GradeResult) (*QuizPerformanceHistory, error) {
	feedback, err := json.Marshal(result.Feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO attempts (id, user_id, quiz_id, score, correct_answers, total_questions, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, quiz.ID, result.Score, result.CorrectAnswers,
		result.TotalQuestions, string(feedback), time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert attempt: %w", err)
	}

	history := &QuizPerformanceHistory{UserID: userID, QuizID: quiz.ID}
	var (
		lastDifficulty string
		recentScores   string
	)
	err = tx.QueryRow(
		`SELECT average_score, total_attempts, last_difficulty, recent_scores
		 FROM quiz_history WHERE user_id = ? AND quiz_id = ?`,
		userID, quiz.ID,
	).Scan(&history.AverageScore, &history.TotalAttempts, &lastDifficulty, &recentScores)
	switch {
	case err == sql.ErrNoRows:
		// First attempt for this pair.
	case err != nil:
		return nil, fmt.Errorf("failed to read history: %w", err)
	default:
		history.LastDifficulty = Difficulty(lastDifficulty)
		if err := json.Unmarshal([]byte(recentScores), &history.RecentScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recent scores: %w", err)
		}
	}

	history.RecordScore(result.Score)
	history.LastDifficulty = quiz.Difficulty

	scores, err := json.Marshal(history.RecentScores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recent scores: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO quiz_history (user_id, quiz_id, average_score, total_attempts, last_difficulty, recent_scores, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, quiz_id) DO UPDATE SET
			average_score = excluded.average_score,
			total_attempts = excluded.total_attempts,
			last_difficulty = excluded.last_difficulty,
			recent_scores = excluded.recent_scores,
			updated_at = excluded.updated_at`,
		userID, quiz.ID, history.AverageScore, history.TotalAttempts,
		string(history.LastDifficulty), string(scores), time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit attempt: %w", err)
	}
	return history, nil
}

// GetAttempts retrieves a user's attempts for a quiz, most recent first.
func (s *Store) GetAttempts(userID, quizID string) ([]Attempt, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, quiz_id, score, correct_answers, total_questions, feedback, created_at
		 FROM attempts WHERE user_id = ? AND quiz_id = ? ORDER BY created_at DESC`,
		userID, quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.CorrectAnswers,
			&a.TotalQuestions, &a.Feedback, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}
	return attempts, nil
}
