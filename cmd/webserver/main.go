package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"adaptivequiz"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// maxGenerateAttempts bounds the retry loop around quiz generation. The
// library itself never retries; deciding that a malformed model response is
// worth another round-trip is this server's policy.
const maxGenerateAttempts = 3

type Server struct {
	store     *adaptivequiz.Store
	generator *adaptivequiz.QuizGenerator
	grader    *adaptivequiz.Grader
	sessions  *sessions.CookieStore
	log       *logrus.Logger
}

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("VERBOSE") != "" {
		log.SetLevel(logrus.DebugLevel)
		adaptivequiz.SetVerbose(true)
	}
	adaptivequiz.SetLogger(log)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	dbPath := os.Getenv("QUIZ_DB")
	if dbPath == "" {
		dbPath = "./quiz.db"
	}
	store, err := adaptivequiz.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}

	provider := adaptivequiz.NewOpenAIGenerator(apiKey, os.Getenv("OPENAI_MODEL"))

	server := &Server{
		store:     store,
		generator: adaptivequiz.NewQuizGenerator(provider),
		grader:    adaptivequiz.NewGrader(provider),
		sessions:  sessions.NewCookieStore([]byte(sessionSecret)),
		log:       log,
	}

	http.HandleFunc("/quiz/generate", server.handleGenerate)
	http.HandleFunc("/quiz/", server.handleQuiz)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.Infof("Starting server on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// userID returns the stable per-browser user id, assigning one on first
// visit.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.sessions.Get(r, "quiz-session")
	if id, ok := session.Values["user_id"].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	session.Values["user_id"] = id
	if err := session.Save(r, w); err != nil {
		s.log.WithError(err).Warn("Failed to save session")
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type generateRequest struct {
	Content    string                            `json:"content"`
	TypeCounts map[adaptivequiz.QuestionType]int `json:"type_counts"`
	Difficulty adaptivequiz.Difficulty           `json:"difficulty"`
	QuizID     string                            `json:"quiz_id,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	userID := s.userID(w, r)

	// Adaptive difficulty only applies when regenerating a quiz the user has
	// history on.
	var history *adaptivequiz.QuizPerformanceHistory
	if req.QuizID != "" {
		h, err := s.store.GetHistory(userID, req.QuizID)
		if err != nil {
			s.log.WithError(err).Error("Failed to load history")
			writeError(w, http.StatusInternalServerError, "failed to load history")
			return
		}
		history = h
	}

	spec := adaptivequiz.QuizSpec{
		Content:    req.Content,
		TypeCounts: req.TypeCounts,
		Difficulty: req.Difficulty,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	quiz, err := s.generateWithRetry(ctx, spec, history)
	if err != nil {
		s.log.WithError(err).Error("Quiz generation failed")
		writeError(w, http.StatusBadGateway, "quiz generation failed")
		return
	}

	if err := s.store.SaveQuiz(quiz); err != nil {
		s.log.WithError(err).Error("Failed to save quiz")
		writeError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

// generateWithRetry retries generation when the model returned unusable
// output. Provider-call failures are not retried: the provider is either
// down or misconfigured, and hammering it won't help.
func (s *Server) generateWithRetry(ctx context.Context, spec adaptivequiz.QuizSpec, history *adaptivequiz.QuizPerformanceHistory) (*adaptivequiz.GeneratedQuiz, error) {
	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		quiz, err := s.generator.Generate(ctx, spec, history)
		if err == nil {
			return quiz, nil
		}
		lastErr = err

		var failure *adaptivequiz.GenerationFailure
		if !errors.As(err, &failure) || failure.Stage == adaptivequiz.StageProvider {
			return nil, err
		}
		s.log.WithError(err).Warnf("Generation attempt %d/%d failed, retrying", attempt, maxGenerateAttempts)
	}
	return nil, lastErr
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/quiz/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	quizID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.handleGetQuiz(w, r, quizID)
	case len(parts) == 2 && parts[1] == "submit" && r.Method == http.MethodPost:
		s.handleSubmit(w, r, quizID)
	case len(parts) == 2 && parts[1] == "history" && r.Method == http.MethodGet:
		s.handleHistory(w, r, quizID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request, quizID string) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type submitRequest struct {
	Answers []adaptivequiz.Answer `json:"answers"`
}

type submitResponse struct {
	Result  *adaptivequiz.GradeResult            `json:"result"`
	History *adaptivequiz.QuizPerformanceHistory `json:"history"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, quizID string) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}

	userID := s.userID(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	result, err := s.grader.Grade(ctx, quiz, req.Answers)
	if err != nil {
		if errors.Is(err, adaptivequiz.ErrEmptyQuiz) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.WithError(err).Error("Grading failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := s.store.RecordAttempt(userID, quiz, result)
	if err != nil {
		s.log.WithError(err).Error("Failed to record attempt")
		writeError(w, http.StatusInternalServerError, "failed to record attempt")
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{Result: result, History: history})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, quizID string) {
	userID := s.userID(w, r)

	history, err := s.store.GetHistory(userID, quizID)
	if err != nil {
		s.log.WithError(err).Error("Failed to load history")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if history == nil {
		writeError(w, http.StatusNotFound, "no history for this quiz")
		return
	}
	writeJSON(w, http.StatusOK, history)
}
