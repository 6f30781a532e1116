package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"adaptivequiz"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		contentFile = flag.String("content", "", "File containing the source content to quiz on (required)")
		mcq         = flag.Int("mcq", 5, "Number of multiple choice questions")
		scenario    = flag.Int("scenario", 0, "Number of scenario questions")
		application = flag.Int("application", 0, "Number of application questions")
		reflection  = flag.Int("reflection", 0, "Number of reflection questions")
		discussion  = flag.Int("discussion", 0, "Number of discussion questions")
		difficulty  = flag.String("difficulty", "intermediate", "Difficulty level (beginner, intermediate, advanced)")
		outputFile  = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey      = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		logDir      = flag.String("log-dir", "", "Directory for generation transcripts (disabled when empty)")
		playMode    = flag.Bool("play", false, "Answer the quiz interactively after generating it")
		verbose     = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	godotenv.Load()
	adaptivequiz.SetVerbose(*verbose)
	log := logrus.StandardLogger()

	if *contentFile == "" {
		log.Fatal("Content file is required. Use -content flag.")
	}
	content, err := os.ReadFile(*contentFile)
	if err != nil {
		log.Fatalf("Failed to read content file: %v", err)
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	spec := adaptivequiz.QuizSpec{
		Content: string(content),
		TypeCounts: map[adaptivequiz.QuestionType]int{
			adaptivequiz.TypeMCQ:         *mcq,
			adaptivequiz.TypeScenario:    *scenario,
			adaptivequiz.TypeApplication: *application,
			adaptivequiz.TypeReflection:  *reflection,
			adaptivequiz.TypeDiscussion:  *discussion,
		},
		Difficulty: adaptivequiz.Difficulty(*difficulty),
	}
	if spec.TotalQuestions() == 0 {
		log.Fatal("At least one question must be requested.")
	}

	provider := adaptivequiz.NewOpenAIGenerator(*apiKey, os.Getenv("OPENAI_MODEL"))
	generator := adaptivequiz.NewQuizGenerator(provider)

	if *logDir != "" {
		transcript, err := adaptivequiz.NewTranscriptLogger(*logDir, fmt.Sprintf("quizgen-%d", time.Now().Unix()), spec)
		if err != nil {
			log.Fatalf("Failed to create transcript: %v", err)
		}
		defer transcript.Close()
		generator.WithTranscript(transcript)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	quiz, err := generator.Generate(ctx, spec, nil)
	if err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}

	if *playMode {
		playQuiz(quiz)
		return
	}

	output, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Infof("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

// playQuiz walks through the quiz on the terminal. MCQ answers are graded
// locally against the correct choice; free-response questions show the model
// answer afterwards instead of being scored.
func playQuiz(quiz *adaptivequiz.GeneratedQuiz) {
	fmt.Printf("Quiz %s (%s) - %d questions\n\n", quiz.ID, quiz.Difficulty, len(quiz.Questions))

	scanner := bufio.NewScanner(os.Stdin)
	correct := 0
	scored := 0

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		fmt.Printf("Question %d (%s):\n", i+1, q.QuestionType)
		if q.ScenarioContext != "" {
			fmt.Printf("Scenario: %s\n", q.ScenarioContext)
		}
		fmt.Printf("%s\n", q.QuestionText)

		if q.QuestionType == adaptivequiz.TypeMCQ {
			for j, choice := range q.Choices {
				fmt.Printf("  %c) %s\n", 'A'+j, choice.ChoiceText)
			}
			fmt.Print("Your answer (A-D): ")
			if !scanner.Scan() {
				return
			}
			answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			scored++

			idx := -1
			if len(answer) == 1 {
				idx = int(answer[0] - 'A')
			}
			if idx >= 0 && idx < len(q.Choices) && q.Choices[idx].IsCorrect {
				correct++
				fmt.Println("Correct!")
			} else {
				correctText, _ := q.CorrectChoice()
				fmt.Printf("Incorrect. The correct answer was: %s\n", correctText)
			}
		} else {
			fmt.Print("Your answer: ")
			if !scanner.Scan() {
				return
			}
			fmt.Printf("Model answer: %s\n", q.ModelAnswer)
		}

		fmt.Printf("Explanation: %s\n\n", q.Explanation)
	}

	if scored > 0 {
		fmt.Printf("Final score: %d/%d multiple choice correct\n", correct, scored)
	}
}
