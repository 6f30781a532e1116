package adaptivequiz

import (
	"fmt"
	"strings"
)

// typeDescriptions gives the model type-specific guidance for each requested
// question type.
var typeDescriptions = map[QuestionType]string{
	TypeMCQ:         "standard multiple choice questions testing knowledge recall",
	TypeScenario:    "scenario-based questions that present a situation and ask for analysis",
	TypeApplication: "questions that test application of concepts to real-world situations",
	TypeReflection:  "questions that encourage reflection on personal experiences",
	TypeDiscussion:  "open-ended questions that promote discussion and critical thinking",
}

// BuildQuizPrompt renders the generation prompt for the given source
// content, type/count mix, and difficulty. Pure function of its inputs; the
// requested types are enumerated in a fixed order so identical specs produce
// identical prompts.
func BuildQuizPrompt(content string, typeCounts map[QuestionType]int, difficulty Difficulty) string {
	var sb strings.Builder

	sb.WriteString("Generate a quiz based on this content. Format your response as a valid JSON object.\n\n")

	sb.WriteString("Content to quiz on:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")

	sb.WriteString("Question Types Required:\n")
	var requirements []string
	for _, qtype := range questionTypeOrder {
		if count := typeCounts[qtype]; count > 0 {
			requirements = append(requirements, fmt.Sprintf("%d %s", count, typeDescriptions[qtype]))
		}
	}
	sb.WriteString(strings.Join(requirements, ", "))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Difficulty Level: %s\n\n", difficulty))

	sb.WriteString("Rules:\n")
	sb.WriteString("1. Generate questions according to the specified types and counts\n")
	sb.WriteString("2. Each question must have:\n")
	sb.WriteString("   - Clear question text\n")
	sb.WriteString("   - For MCQs: Exactly 4 multiple choice options with exactly one correct answer\n")
	sb.WriteString("   - For other types: A model answer or evaluation criteria\n")
	sb.WriteString("   - A clear explanation of the correct answer or key points\n")
	sb.WriteString("   - Difficulty level matching the specified level\n")
	sb.WriteString("3. For scenario-based questions: include detailed scenario context relevant to real-world applications\n")
	sb.WriteString("4. For application questions: focus on practical applications with real-world examples\n")
	sb.WriteString("5. For reflective questions: encourage personal insight and connect concepts to experience\n")
	sb.WriteString("6. For discussion questions: promote critical thinking and allow multiple valid perspectives\n\n")

	sb.WriteString("Return ONLY a JSON object in this exact format:\n")
	sb.WriteString(`{
  "questions": [
    {
      "question_text": "Question goes here?",
      "question_type": "mcq|scenario|application|reflection|discussion",
      "difficulty_level": "` + string(difficulty) + `",
      "scenario_context": "For scenario-based questions only",
      "choices": [
        {"choice_text": "Correct answer", "is_correct": true},
        {"choice_text": "Wrong answer 1", "is_correct": false},
        {"choice_text": "Wrong answer 2", "is_correct": false},
        {"choice_text": "Wrong answer 3", "is_correct": false}
      ],
      "model_answer": "For non-MCQ questions, provide a model answer or evaluation criteria",
      "explanation": "Explanation of the correct answer or key points"
    }
  ]
}`)
	sb.WriteString("\n\nIMPORTANT: Return ONLY the JSON object, no other text.\n")

	return sb.String()
}

// BuildFeedbackPrompt renders the per-answer feedback prompt. The context
// argument carries scenario context when the question has one and may be
// empty. Pure function of its inputs.
func BuildFeedbackPrompt(userAnswer, correctAnswer string, qtype QuestionType, context string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this answer and provide constructive feedback.\n\n")
	sb.WriteString(fmt.Sprintf("Question Type: %s\n", qtype))
	if context != "" {
		sb.WriteString(fmt.Sprintf("Context: %s\n", context))
	}
	sb.WriteString(fmt.Sprintf("Correct Answer: %s\n", correctAnswer))
	sb.WriteString(fmt.Sprintf("User's Answer: %s\n\n", userAnswer))

	sb.WriteString("Provide feedback that:\n")
	sb.WriteString("1. Acknowledges what the user did well\n")
	sb.WriteString("2. Identifies areas for improvement\n")
	sb.WriteString("3. Explains key concepts they might have missed\n")
	sb.WriteString("4. Offers specific suggestions for improvement\n\n")

	sb.WriteString("Format your response as a JSON object with these fields:\n")
	sb.WriteString(`{
  "strengths": "What the user did well",
  "areas_for_improvement": "What could be better",
  "key_concepts": "Important concepts to remember",
  "suggestions": "Specific tips for improvement",
  "score": 0.0
}`)
	sb.WriteString("\n\nThe score field must be a number between 0 and 1 rating how well the user's answer matches the correct answer.\n")
	sb.WriteString("Return ONLY the JSON object, no other text.\n")

	return sb.String()
}
