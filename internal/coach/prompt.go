package coach

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are a technical interviewer preparing candidates for software engineering interviews.

Rules:
- Generate a single open-ended question appropriate for the given role.
- The question should be answerable in a few written paragraphs, not a whiteboard coding exercise.
- Prefer questions that probe understanding over trivia. Ask for trade-offs, failure modes, or design reasoning where it fits.
- Use plain ASCII text. No markdown formatting in the question itself.
- Do not repeat any question from the "already asked" list.`

const evaluateSystemPrompt = `You are a technical interviewer scoring a candidate's written answer.

Rules:
- Score from 0 (no meaningful answer) to 10 (interview-ready, complete and precise).
- Feedback must be specific to this answer: name what was correct, what was missing or wrong, and one concrete way to improve.
- Keep feedback to a short paragraph. Address the candidate directly.
- An empty or off-topic answer scores 0-1. A correct but shallow answer lands mid-range.`

const mcqSystemPrompt = `You are a technical interviewer writing multiple-choice questions for software engineering interview preparation.

Rules:
- Each question has exactly four options keyed A through D, with exactly one correct.
- Distractors should reflect plausible misconceptions, not obviously wrong filler.
- The explanation must say why the correct option is right and briefly why the others are not.
- Use plain ASCII text throughout.`

// roleLabels maps role slugs to the descriptions used in prompts.
var roleLabels = map[string]string{
	"sde":     "Software Development Engineer",
	"ml":      "Machine Learning Engineer",
	"devops":  "DevOps Engineer",
	"frontend": "Frontend Engineer",
	"backend": "Backend Engineer",
	"data":    "Data Engineer",
}

func roleLabel(role string) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return role
}

// buildQuestionMessage constructs the user message for question generation.
func buildQuestionMessage(role string, asked []string, maxAsked int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n", roleLabel(role))
	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(formatRecent(asked, maxAsked))
	return b.String()
}

// buildEvaluateMessage constructs the user message for answer scoring.
func buildEvaluateMessage(role, question, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n\n", roleLabel(role))
	fmt.Fprintf(&b, "Question:\n%s\n\n", question)
	fmt.Fprintf(&b, "Candidate's answer:\n%s\n", answer)
	return b.String()
}

// buildMCQMessage constructs the user message for MCQ generation.
// count == 1 produces a single-item request; topic and difficulty are
// omitted when unconstrained.
func buildMCQMessage(role, topic, difficulty string, count int, asked []string, maxAsked int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n", roleLabel(role))
	if topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", topic)
	} else {
		b.WriteString("Topic: any common interview topic for this role\n")
	}
	if difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)
	}
	if count > 1 {
		fmt.Fprintf(&b, "Number of questions: %d\n", count)
	}
	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(formatRecent(asked, maxAsked))
	return b.String()
}

// formatRecent formats prior questions for the prompt, respecting the
// max limit. Returns "None" when there are no prior questions.
func formatRecent(questions []string, max int) string {
	if len(questions) == 0 {
		return "None"
	}

	// Keep only the most recent N.
	if max > 0 && len(questions) > max {
		questions = questions[len(questions)-max:]
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
