package coach

import "github.com/prepdeck/prepdeck/internal/llm"

// questionSchema defines the JSON shape for generated interview questions.
var questionSchema = &llm.Schema{
	Name:        "interview-question",
	Description: "A single open-ended technical interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question prompt, self-contained and answerable in a few paragraphs",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The subject area the question covers, e.g. Operating Systems",
			},
		},
		"required":             []any{"question", "topic"},
		"additionalProperties": false,
	},
}

// feedbackSchema defines the JSON shape for answer evaluations.
var feedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Scored feedback on a candidate's answer to an interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Specific, constructive feedback: what was right, what was missing, how to improve",
			},
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     10,
				"description": "Overall score from 0 (no answer) to 10 (interview-ready)",
			},
		},
		"required":             []any{"feedback", "score"},
		"additionalProperties": false,
	},
}

// mcqSchema defines the JSON shape for a generated multiple-choice question.
var mcqSchema = &llm.Schema{
	Name:        "interview-mcq",
	Description: "A four-option multiple-choice question for interview preparation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question stem",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "The subject area the question covers",
			},
			"options": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"A": map[string]any{"type": "string"},
					"B": map[string]any{"type": "string"},
					"C": map[string]any{"type": "string"},
					"D": map[string]any{"type": "string"},
				},
				"required":             []any{"A", "B", "C", "D"},
				"additionalProperties": false,
				"description":          "Exactly four options keyed A through D, exactly one correct",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"enum":        []any{"A", "B", "C", "D"},
				"description": "The key of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is right and the distractors are wrong",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"easy", "medium", "hard"},
				"description": "Difficulty of the question",
			},
		},
		"required":             []any{"question", "topic", "options", "correct_answer", "explanation", "difficulty"},
		"additionalProperties": false,
	},
}

// mcqBatchSchema wraps mcqSchema for list generation.
var mcqBatchSchema = &llm.Schema{
	Name:        "interview-mcq-batch",
	Description: "A batch of multiple-choice questions for interview preparation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mcqs": map[string]any{
				"type":        "array",
				"items":       mcqSchema.Definition,
				"description": "The generated questions, each on a distinct aspect of the topic",
			},
		},
		"required":             []any{"mcqs"},
		"additionalProperties": false,
	},
}
