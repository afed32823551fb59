package llm

import "testing"

func TestGeminiModelAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // exact IDs pass through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, geminiModels); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":   map[string]any{"type": "string"},
			"score":      map[string]any{"type": "integer"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"question", "score"},
	}

	s := toGeminiSchema(def)

	if s.Type != "OBJECT" {
		t.Fatalf("root type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(s.Properties))
	}
	if s.Properties["question"].Type != "STRING" {
		t.Errorf("question type = %s", s.Properties["question"].Type)
	}
	if s.Properties["score"].Type != "INTEGER" {
		t.Errorf("score type = %s", s.Properties["score"].Type)
	}
	if len(s.Properties["difficulty"].Enum) != 3 {
		t.Errorf("difficulty enum = %d values, want 3", len(s.Properties["difficulty"].Enum))
	}
	if s.Properties["options"].Items.Type != "STRING" {
		t.Errorf("options items type = %s", s.Properties["options"].Items.Type)
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %d fields, want 2", len(s.Required))
	}
}
