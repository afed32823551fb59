package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexID tolerates the service emitting identifiers as either JSON
// numbers or strings, which the question endpoints do interchangeably.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

// Question is a free-text interview question. Immutable once fetched; the
// next fetch supersedes it rather than mutating it.
type Question struct {
	ID   FlexID `json:"id"`
	Text string `json:"question"`
	Role string `json:"role"`
}

// Feedback is the evaluation of one submitted answer.
type Feedback struct {
	Text  string   `json:"feedback"`
	Score *float64 `json:"score,omitempty"`
}

// Difficulty levels accepted by the MCQ endpoints.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// MCQOption is a single answer option with its stable key ("A", "B", ...).
type MCQOption struct {
	Key  string
	Text string
}

// OptionList preserves the wire object's insertion order, which is the
// display order. Go maps would shuffle it.
type OptionList []MCQOption

func (l *OptionList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	out := (*l)[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options[%s]: %w", key, err)
		}
		out = append(out, MCQOption{Key: key, Text: text})
	}
	*l = out
	return nil
}

func (l OptionList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Text returns the option text for key, or "" when absent.
func (l OptionList) Text(key string) (string, bool) {
	for _, opt := range l {
		if opt.Key == key {
			return opt.Text, true
		}
	}
	return "", false
}

// MCQItem is one multiple-choice question.
type MCQItem struct {
	ID            int64      `json:"id"`
	Topic         string     `json:"topic"`
	Question      string     `json:"question"`
	Options       OptionList `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    string     `json:"difficulty"`
}

// MCQPage is the list endpoint's envelope.
type MCQPage struct {
	MCQs        []MCQItem `json:"mcqs"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
}

// MCQCheckResult is the server's verdict on a selected option.
type MCQCheckResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// RoleStat counts responses for one role.
type RoleStat struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// ActivityItem is one entry of the dashboard's recent-activity strip.
type ActivityItem struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// DashboardStats is the summary fetched wholesale on dashboard mount.
type DashboardStats struct {
	TotalResponses int            `json:"total_responses"`
	RoleStats      []RoleStat     `json:"role_stats"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// Response is one evaluated answer in the activity feed.
type Response struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Feedback  string `json:"feedback"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// ActivityPage is one page of the paginated activity feed.
type ActivityPage struct {
	Responses   []Response `json:"responses"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}

// UserProfile is the authenticated user's account record. Name is the
// only client-mutable field.
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDetails aggregates profile and practice stats in one call.
type UserDetails struct {
	User struct {
		ID         int64   `json:"id"`
		Name       string  `json:"name"`
		Email      string  `json:"email"`
		JoinedDate *string `json:"joined_date"`
	} `json:"user"`
	Stats struct {
		TotalResponses int        `json:"total_responses"`
		RolesPracticed []RoleStat `json:"roles_practiced"`
		LatestPractice *string    `json:"latest_practice"`
		RecentResponses []struct {
			Question  string `json:"question"`
			Role      string `json:"role"`
			CreatedAt string `json:"created_at"`
		} `json:"recent_responses"`
	} `json:"stats"`
}

// RoadmapTopic is one section of a role's learning roadmap.
type RoadmapTopic struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// RoadmapResources lists curated learning material for a role.
type RoadmapResources struct {
	Books             []string `json:"books"`
	OnlineCourses     []string `json:"online_courses"`
	PracticePlatforms []string `json:"practice_platforms"`
}

// Roadmap is the full preparation roadmap for a role.
type Roadmap struct {
	ID          int64                   `json:"id"`
	Role        string                  `json:"role"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Topics      map[string]RoadmapTopic `json:"topics"`
	Resources   RoadmapResources        `json:"resources"`
}

// LoginResult is the login endpoint's response.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}
