package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// NextQuestion fetches the next free-text question for role.
func (c *Client) NextQuestion(ctx context.Context, role string) (*Question, error) {
	var q Question
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/questions?role=" + url.QueryEscape(role),
	}, &q)
	if err != nil {
		return nil, err
	}
	if q.Role == "" {
		q.Role = role
	}
	return &q, nil
}

// EvaluateRequest is the answer-submission payload.
type EvaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Role     string `json:"role"`
}

// Evaluate submits an answer for scoring.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (*Feedback, error) {
	var fb Feedback
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/api/evaluate",
		body:      req,
		needsAuth: true,
	}, &fb)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListMCQs fetches the MCQ collection for role, optionally narrowed by
// topic and difficulty. Empty strings mean no filter.
func (c *Client) ListMCQs(ctx context.Context, role, topic, difficulty string) ([]MCQItem, error) {
	q := url.Values{}
	if topic != "" {
		q.Set("topic", topic)
	}
	if difficulty != "" {
		q.Set("difficulty", difficulty)
	}
	path := "/api/mcq/" + url.PathEscape(role)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var page MCQPage
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &page); err != nil {
		return nil, err
	}
	return page.MCQs, nil
}

// MCQTopics lists the distinct topics available for role.
func (c *Client) MCQTopics(ctx context.Context, role string) ([]string, error) {
	var out struct {
		Topics []string `json:"topics"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/mcq/" + url.PathEscape(role) + "/topics",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Topics, nil
}

// GenerateMCQRequest scopes on-demand generation. Topic and Difficulty
// are omitted when empty.
type GenerateMCQRequest struct {
	Role       string `json:"role"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// GenerateMCQ requests one freshly generated item from the service.
func (c *Client) GenerateMCQ(ctx context.Context, req GenerateMCQRequest) (*MCQItem, error) {
	var item MCQItem
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/mcq/generate",
		body:   req,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CheckMCQ records a selected option with the service and returns its
// verdict.
func (c *Client) CheckMCQ(ctx context.Context, mcqID int64, answer string) (*MCQCheckResult, error) {
	var res MCQCheckResult
	err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      fmt.Sprintf("/api/mcq/check/%d", mcqID),
		body:      map[string]string{"answer": answer},
		needsAuth: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetRoadmap fetches the preparation roadmap for role.
func (c *Client) GetRoadmap(ctx context.Context, role string) (*Roadmap, error) {
	var rm Roadmap
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/roadmap/" + url.PathEscape(role),
	}, &rm)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

// GetDashboardStats fetches the dashboard summary.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/api/dashboard/stats",
		needsAuth: true,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetResponses fetches one page of the activity feed.
func (c *Client) GetResponses(ctx context.Context, page int) (*ActivityPage, error) {
	var ap ActivityPage
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      fmt.Sprintf("/api/dashboard/responses?page=%d", page),
		needsAuth: true,
	}, &ap)
	if err != nil {
		return nil, err
	}
	if ap.Pages < 1 {
		ap.Pages = 1
	}
	return &ap, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*UserProfile, error) {
	var p UserProfile
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/api/user/profile",
		needsAuth: true,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile renames the user and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, name string) (*UserProfile, error) {
	var out struct {
		Message string      `json:"message"`
		User    UserProfile `json:"user"`
	}
	err := c.do(ctx, call{
		method:    http.MethodPut,
		path:      "/api/user/profile",
		body:      map[string]string{"name": name},
		needsAuth: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword posts a password change. A wrong current password comes
// back as a RemoteError carrying the server's message verbatim; it does
// not end the session.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/user/change-password",
		body: map[string]string{
			"currentPassword": current,
			"newPassword":     next,
		},
		needsAuth:   true,
		keepSession: true,
	}, nil)
}

// GetUserDetails fetches the aggregated profile + stats view.
func (c *Client) GetUserDetails(ctx context.Context) (*UserDetails, error) {
	var d UserDetails
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/api/user/details",
		needsAuth: true,
	}, &d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Login exchanges credentials for a bearer token. It does not touch the
// session store; the caller decides what to do with the token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
		// Bad credentials are a 401 on an unauthenticated call; there is
		// no session to invalidate.
		keepSession: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body: map[string]string{
			"name":     name,
			"email":    email,
			"password": password,
		},
	}, nil)
}

// Health pings the service.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodGet, path: "/api/health"}, nil)
}
