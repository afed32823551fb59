package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prepdeck/prepdeck/internal/auth"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *auth.Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := auth.NewSession()
	return NewClient(server.URL, session), session
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	hits := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	_, err := client.GetDashboardStats(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if hits != 0 {
		t.Fatalf("request reached the network %d times, want 0", hits)
	}
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DashboardStats{})
	})
	session.Login("tok-abc")

	if _, err := client.GetDashboardStats(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("Authorization = %q, want Bearer tok-abc", gotAuth)
	}
}

func TestNoBearerOnPublicCall(t *testing.T) {
	var gotAuth string
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Question{ID: "1", Text: "q", Role: "sde"})
	})
	session.Login("tok-abc")

	if _, err := client.NextQuestion(context.Background(), "sde"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("public call sent Authorization = %q, want none", gotAuth)
	}
}

func TestAuthRejectionForcesLogout(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"message": "The token has expired"})
		})
		session.Login("stale")

		_, err := client.GetDashboardStats(context.Background())
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("status %d: err = %v, want ErrUnauthenticated", status, err)
		}
		if session.Authenticated() {
			t.Fatalf("status %d: session still authenticated after rejection", status)
		}
	}
}

func TestRemoteErrorCarriesMessage(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Roadmap not found"})
	})
	_ = session

	_, err := client.GetRoadmap(context.Background(), "sde")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %T (%v), want *RemoteError", err, err)
	}
	if remote.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", remote.Status)
	}
	if remote.Message != "Roadmap not found" {
		t.Errorf("Message = %q, want server text verbatim", remote.Message)
	}
}

func TestUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // nothing listening

	client := NewClient(server.URL, auth.NewSession())
	_, err := client.NextQuestion(context.Background(), "sde")

	var unreach *UnreachableError
	if !errors.As(err, &unreach) {
		t.Fatalf("err = %T (%v), want *UnreachableError", err, err)
	}
}

func TestChangePasswordRejectionKeepsSession(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Current password is incorrect"})
	})
	session.Login("tok")

	err := client.ChangePassword(context.Background(), "wrong", "new123")
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %T (%v), want *RemoteError", err, err)
	}
	if remote.Message != "Current password is incorrect" {
		t.Errorf("Message = %q, want server text verbatim", remote.Message)
	}
	if !session.Authenticated() {
		t.Fatal("wrong current password must not end the session")
	}
}

func TestLoginDoesNotTouchSession(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResult{Token: "fresh", User: UserProfile{ID: 7, Name: "Dana"}})
	})

	res, err := client.Login(context.Background(), "dana@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "fresh" {
		t.Errorf("Token = %q, want fresh", res.Token)
	}
	if session.Authenticated() {
		t.Error("Login endpoint must not mutate the session store")
	}
}

func TestInterceptorsObserveCall(t *testing.T) {
	session := auth.NewSession()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	}))
	t.Cleanup(server.Close)

	var before RequestInfo
	var after ResponseInfo
	client := NewClient(server.URL, session, WithInterceptor(InterceptorFuncs{
		Before: func(info RequestInfo) { before = info },
		After:  func(info ResponseInfo) { after = info },
	}))

	_, _ = client.NextQuestion(context.Background(), "sde")

	if before.ID == "" || before.ID != after.Request.ID {
		t.Fatalf("hook correlation broken: before ID %q, after ID %q", before.ID, after.Request.ID)
	}
	if before.Method != http.MethodGet || before.Path != "/api/questions?role=sde" {
		t.Errorf("before = %+v", before)
	}
	if after.Status != http.StatusTeapot {
		t.Errorf("after.Status = %d, want 418", after.Status)
	}
	var remote *RemoteError
	if !errors.As(after.Err, &remote) {
		t.Errorf("after.Err = %T, want *RemoteError", after.Err)
	}
}

func TestListMCQsQueryAssembly(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		json.NewEncoder(w).Encode(MCQPage{})
	})

	if _, err := client.ListMCQs(context.Background(), "sde", "Data Structures", "medium"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/mcq/sde?difficulty=medium&topic=Data+Structures" {
		t.Errorf("path = %q", gotPath)
	}

	if _, err := client.ListMCQs(context.Background(), "sde", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/mcq/sde" {
		t.Errorf("unfiltered path = %q, want no query string", gotPath)
	}
}
