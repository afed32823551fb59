package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/screen"
)

type fakeScreen struct {
	name    string
	initRan bool
}

func (f *fakeScreen) Init() tea.Cmd {
	f.initRan = true
	return nil
}
func (f *fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return f, nil }
func (f *fakeScreen) View(int, int) string                    { return f.name }
func (f *fakeScreen) Title() string                           { return f.name }

func activeName(t *testing.T, r *Router) string {
	t.Helper()
	if r.Active() == nil {
		t.Fatal("router has no active screen")
	}
	return r.Active().Title()
}

func TestPushAndPop(t *testing.T) {
	r := New(&fakeScreen{name: "menu"})

	practice := &fakeScreen{name: "practice"}
	r.Push(practice)

	if !practice.initRan {
		t.Error("Push should run Init on the new screen")
	}
	if r.Depth() != 2 || activeName(t, r) != "practice" {
		t.Fatalf("after push: depth=%d active=%q", r.Depth(), activeName(t, r))
	}

	r.Pop()
	if r.Depth() != 1 || activeName(t, r) != "menu" {
		t.Fatalf("after pop: depth=%d active=%q", r.Depth(), activeName(t, r))
	}

	// The bottom screen never pops.
	r.Pop()
	if r.Depth() != 1 {
		t.Fatalf("bottom screen popped: depth=%d", r.Depth())
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&fakeScreen{name: "menu"})
	r.Push(&fakeScreen{name: "practice"})

	review := &fakeScreen{name: "review"}
	r.Replace(review)

	if r.Depth() != 2 || activeName(t, r) != "review" {
		t.Fatalf("after replace: depth=%d active=%q", r.Depth(), activeName(t, r))
	}
	if !review.initRan {
		t.Error("Replace should run Init on the new screen")
	}
}

func TestNavigationMessages(t *testing.T) {
	r := New(&fakeScreen{name: "menu"})

	r.Update(PushScreenMsg{Screen: &fakeScreen{name: "mcq"}})
	if activeName(t, r) != "mcq" {
		t.Fatalf("active after PushScreenMsg = %q", activeName(t, r))
	}

	r.Update(ReplaceScreenMsg{Screen: &fakeScreen{name: "dashboard"}})
	if r.Depth() != 2 || activeName(t, r) != "dashboard" {
		t.Fatalf("after ReplaceScreenMsg: depth=%d active=%q", r.Depth(), activeName(t, r))
	}

	r.Update(PopScreenMsg{})
	if activeName(t, r) != "menu" {
		t.Fatalf("active after PopScreenMsg = %q", activeName(t, r))
	}
}

func TestResetDropsEverything(t *testing.T) {
	r := New(&fakeScreen{name: "menu"})
	r.Push(&fakeScreen{name: "practice"})
	r.Push(&fakeScreen{name: "review"})

	login := &fakeScreen{name: "login"}
	r.Update(ResetScreenMsg{Screen: login})

	if r.Depth() != 1 || activeName(t, r) != "login" {
		t.Fatalf("after reset: depth=%d active=%q", r.Depth(), activeName(t, r))
	}
	if !login.initRan {
		t.Error("Reset should run Init on the new screen")
	}
}

func TestCommandHelpers(t *testing.T) {
	pushMsg := Push(&fakeScreen{name: "roadmap"})()
	if _, ok := pushMsg.(PushScreenMsg); !ok {
		t.Fatalf("Push helper produced %T", pushMsg)
	}
	popMsg := Pop()()
	if _, ok := popMsg.(PopScreenMsg); !ok {
		t.Fatalf("Pop helper produced %T", popMsg)
	}
}
