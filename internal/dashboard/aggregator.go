package dashboard

import (
	"context"
	"sync"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
)

// Service is the slice of the gateway the dashboard needs.
type Service interface {
	GetDashboardStats(ctx context.Context) (*api.DashboardStats, error)
	GetResponses(ctx context.Context, page int) (*api.ActivityPage, error)
	GetProfile(ctx context.Context) (*api.UserProfile, error)
	UpdateProfile(ctx context.Context, name string) (*api.UserProfile, error)
	ChangePassword(ctx context.Context, current, next string) error
	GetUserDetails(ctx context.Context) (*api.UserDetails, error)
}

// Aggregator owns the dashboard state: summary stats, the paginated
// activity feed, and the user profile. The pieces are fetched
// independently and complete in any order; each writes a disjoint slice
// of state, so a render must tolerate any subset having arrived.
type Aggregator struct {
	service Service

	mu         sync.Mutex
	stats      *api.DashboardStats
	activity   []api.Response
	page       int
	totalPages int
	profile    *api.UserProfile
	details    *api.UserDetails
	errMsg     string
	notice     string

	version int
}

// Snapshot is an immutable copy for rendering.
type Snapshot struct {
	Stats      *api.DashboardStats
	Activity   []api.Response
	Page       int
	TotalPages int
	Profile    *api.UserProfile
	Details    *api.UserDetails
	ErrMsg     string
	Notice     string
}

// New creates an Aggregator. Dashboard state is cleared whenever the
// session becomes unauthenticated.
func New(service Service, session *auth.Session) *Aggregator {
	a := &Aggregator{
		service:    service,
		page:       1,
		totalPages: 1,
	}
	if session != nil {
		session.Subscribe(func(authenticated bool) {
			if !authenticated {
				a.reset()
			}
		})
	}
	return a
}

func (a *Aggregator) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version++
	a.stats = nil
	a.activity = nil
	a.page = 1
	a.totalPages = 1
	a.profile = nil
	a.details = nil
	a.errMsg = ""
	a.notice = ""
}

// Snapshot returns a copy of the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	activity := make([]api.Response, len(a.activity))
	copy(activity, a.activity)

	return Snapshot{
		Stats:      a.stats,
		Activity:   activity,
		Page:       a.page,
		TotalPages: a.totalPages,
		Profile:    a.profile,
		Details:    a.details,
		ErrMsg:     a.errMsg,
		Notice:     a.notice,
	}
}

// LoadStats fetches the summary statistics.
func (a *Aggregator) LoadStats(ctx context.Context) error {
	a.mu.Lock()
	v := a.version
	a.mu.Unlock()

	stats, err := a.service.GetDashboardStats(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version != v {
		return nil
	}
	if err != nil {
		a.errMsg = api.UserMessage(err)
		return err
	}
	a.stats = stats
	return nil
}

// LoadActivity fetches one page of the activity feed and records the
// page count the server reports.
func (a *Aggregator) LoadActivity(ctx context.Context, page int) error {
	a.mu.Lock()
	v := a.version
	a.mu.Unlock()

	ap, err := a.service.GetResponses(ctx, page)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version != v {
		return nil
	}
	if err != nil {
		a.errMsg = api.UserMessage(err)
		return err
	}
	a.activity = ap.Responses
	a.page = page
	a.totalPages = ap.Pages
	return nil
}

// LoadProfile fetches the user profile.
func (a *Aggregator) LoadProfile(ctx context.Context) error {
	a.mu.Lock()
	v := a.version
	a.mu.Unlock()

	p, err := a.service.GetProfile(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version != v || err != nil {
		return err
	}
	a.profile = p
	return nil
}

// LoadDetails fetches the aggregated profile + stats view.
func (a *Aggregator) LoadDetails(ctx context.Context) error {
	a.mu.Lock()
	v := a.version
	a.mu.Unlock()

	d, err := a.service.GetUserDetails(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version != v || err != nil {
		return err
	}
	a.details = d
	return nil
}

// Activate fires the independent initial fetches concurrently and waits
// for all of them. Stats and activity failures surface; profile and
// details are best-effort.
func (a *Aggregator) Activate(ctx context.Context) error {
	var wg sync.WaitGroup
	var statsErr, activityErr error

	wg.Add(4)
	go func() { defer wg.Done(); statsErr = a.LoadStats(ctx) }()
	go func() { defer wg.Done(); activityErr = a.LoadActivity(ctx, 1) }()
	go func() { defer wg.Done(); _ = a.LoadProfile(ctx) }()
	go func() { defer wg.Done(); _ = a.LoadDetails(ctx) }()
	wg.Wait()

	if statsErr != nil {
		return statsErr
	}
	return activityErr
}

// SetPage requests a different activity page. A page outside
// [1, totalPages] never issues a network call and leaves the current
// page unchanged. Stats are not refetched on page change.
func (a *Aggregator) SetPage(ctx context.Context, n int) error {
	a.mu.Lock()
	if n < 1 || n > a.totalPages {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	return a.LoadActivity(ctx, n)
}

// Rename sends a profile update. The local name is replaced only after
// the server confirms; on failure it is left unchanged and the error is
// surfaced.
func (a *Aggregator) Rename(ctx context.Context, newName string) error {
	p, err := a.service.UpdateProfile(ctx, newName)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.errMsg = api.UserMessage(err)
		return err
	}
	a.profile = p
	a.notice = "Name updated successfully"
	return nil
}

// ChangePassword verifies the confirmation locally, then posts the
// change. A mismatch fails with ErrPasswordMismatch before any network
// call; a server rejection message is surfaced verbatim.
func (a *Aggregator) ChangePassword(ctx context.Context, current, next, confirmNext string) error {
	if next != confirmNext {
		a.mu.Lock()
		a.errMsg = api.UserMessage(api.ErrPasswordMismatch)
		a.mu.Unlock()
		return api.ErrPasswordMismatch
	}

	err := a.service.ChangePassword(ctx, current, next)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.errMsg = api.UserMessage(err)
		return err
	}
	a.notice = "Password updated successfully"
	return nil
}
