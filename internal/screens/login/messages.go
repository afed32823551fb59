package login

import "github.com/prepdeck/prepdeck/internal/api"

// loginDoneMsg is sent when a login attempt completes.
type loginDoneMsg struct {
	Result *api.LoginResult
	Err    error
}

// signupDoneMsg is sent when an account creation attempt completes.
type signupDoneMsg struct {
	Err error
}

// SuccessMsg is emitted after a successful login, once the token is
// stored. The app model swaps in the main menu when it sees this.
type SuccessMsg struct {
	Name string
}
