package dashboard

// activateDoneMsg is sent when the initial concurrent fetches settle.
type activateDoneMsg struct {
	Err error
}

// pageDoneMsg is sent when an activity page request settles.
type pageDoneMsg struct {
	Err error
}

// renameDoneMsg is sent when a profile rename settles.
type renameDoneMsg struct {
	Err error
}

// passwordDoneMsg is sent when a password change settles.
type passwordDoneMsg struct {
	Err error
}
