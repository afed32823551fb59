package practice

// questionDoneMsg is sent when a question fetch settles, success or not.
// The screen re-reads the controller snapshot either way.
type questionDoneMsg struct {
	Err error
}

// evaluateDoneMsg is sent when an answer evaluation settles.
type evaluateDoneMsg struct {
	Err error
}
