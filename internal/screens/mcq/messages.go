package mcq

// listDoneMsg is sent when a collection load or filter reload settles.
type listDoneMsg struct {
	Err error
}

// generateDoneMsg is sent when an on-demand generation settles.
type generateDoneMsg struct {
	Err error
}
