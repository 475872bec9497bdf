package model

// Participant is one connected player. ID is the websocket connection id
// and does not survive a reconnect.
type Participant struct {
	ID       string
	Pseudo   string
	Progress int
}

// PlayerStatus is the per-participant progress snapshot broadcast after
// every accepted vote.
type PlayerStatus struct {
	ID         string
	Pseudo     string
	Progress   int
	IsFinished bool
}
