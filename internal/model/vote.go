package model

// Vote is one participant's submission for one question: an ordered
// ranking of participant ids (most preferred first) and an optional
// free-text comment. Rankings are taken as-is; completeness and
// duplicates are not checked.
type Vote struct {
	Ranking []string
	Comment string
}
