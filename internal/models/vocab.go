package models

// VocabEntry is a single vocabulary item
type VocabEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Sentence   string `json:"sentence"`
}

// VocabList is the loaded vocabulary set with its display title
type VocabList struct {
	Title   string
	Entries []VocabEntry
}

// VocabStatus describes the outcome of the most recent vocabulary load
type VocabStatus string

const (
	// VocabStatusLoaded means the list loaded and has at least one entry
	VocabStatusLoaded VocabStatus = "loaded"
	// VocabStatusEmpty means the list loaded successfully but has no entries
	VocabStatusEmpty VocabStatus = "empty"
	// VocabStatusError means the source was unreachable or malformed
	VocabStatusError VocabStatus = "error"
)
