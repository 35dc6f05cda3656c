package handlers

const (
	SessionCookieName = "vocab_session"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrInternalServerError = "Internal server error"
	ErrVocabUnavailable    = "Vocabulary is not available"
)
