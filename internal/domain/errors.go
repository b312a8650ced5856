package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrSessionNotFound         = errors.New("session_not_found")
	ErrUnknownSymbol           = errors.New("unknown_symbol")
	ErrInsufficientFunds       = errors.New("insufficient_funds")
	ErrInsufficientShares      = errors.New("insufficient_shares")
	ErrNoSuchHolding           = errors.New("no_such_holding")
	ErrIncompleteQuestionnaire = errors.New("incomplete_questionnaire")
	ErrQuestionnaireComplete   = errors.New("questionnaire_complete")
	ErrModuleNotFound          = errors.New("module_not_found")
	ErrGenerationFailed        = errors.New("generation_failed")
	ErrSynthesisFailed         = errors.New("synthesis_failed")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
