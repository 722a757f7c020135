package conversations

import "errors"

var (
	ErrNotFound           = errors.New("conversation not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionNotMet = errors.New("lifecycle precondition not met")
)
