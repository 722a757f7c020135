package evaluation

import "errors"

// ErrUnavailable indicates the model provider failed or returned a payload
// that does not satisfy the expected schema. Callers map it to 502.
var ErrUnavailable = errors.New("evaluation unavailable")
