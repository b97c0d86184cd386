// Package answer holds the clients for the external answering model. The
// rest of the system treats answering as an opaque call that takes a question
// plus assembled document context and returns prose.
package answer

import "context"

// Client produces a natural-language answer from a question and the
// assembled document context.
type Client interface {
	// Answer may fail with network, auth or rate-limit errors. Transient
	// failures are reported as *RetryableError.
	Answer(ctx context.Context, question, docContext string) (string, error)
	// Model identifies the underlying model, for stats reporting.
	Model() string
}
