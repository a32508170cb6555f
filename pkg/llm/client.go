package llm

import (
	"context"
	"errors"
)

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation sent to a completion backend.
type Message struct {
	Role    Role
	Content string
}

// Params selects the request shape for a completion call.
//
// The standard shape carries sampling controls; the reduced shape carries
// none, for backends that reject them (reasoning-style deployments). JSON
// asks the backend for a JSON object response where supported.
type Params struct {
	Temperature float64
	MaxTokens   int
	JSON        bool
	Reduced     bool
}

// CompletionClient is the port to a text-generation service. Implementations
// must surface parameter rejection as a ClassifiedError with
// ClassUnsupportedParams so callers can retry with the reduced shape.
type CompletionClient interface {
	// Complete issues one chat completion against the given model/deployment.
	Complete(ctx context.Context, model string, messages []Message, params Params) (string, error)
	// Name returns the client name for logging and diagnostics.
	Name() string
}

// ErrorClass is the typed classification of a completion failure. Providers
// classify at the port boundary; callers never inspect error text.
type ErrorClass int

const (
	// ClassFatal covers failures where retrying the same model is pointless.
	ClassFatal ErrorClass = iota
	// ClassTransient covers rate limits and service hiccups.
	ClassTransient
	// ClassUnsupportedParams indicates the deployment rejected the standard
	// request shape and may accept the reduced one.
	ClassUnsupportedParams
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassUnsupportedParams:
		return "unsupported_params"
	default:
		return "fatal"
	}
}

// ClassifiedError attaches an ErrorClass to a provider failure.
type ClassifiedError struct {
	Class ErrorClass
	Err   error
}

func (e ClassifiedError) Error() string {
	if e.Err == nil {
		return e.Class.String()
	}
	return e.Err.Error()
}

func (e ClassifiedError) Unwrap() error { return e.Err }

// Classify extracts the error class, defaulting to fatal for plain errors.
func Classify(err error) ErrorClass {
	var ce ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	return ClassFatal
}
