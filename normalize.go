package shopmcp

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// operation is a domain operation whose failures have not yet been normalized.
type operation func(ctx context.Context) (any, error)

// guard is the outward error boundary, wrapped around every tool and
// resource operation. It runs op and converts any error — validation,
// business-rule rejection, or store fault — into a *Failure value, so every
// call returns a value and nothing propagates past this layer. Soft failures
// are ordinary op return values and pass through untouched.
func (s *ShopMcp) guard(ctx context.Context, name string, op operation) any {
	v, err := op(ctx)
	if err != nil {
		return s.newFailure(name, err)
	}
	return v
}

// newFailure converts err into a Failure record and logs it. The message is
// evaluated against error_prompts — matching guidance is appended.
func (s *ShopMcp) newFailure(name string, err error) *Failure {
	errMsg := err.Error()
	prompt := s.errPrompts.Match(errMsg)
	patterns := s.errPrompts.MatchedPatterns(errMsg)

	logEvent := s.logger.Error().Err(err).Str("operation", name)
	if len(patterns) > 0 {
		logEvent = logEvent.Strs("error_prompts", patterns)
	}
	logEvent.Msg("operation failed")

	if prompt != "" {
		errMsg = errMsg + "\n\n" + prompt
	}
	return &Failure{
		Status:       StatusFailure,
		ErrorType:    errorType(err),
		ErrorMessage: errMsg,
	}
}

// errorType maps err onto the failure categories reported to the agent.
func errorType(err error) string {
	var validationErr *ValidationError
	var rejectedErr *RejectedError
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &validationErr):
		return "ValidationError"
	case errors.As(err, &rejectedErr):
		return "RejectedError"
	case errors.As(err, &pgErr):
		return "DatabaseError"
	default:
		return "InternalError"
	}
}
