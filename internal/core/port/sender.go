package port

import (
	"context"
	"slashbot/internal/core/domain"
)

// Context is the response channel of one interaction.
type Context interface {
	// Send delivers content through the interaction: the first call answers it, later calls
	// post followups, and a pending deferral is resolved by editing its placeholder. When the
	// interaction can no longer be answered the content is posted to the originating channel.
	Send(ctx context.Context, content string, opts ...domain.ReplyOption) error
	// Defer reserves the response with a placeholder. It fails with domain.ErrAlreadyResponded
	// unless the interaction is still unanswered.
	Defer(ctx context.Context) error
	// State reports the current response state.
	State() domain.ResponseState
	// Invocation describes the interaction being handled.
	Invocation() domain.Invocation
}

type Reporter interface {
	// Report hands a handler failure to the operator.
	Report(ctx context.Context, d domain.Diagnostic)
}
