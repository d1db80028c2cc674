package taskpool

import "errors"

const Namespace = "taskpool"

var (
	// ErrInvalidConfig reports an invalid constructor argument or option value.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrPoolClosed is returned by Submit and SubmitDetached once shutdown
	// has been initiated, in either mode.
	ErrPoolClosed = errors.New(Namespace + ": pool is shut down")

	// ErrTaskPanicked wraps the recovered value of a task body that panicked.
	ErrTaskPanicked = errors.New(Namespace + ": task panicked")

	// ErrTaskNotExecuted resolves the future of a task discarded by an
	// immediate shutdown before any worker picked it up.
	ErrTaskNotExecuted = errors.New(Namespace + ": task discarded before execution")
)
