package workq

import "github.com/pkg/errors"

var (
	// ErrClosed indicates the queue or registry was closed.
	ErrClosed = errors.New("workq: closed")

	// ErrDuplicate indicates the item is already on a queue.
	ErrDuplicate = errors.New("workq: item already queued")

	// ErrNotQueued indicates the item to push after is not queued on the queue.
	ErrNotQueued = errors.New("workq: item not queued")

	// ErrNotFound indicates a recipient was not found.
	ErrNotFound = errors.New("workq: recipient not found")
)
