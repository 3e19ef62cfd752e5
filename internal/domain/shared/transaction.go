package shared

import "context"

// TransactionManager runs a function inside a database transaction. The
// opaque handle is passed to repository WithTx methods; the application layer
// never touches the driver directly.
type TransactionManager interface {
	// Do begins a transaction, runs fn and commits. Any error from fn rolls
	// the transaction back and is returned unchanged.
	Do(ctx context.Context, fn func(tx any) error) error
}
