package port

import "context"

// Transactor runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction; a nested WithinTx joins the
// outer one. fn returning an error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
