package mocks

import "context"

// PassthroughTransactor is a port.Transactor that runs fn directly without a
// database. Err, when set, is returned without calling fn.
type PassthroughTransactor struct {
	Err   error
	Calls int
}

func (t *PassthroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx)
}
