package client

import "context"

// OptimisticUpdate runs a three-phase mutation against local state:
// snapshot the current value, apply the change locally, then commit it
// to the server. If the commit fails the local state is restored from
// the snapshot and the server's error is returned, so UI code can show
// the change immediately and roll it back only on rejection.
//
// The commit function returns the server's authoritative version of the
// value, which replaces the optimistic one on success.
func OptimisticUpdate[T any](
	ctx context.Context,
	state *T,
	apply func(*T),
	commit func(context.Context) (*T, error),
) error {
	snapshot := *state
	apply(state)

	confirmed, err := commit(ctx)
	if err != nil {
		*state = snapshot
		return err
	}
	if confirmed != nil {
		*state = *confirmed
	}
	return nil
}
