package bootstrap

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// OnStop registers hooks that run during Shutdown, last registered first.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooksReverse runs every hook even when one fails and returns the
// collected errors.
func runHooksReverse(ctx context.Context, hooks []Hook) error {
	var mErr multierror.Error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			mErr.Errors = append(mErr.Errors, fmt.Errorf("stop hook %d: %w", i, err))
		}
	}
	return mErr.ErrorOrNil()
}
