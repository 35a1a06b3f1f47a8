// Package xcontext provides context helpers.
package xcontext

import (
	"context"
	"fmt"
	"strings"
)

// NonBlockingCheck returns the error of ctx if it is already done, prefixed
// with the operation names in msgs.
func NonBlockingCheck(ctx context.Context, msgs ...string) error {
	err := ctx.Err()
	if err == nil || len(msgs) == 0 {
		return err
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, ": "), err)
}
