// Package cmdhelper provides helpers to build cli commands.
package cmdhelper

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ActionFunc is the signature of *cli.Command Action functions.
type ActionFunc func(ctx context.Context, cmd *cli.Command) error

// ActionFuncChain runs handlers in order and stops at the first error.
func ActionFuncChain(handlers ...ActionFunc) ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		for _, h := range handlers {
			if err := h(ctx, cmd); err != nil {
				return err
			}
		}
		return nil
	}
}

// BeforeFunc adapts fn to a *cli.Command Before hook keeping the context
// unchanged.
func BeforeFunc(fn ActionFunc) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return ctx, fn(ctx, cmd)
	}
}

// ExactArgs returns an error if there are not exactly n args.
func ExactArgs(n int) ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		if got := cmd.Args().Len(); got != n {
			return fmt.Errorf("%q accepts %d arg(s), received %d", cmd.FullName(), n, got)
		}
		return nil
	}
}

// RangeArgs returns an error if the number of args is not within [lo, hi].
func RangeArgs(lo, hi int) ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		if got := cmd.Args().Len(); got < lo || got > hi {
			return fmt.Errorf("%q accepts between %d and %d arg(s), received %d", cmd.FullName(), lo, hi, got)
		}
		return nil
	}
}

// MinimumNArgs returns an error if there are less than n args.
func MinimumNArgs(n int) ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		if got := cmd.Args().Len(); got < n {
			return fmt.Errorf("%q accepts at least %d arg(s), received %d", cmd.FullName(), n, got)
		}
		return nil
	}
}

// NoArgs returns an error if any args are included.
func NoArgs() ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() > 0 {
			return fmt.Errorf("no args required for %q, received %q", cmd.FullName(), cmd.Args().First())
		}
		return nil
	}
}
