// Package xio provides io helpers.
package xio

import (
	"io"
	"strings"

	"github.com/wuxler/ruasset/pkg/xlog"
)

// CloseAndSkipError closes c ignoring the error, for deferred closes of
// read-only resources.
func CloseAndSkipError(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// CloseAndLogError closes c and logs a failure as a warning. The messages
// are joined to describe what was closed.
func CloseAndLogError(c io.Closer, messages ...string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		if len(messages) == 0 {
			xlog.Warnf("unable to close: %v", err)
			return
		}
		xlog.Warnf("unable to close %s: %v", strings.Join(messages, " "), err)
	}
}
