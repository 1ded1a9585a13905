// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports the context error if ctx is already done, nil otherwise.
// Commands call it on entry before spawning any external process.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
