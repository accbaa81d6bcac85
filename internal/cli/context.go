// Package cli provides the command-line interface for affkit.
package cli

import (
	"context"

	"github.com/contentdesk/affkit/internal/app"
	"github.com/spf13/cobra"
)

// ctxKey is used for storing the application in command contexts
type ctxKey string

const appKey ctxKey = "app"

// SetApp stores the Application in the command's context. A nil a clears it.
func SetApp(cmd *cobra.Command, a *app.Application) {
	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey, a))
}

// GetAppFromCmd returns the Application stored on cmd or its nearest
// ancestor, or nil before initialization.
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	for c := cmd; c != nil; c = c.Parent() {
		ctx := c.Context()
		if ctx == nil {
			continue
		}
		if a, ok := ctx.Value(appKey).(*app.Application); ok && a != nil {
			return a
		}
	}
	return nil
}

// mustApp is GetAppFromCmd for RunE bodies.
func mustApp(cmd *cobra.Command) (*app.Application, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, errNotInitialized
	}
	return a, nil
}
