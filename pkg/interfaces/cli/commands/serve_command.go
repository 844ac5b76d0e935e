package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/coilplan/pkg/interfaces/httpapi"
)

// ServeCommand serves the planning service over HTTP
type ServeCommand struct {
	env *Environment
}

// NewServeCommand creates a serve command
func NewServeCommand(env *Environment) *ServeCommand {
	return &ServeCommand{env: env}
}

// Execute restores the saved state, then serves until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context) error {
	if _, err := c.env.RestoreState(ctx); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	var state httpapi.StateStore
	if c.env.State != nil {
		state = c.env.State
	}
	server := httpapi.NewServer(c.env.Service, state, c.env.EventStore, c.env.Config.Server, c.env.Logger)
	return server.ListenAndServe(ctx)
}
