package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/studyline/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite or JSON store before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return fmt.Errorf("--force is not supported for PostgreSQL stores")
		}
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized studyline storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
