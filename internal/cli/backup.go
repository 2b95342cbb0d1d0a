package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.printf("Backup created: %s (%s)\n", info.Name, humanize.Bytes(uint64(info.Size)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.printf("No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		ctx.printf("%-36s %10s  %s\n", b.Name, humanize.Bytes(uint64(b.Size)), humanize.Time(b.Timestamp))
	}
	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" help:"Backup file name (from 'backup list') or path."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.Backups()
	if err != nil {
		return err
	}
	return ctx.Mutate(func() error {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close store before restore: %w", err)
		}
		safety, err := mgr.Restore(mgr.Resolve(c.Backup))
		if err != nil {
			return err
		}
		if safety.Name != "" {
			ctx.printf("Saved current database as %s\n", safety.Name)
		}
		ctx.printf("Restored from %s\n", c.Backup)
		return nil
	})
}

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}
