package cli

import (
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/julianstephens/studyline/internal/keyring"
	"github.com/julianstephens/studyline/internal/storage/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
// Passwords are allowed here since the keyring is encrypted.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if !postgres.IsConnString(c.ConnectionString) {
		return fmt.Errorf("not a PostgreSQL connection string")
	}
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil && !stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
		return err
	}
	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	ctx.println("Connection string stored in OS keyring. Run studyline without --config to use it.")
	return nil
}

type KeyringGetCmd struct{}

func (c *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if stderrors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no connection string in keyring, use 'studyline keyring set'")
		}
		return err
	}
	ctx.println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		return err
	}
	ctx.println("Connection string removed from OS keyring.")
	return nil
}

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a connection string."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with its password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	if _, ok := u.User.Password(); !ok {
		return connStr
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
