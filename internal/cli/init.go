package cli

import (
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitlit storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		ctx.println("This storage backend has no schema to migrate.")
		return nil
	}

	applied, err := m.Migrate(func(msg string) {
		logger.Info(msg)
		ctx.println(msg)
	})
	if err != nil {
		return err
	}
	if applied > 0 {
		ctx.printf("Applied %d migration(s).\n", applied)
	}
	return nil
}
