package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/julianstephens/habitlit/internal/api"
	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/lockfile"
	"github.com/julianstephens/habitlit/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." env:"HABITLIT_ADDR" default:"${default_addr}"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	lockPath := filepath.Join(ctx.DataDir, constants.ServerLockfileName)
	if err := lockfile.Acquire(lockPath, c.Addr); err != nil {
		return err
	}
	defer func() {
		if err := lockfile.Release(lockPath); err != nil {
			logger.Warn("Failed to remove lockfile", "path", lockPath, "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Serving habitlit API on http://%s (Ctrl+C to stop)\n", c.Addr)
	return api.New(ctx.Tracker(), ctx.Sessions).ListenAndServe(sigCtx, c.Addr)
}
