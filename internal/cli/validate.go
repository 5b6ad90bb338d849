package cli

import (
	"context"
	"fmt"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	ctx.println("Validating habits and logs...")
	result, err := ctx.Tracker().Validate(context.Background())
	if err != nil {
		return err
	}

	ctx.println()
	ctx.println(result.FormatReport())
	return nil
}
