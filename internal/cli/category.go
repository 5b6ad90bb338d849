package cli

import "github.com/julianstephens/habitlit/internal/models"

type CategoryCmd struct {
	List CategoryListCmd `cmd:"" help:"List the built-in categories."`
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ctx.println("Categories:")
	for _, cat := range ctx.Tracker().Gateway().Categories() {
		ctx.printf("  %s  %-14s %s  %s\n", cat.ID, cat.Name, cat.Color, models.Deref(cat.Icon))
	}
	return nil
}
