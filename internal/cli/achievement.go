package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tracker"
)

type AchievementCmd struct {
	Add  AchievementAddCmd  `cmd:"" help:"Record an achievement."`
	List AchievementListCmd `cmd:"" help:"List achievements."`
}

type AchievementAddCmd struct {
	Name        string `arg:"" help:"Achievement name."`
	Description string `short:"d" help:"Description."`
	Points      int    `short:"p" help:"Points awarded." default:"0"`
}

func (c *AchievementAddCmd) Validate() error {
	if c.Points < 0 {
		return fmt.Errorf("points must not be negative")
	}
	return nil
}

func (c *AchievementAddCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	bg := context.Background()
	sess, err := ctx.Sessions.GetSession(bg)
	if err != nil {
		return err
	}
	if sess == nil {
		return tracker.ErrNoSession
	}

	a, err := ctx.Tracker().Gateway().Achievements.Create(bg, models.NewAchievement{
		UserID:      sess.User.ID,
		Name:        strings.TrimSpace(c.Name),
		Description: models.StringPtr(c.Description),
		Points:      c.Points,
	})
	if err != nil {
		return err
	}
	ctx.printf("Recorded achievement: %s (%d points)\n", a.Name, a.Points)
	return nil
}

type AchievementListCmd struct{}

func (c *AchievementListCmd) Run(ctx *Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	achievements, err := ctx.Tracker().Gateway().Achievements.GetAll(context.Background())
	if err != nil {
		return err
	}
	if len(achievements) == 0 {
		ctx.println("No achievements yet")
		return nil
	}

	total := 0
	for _, a := range achievements {
		total += a.Points
		ctx.printf("  %s  %-24s %4d pts  %s\n", a.UnlockedAt.Local().Format("2006-01-02"), a.Name, a.Points, models.Deref(a.Description))
	}
	ctx.printf("\nTotal: %d points\n", total)
	return nil
}
