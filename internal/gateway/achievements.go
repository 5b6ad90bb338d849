package gateway

import (
	"context"

	"github.com/julianstephens/habitlit/internal/models"
)

// AchievementsAPI is create/getAll for achievements. Nothing reads them yet.
type AchievementsAPI struct {
	g *Gateway
}

func (a *AchievementsAPI) Create(ctx context.Context, in models.NewAchievement) (models.Achievement, error) {
	if err := a.g.lock(ctx); err != nil {
		return models.Achievement{}, err
	}
	defer a.g.mu.Unlock()

	achievement := models.Achievement{
		ID:          a.g.newID(),
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Points:      in.Points,
		UnlockedAt:  a.g.now(),
	}
	if err := a.g.store.AddAchievement(ctx, achievement); err != nil {
		return models.Achievement{}, err
	}
	return achievement, nil
}

func (a *AchievementsAPI) GetAll(ctx context.Context) ([]models.Achievement, error) {
	if err := a.g.lock(ctx); err != nil {
		return nil, err
	}
	defer a.g.mu.Unlock()
	return a.g.store.GetAllAchievements(ctx)
}
