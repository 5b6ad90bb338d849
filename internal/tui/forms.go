package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
)

type AuthFormModel struct {
	SignUp   bool
	Email    string
	Password string
}

type HabitFormModel struct {
	Name        string
	Description string
	CategoryID  string
	Frequency   models.Frequency
	StartDate   string
	EndDate     string
}

// NewHabit converts the form into gateway input. Blank optional fields become null.
func (fm HabitFormModel) NewHabit() models.NewHabit {
	return models.NewHabit{
		Name:        strings.TrimSpace(fm.Name),
		Description: models.StringPtr(strings.TrimSpace(fm.Description)),
		CategoryID:  models.StringPtr(fm.CategoryID),
		Frequency:   fm.Frequency,
		StartDate:   strings.TrimSpace(fm.StartDate),
		EndDate:     models.StringPtr(strings.TrimSpace(fm.EndDate)),
	}
}

func NewAuthForm(fm *AuthFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Welcome to habitlit").
				Options(
					huh.NewOption("Sign in", false),
					huh.NewOption("Create an account", true),
				).
				Value(&fm.SignUp),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewHabitForm(fm *HabitFormModel, categories []models.Category) *huh.Form {
	categoryOpts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, c := range categories {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOpts...).
				Value(&fm.CategoryID),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Monthly", models.FrequencyMonthly),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validateDate(false)),
			huh.NewInput().
				Title("End date (optional)").
				Value(&fm.EndDate).
				Validate(validateDate(true)),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateDate(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && optional {
			return nil
		}
		if _, err := time.Parse(constants.DateFormat, s); err != nil {
			return fmt.Errorf("expected YYYY-MM-DD")
		}
		return nil
	}
}

func shiftDate(day string, days int) (string, error) {
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(constants.DateFormat), nil
}
