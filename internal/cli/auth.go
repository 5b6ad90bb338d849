package cli

import (
	"context"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
)

type AuthCmd struct {
	Signup  AuthSignUpCmd  `cmd:"" help:"Create a local profile and sign in."`
	Signin  AuthSignInCmd  `cmd:"" help:"Sign in to an existing profile."`
	Signout AuthSignOutCmd `cmd:"" help:"Sign out."`
	Whoami  AuthWhoamiCmd  `cmd:"" help:"Show the signed-in profile."`
}

type AuthSignUpCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password (accepted but not checked)." env:"HABITLIT_PASSWORD"`
}

func (c *AuthSignUpCmd) Run(ctx *Context) error {
	profile, err := ctx.Sessions.SignUp(context.Background(), strings.TrimSpace(c.Email), c.Password)
	if err != nil {
		return err
	}
	ctx.printf("Signed up as %s (ID: %s)\n", profile.DisplayName(), profile.ID)
	return nil
}

type AuthSignInCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password (accepted but not checked)." env:"HABITLIT_PASSWORD"`
}

func (c *AuthSignInCmd) Run(ctx *Context) error {
	profile, err := ctx.Sessions.SignIn(context.Background(), strings.TrimSpace(c.Email), c.Password)
	if err != nil {
		return err
	}
	ctx.printf("Signed in as %s\n", profile.DisplayName())
	return nil
}

type AuthSignOutCmd struct{}

func (c *AuthSignOutCmd) Run(ctx *Context) error {
	if err := ctx.Sessions.SignOut(context.Background()); err != nil {
		return err
	}
	ctx.println("Signed out.")
	return nil
}

type AuthWhoamiCmd struct{}

func (c *AuthWhoamiCmd) Run(ctx *Context) error {
	sess, err := ctx.Sessions.GetSession(context.Background())
	if err != nil {
		return err
	}
	if sess == nil {
		ctx.println("Not signed in.")
		return nil
	}
	printProfile(ctx, sess.User)
	return nil
}

func printProfile(ctx *Context, p models.Profile) {
	ctx.printf("User:    %s\n", p.DisplayName())
	ctx.printf("ID:      %s\n", p.ID)
	ctx.printf("Points:  %d\n", p.Points)
	ctx.printf("Streak:  %d\n", p.StreakCount)
	ctx.printf("Since:   %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
}
