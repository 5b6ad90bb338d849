package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/gateway"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tracker"
)

// Context is passed to every command's Run method
type Context struct {
	Store    storage.Provider
	Sessions *session.Gateway
	// DataDir holds the session file, logs and the server lockfile
	DataDir string
	Out     io.Writer
	In      io.Reader
	// Clock overrides the tracker's notion of today when set
	Clock func() time.Time

	tracker *tracker.Tracker
}

// Load opens the store and builds the tracker over it
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	if c.tracker == nil {
		c.tracker = tracker.New(gateway.New(c.Store), c.Sessions)
		if c.Clock != nil {
			c.tracker.SetClock(c.Clock)
		}
	}
	return nil
}

// Tracker returns the tracker built by Load
func (c *Context) Tracker() *tracker.Tracker {
	return c.tracker
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// confirm asks a yes/no question on In and reports whether the answer was yes
func (c *Context) confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DataDirFor returns the directory holding session, logs and lockfile for a
// --config value. Connection strings and :memory: fall back to the default
// config directory.
func DataDirFor(config string) (string, error) {
	if storage.IsPostgresConnString(config) || config == constants.MemoryStorePath {
		config = constants.DefaultConfigPath
	}
	path, err := ExpandHome(config)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// resolveDay accepts YYYY-MM-DD, "today" or "yesterday"
func (c *Context) resolveDay(day string) (string, error) {
	today := c.tracker.Today()
	switch strings.ToLower(day) {
	case "", "today":
		return today, nil
	case "yesterday":
		t, _ := time.Parse(constants.DateFormat, today)
		return t.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, 'today' or 'yesterday'", day)
	}
	return day, nil
}

// resolveHabit finds a habit by exact id, unique id prefix, or unique
// case-insensitive name
func (c *Context) resolveHabit(ctx context.Context, ref string) (models.Habit, error) {
	habits, err := c.tracker.Gateway().Habits.GetAll(ctx)
	if err != nil {
		return models.Habit{}, err
	}

	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, &gateway.NotFoundError{Entity: "Habit", ID: ref}
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use a longer id", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
