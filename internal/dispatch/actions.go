package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/llm"
	"github.com/rcliao/aura/internal/procman"
	"github.com/rcliao/aura/internal/reminder"
)

// Actions bundles the side-effecting dependencies behind the default command
// table: process spawning, reminder scheduling, and content generation.
type Actions struct {
	Proc        *procman.Manager
	Reminders   *reminder.Scheduler
	Writer      llm.Responder // content generation; nil disables "content"
	DataDir     string
	Contacts    map[string]string
	CountryCode string
	Favorites   []string
	Opener      string // URL/file opener binary, default xdg-open
	Log         *zap.Logger
}

// RegisterAll populates the dispatcher with the standard automation table.
// Order matters: a prefix must come before any shorter prefix of it, so the
// specific github variants are registered first.
func (a *Actions) RegisterAll(d *Dispatcher) {
	d.Register("github create private ", a.gh("repo", "create", "--private"))
	d.Register("github create ", a.gh("repo", "create"))
	d.Register("github delete ", a.gh("repo", "delete", "--yes"))
	d.Register("github list", a.ghFixed("repo", "list"))
	d.Register("github find ", a.gh("search", "repos"))
	d.Register("github open ", a.gh("repo", "view", "--web"))
	d.Register("github clone ", a.gh("repo", "clone"))
	d.Register("github commit ", a.gitCommit)
	d.Register("github push ", a.git("push"))
	d.Register("github pull ", a.git("pull"))
	d.Register("github branch create ", a.git("checkout", "-b"))
	d.Register("github branch checkout ", a.git("checkout"))
	d.Register("github search repo ", a.gh("search", "repos"))
	d.Register("github search user ", a.gh("search", "users"))
	d.Register("google search ", a.googleSearch)
	d.Register("youtube search ", a.youtubeSearch)
	d.Register("open ", a.openApp)
	d.Register("close ", a.closeApp)
	d.Register("play ", a.play)
	d.Register("content ", a.content)
	d.Register("system ", a.system)
	d.Register("reminder ", a.Reminders.Handle)
	d.Register("tired", a.tired)
	d.Register("whatsapp ", a.whatsapp)
}

func (a *Actions) opener() string {
	if a.Opener != "" {
		return a.Opener
	}
	return "xdg-open"
}

// browse opens a URL (or file) via the configured opener as a tracked child.
func (a *Actions) browse(target string) error {
	_, err := a.Proc.Spawn(a.opener(), target)
	return err
}

func (a *Actions) openApp(ctx context.Context, app string) error {
	if path, err := exec.LookPath(app); err == nil {
		_, err := a.Proc.Spawn(path)
		return err
	}
	// Unknown binary: fall back to a web search for the app.
	return a.browse("https://duckduckgo.com/?q=" + url.QueryEscape(app))
}

func (a *Actions) closeApp(ctx context.Context, app string) error {
	_, err := a.Proc.Spawn("pkill", "-f", app)
	return err
}

func (a *Actions) play(ctx context.Context, query string) error {
	return a.browse("https://www.youtube.com/results?search_query=" + url.QueryEscape(query))
}

func (a *Actions) googleSearch(ctx context.Context, topic string) error {
	return a.browse("https://www.google.com/search?q=" + url.QueryEscape(topic))
}

func (a *Actions) youtubeSearch(ctx context.Context, topic string) error {
	return a.browse("https://www.youtube.com/results?search_query=" + url.QueryEscape(topic))
}

// content asks the writer model for the requested text, saves it under the
// data dir, and opens the file for the user.
func (a *Actions) content(ctx context.Context, topic string) error {
	if a.Writer == nil {
		return fmt.Errorf("content generation is not configured")
	}
	text, err := a.Writer.Reply(ctx, topic, nil)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	if err := os.MkdirAll(a.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	name := strings.ToLower(strings.ReplaceAll(topic, " ", "")) + ".txt"
	path := filepath.Join(a.DataDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return a.browse(path)
}

func (a *Actions) system(ctx context.Context, command string) error {
	var argv []string
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "lock":
		argv = []string{"loginctl", "lock-session"}
	case "shutdown":
		argv = []string{"systemctl", "poweroff"}
	case "restart":
		argv = []string{"systemctl", "reboot"}
	case "sleep", "hibernate":
		argv = []string{"systemctl", "suspend"}
	case "mute":
		argv = []string{"amixer", "set", "Master", "mute"}
	case "unmute":
		argv = []string{"amixer", "set", "Master", "unmute"}
	case "volume up":
		argv = []string{"amixer", "set", "Master", "5%+"}
	case "volume down":
		argv = []string{"amixer", "set", "Master", "5%-"}
	default:
		return fmt.Errorf("unknown system command %q", command)
	}
	_, err := a.Proc.Spawn(argv[0], argv[1:]...)
	return err
}

// tired queues a random pick from the favorites list.
func (a *Actions) tired(ctx context.Context, _ string) error {
	if len(a.Favorites) == 0 {
		return fmt.Errorf("no favorite songs configured")
	}
	song := a.Favorites[rand.Intn(len(a.Favorites))]
	a.Log.Info("playing favorite song", zap.String("song", song))
	return a.play(ctx, song)
}

// whatsapp sends a message via the wa.me deep link. The argument form is
// "<contact or number> <message>"; contact names resolve through the
// configured contact table.
func (a *Actions) whatsapp(ctx context.Context, arg string) error {
	parts := strings.SplitN(strings.TrimSpace(arg), " ", 2)
	if len(parts) < 2 {
		return fmt.Errorf("invalid whatsapp command, use: whatsapp <contact/number> <message>")
	}
	target, message := strings.ToLower(parts[0]), parts[1]

	phone, ok := a.Contacts[target]
	if !ok {
		phone = parts[0]
	}
	if !strings.HasPrefix(phone, "+") {
		phone = a.CountryCode + phone
	}
	// wa.me wants digits only.
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return fmt.Errorf("no phone number for %q", target)
	}
	return a.browse("https://wa.me/" + digits.String() + "?text=" + url.QueryEscape(message))
}

// gh builds a handler that appends the command argument to a gh CLI call.
// Flags listed after the subcommand go at the end of the final argv.
func (a *Actions) gh(sub ...string) Handler {
	args, flags := splitFlags(sub)
	return func(ctx context.Context, arg string) error {
		argv := append([]string{}, args...)
		argv = append(argv, strings.Fields(arg)...)
		argv = append(argv, flags...)
		_, err := a.Proc.Spawn("gh", argv...)
		return err
	}
}

// ghFixed builds a handler that ignores the argument entirely.
func (a *Actions) ghFixed(sub ...string) Handler {
	return func(ctx context.Context, _ string) error {
		_, err := a.Proc.Spawn("gh", sub...)
		return err
	}
}

func (a *Actions) git(sub ...string) Handler {
	return func(ctx context.Context, arg string) error {
		argv := append([]string{}, sub...)
		argv = append(argv, strings.Fields(arg)...)
		_, err := a.Proc.Spawn("git", argv...)
		return err
	}
}

func (a *Actions) gitCommit(ctx context.Context, arg string) error {
	if strings.TrimSpace(arg) == "" {
		return fmt.Errorf("commit message is required")
	}
	_, err := a.Proc.Spawn("git", "commit", "-am", arg)
	return err
}

// splitFlags separates leading subcommand words from trailing --flags.
func splitFlags(sub []string) (args, flags []string) {
	for _, s := range sub {
		if strings.HasPrefix(s, "--") {
			flags = append(flags, s)
		} else {
			args = append(args, s)
		}
	}
	return args, flags
}
