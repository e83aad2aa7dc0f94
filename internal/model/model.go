// Package model defines the core assistant data types.
package model

import (
	"strings"
	"time"
)

// Verbs emitted by the intent classifier. Order matters: where one verb is a
// textual prefix of another, the longer one comes first so parsing picks the
// most specific match.
var ClassifierVerbs = []string{
	"github create private",
	"github create",
	"github delete",
	"github list",
	"github find",
	"github open",
	"github clone",
	"github commit",
	"github push",
	"github pull",
	"github branch create",
	"github branch checkout",
	"github search repo",
	"github search user",
	"google search",
	"youtube search",
	"generate image",
	"general",
	"realtime",
	"open",
	"close",
	"play",
	"content",
	"system",
	"reminder",
	"tired",
	"whatsapp",
	"exit",
}

// automationVerbs are the verbs handled by the command dispatcher rather than
// the answer channel.
var automationVerbs = map[string]bool{
	"open":                   true,
	"close":                  true,
	"play":                   true,
	"content":                true,
	"system":                 true,
	"google search":          true,
	"youtube search":         true,
	"reminder":               true,
	"tired":                  true,
	"whatsapp":               true,
	"github create private":  true,
	"github create":          true,
	"github delete":          true,
	"github list":            true,
	"github find":            true,
	"github open":            true,
	"github clone":           true,
	"github commit":          true,
	"github push":            true,
	"github pull":            true,
	"github branch create":   true,
	"github branch checkout": true,
	"github search repo":     true,
	"github search user":     true,
}

// Intent is one classified command: a verb from the fixed vocabulary plus its
// free-text argument.
type Intent struct {
	Verb string `json:"verb"`
	Arg  string `json:"arg,omitempty"`
}

// ParseIntent matches a raw classifier tag string against the verb
// vocabulary. Returns false if no verb matches.
func ParseIntent(raw string) (Intent, bool) {
	raw = strings.TrimSpace(raw)
	for _, verb := range ClassifierVerbs {
		if raw == verb {
			return Intent{Verb: verb}, true
		}
		if strings.HasPrefix(raw, verb+" ") {
			return Intent{Verb: verb, Arg: strings.TrimSpace(raw[len(verb):])}, true
		}
	}
	return Intent{}, false
}

// String reconstructs the "<verb> <argument>" tag form used by the dispatcher.
func (i Intent) String() string {
	if i.Arg == "" {
		return i.Verb
	}
	return i.Verb + " " + i.Arg
}

func (i Intent) IsGeneral() bool  { return i.Verb == "general" }
func (i Intent) IsRealtime() bool { return i.Verb == "realtime" }
func (i Intent) IsExit() bool     { return i.Verb == "exit" }

// IsImage reports whether the intent is an image-generation request. The
// classifier is not always strict about the verb form, so any tag containing
// "generate" counts.
func (i Intent) IsImage() bool {
	return strings.Contains(i.String(), "generate")
}

// IsAutomation reports whether the intent belongs to the dispatcher.
func (i Intent) IsAutomation() bool {
	return automationVerbs[i.Verb]
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single chat-log entry.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reminder is a persisted timed reminder. The ID also keys the in-memory
// timer so removal can cancel a pending notification.
type Reminder struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	At        time.Time `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}
