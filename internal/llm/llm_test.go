package llm

import (
	"context"
	"testing"

	"github.com/rcliao/aura/internal/model"
)

// fakeChat returns canned provider output.
type fakeChat struct {
	out string
	err error
}

func (f *fakeChat) Chat(ctx context.Context, msgs []ChatMessage) (string, error) {
	return f.out, f.err
}

func TestParseDecision(t *testing.T) {
	cases := []struct {
		raw      string
		original string
		want     []model.Intent
	}{
		{
			raw: "open chrome, open firefox",
			want: []model.Intent{
				{Verb: "open", Arg: "chrome"},
				{Verb: "open", Arg: "firefox"},
			},
		},
		{
			raw: "general how are you?",
			want: []model.Intent{
				{Verb: "general", Arg: "how are you?"},
			},
		},
		{
			raw:  "realtime who won the game, play lofi beats",
			want: []model.Intent{{Verb: "realtime", Arg: "who won the game"}, {Verb: "play", Arg: "lofi beats"}},
		},
		{
			raw:  "exit",
			want: []model.Intent{{Verb: "exit"}},
		},
		{
			// Junk output falls back to a general intent over the utterance.
			raw:      "I think you should open chrome!",
			original: "please open chrome",
			want:     []model.Intent{{Verb: "general", Arg: "please open chrome"}},
		},
		{
			raw:  "github create private secret-repo",
			want: []model.Intent{{Verb: "github create private", Arg: "secret-repo"}},
		},
	}

	for _, tc := range cases {
		got := ParseDecision(tc.raw, tc.original)
		if len(got) != len(tc.want) {
			t.Errorf("ParseDecision(%q) = %+v, want %+v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseDecision(%q)[%d] = %+v, want %+v", tc.raw, i, got[i], tc.want[i])
			}
		}
	}
}

func TestClassifierTiredShortcut(t *testing.T) {
	c := NewModelClassifier(&fakeChat{out: "should not be used"})

	intents, err := c.Classify(context.Background(), "I'm so tired today")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(intents) != 1 || intents[0].Verb != "tired" {
		t.Errorf("expected single tired intent, got %+v", intents)
	}
}

func TestClassifierParsesProviderOutput(t *testing.T) {
	c := NewModelClassifier(&fakeChat{out: "open chrome, general what's up"})

	intents, err := c.Classify(context.Background(), "open chrome and say hi")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(intents) != 2 {
		t.Fatalf("expected 2 intents, got %+v", intents)
	}
	if intents[0].Verb != "open" || intents[1].Verb != "general" {
		t.Errorf("unexpected intents %+v", intents)
	}
}

func TestResponderCleansAnswer(t *testing.T) {
	r := NewModelResponder(&fakeChat{out: "**Hello!**\n\n\nHow can I help?"}, "system")

	got, err := r.Reply(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if got != "Hello!\nHow can I help?" {
		t.Errorf("expected cleaned answer, got %q", got)
	}
}
