package slots

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestSlots(t *testing.T) *Slots {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create slots: %v", err)
	}
	return s
}

func TestMissingFilesReadEmpty(t *testing.T) {
	s := newTestSlots(t)

	if got := s.Status(); got != "" {
		t.Errorf("expected empty status, got %q", got)
	}
	if got := s.Mic(); got != MicOff {
		t.Errorf("expected MicOff for missing file, got %v", got)
	}
	if got := s.Transcript(); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	s := newTestSlots(t)

	if err := s.SetStatus("Listening..."); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if got := s.Status(); got != "Listening..." {
		t.Errorf("expected 'Listening...', got %q", got)
	}
}

func TestMicTriState(t *testing.T) {
	s := newTestSlots(t)

	cases := []struct {
		raw  string
		want MicState
	}{
		{"True", MicOn},
		{"true", MicOn},
		{"ON", MicOn},
		{"1", MicOn},
		{"False", MicOff},
		{"off", MicOff},
		{"0", MicOff},
		{"", MicOff},
		{"maybe", MicUnknown},
		{"yes", MicUnknown},
	}
	for _, tc := range cases {
		if err := os.WriteFile(filepath.Join(s.Dir(), micFile), []byte(tc.raw), 0o644); err != nil {
			t.Fatalf("write mic: %v", err)
		}
		if got := s.Mic(); got != tc.want {
			t.Errorf("Mic(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestIdempotentWrite(t *testing.T) {
	s := newTestSlots(t)

	if err := s.SetDisplay("hello"); err != nil {
		t.Fatalf("set display: %v", err)
	}
	path := filepath.Join(s.Dir(), displayFile)
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read display: %v", err)
	}

	// Writing the identical value again must leave the content unchanged.
	if err := s.SetDisplay("hello"); err != nil {
		t.Fatalf("second set display: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read display: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("content changed on identical write: %q vs %q", before, after)
	}
}

func TestImageTriggerEncoding(t *testing.T) {
	s := newTestSlots(t)

	if err := s.SetImageTrigger("a red fox, watercolor", true); err != nil {
		t.Fatalf("set trigger: %v", err)
	}
	prompt, ready := s.ImageTrigger()
	if prompt != "a red fox, watercolor" || !ready {
		t.Errorf("got (%q, %v), want (%q, true)", prompt, ready, "a red fox, watercolor")
	}

	if err := s.SetImageTrigger("", false); err != nil {
		t.Fatalf("disarm trigger: %v", err)
	}
	if _, ready := s.ImageTrigger(); ready {
		t.Error("expected trigger disarmed")
	}
}

func TestTakeQueryClears(t *testing.T) {
	s := newTestSlots(t)

	if err := s.SetQuery("what time is it"); err != nil {
		t.Fatalf("set query: %v", err)
	}
	q, err := s.TakeQuery()
	if err != nil {
		t.Fatalf("take query: %v", err)
	}
	if q != "what time is it" {
		t.Errorf("expected query, got %q", q)
	}
	if got := s.Query(); got != "" {
		t.Errorf("expected cleared query, got %q", got)
	}
}
