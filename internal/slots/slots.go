// Package slots implements the file-backed state registers shared by the
// polling loop, the presentation layer, and the image worker. Each slot is a
// single file under one directory; readers poll, writers overwrite, and the
// last write wins. One component owns the writes to any given slot.
package slots

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Slot file names. The image worker reads ImageGeneration.data directly, so
// these names are part of the external contract.
const (
	statusFile     = "Status.data"
	micFile        = "Mic.data"
	displayFile    = "Responses.data"
	transcriptFile = "Database.data"
	imageFile      = "ImageGeneration.data"
	queryFile      = "Query.data"
)

// MicState is the tri-state result of reading the microphone slot.
type MicState int

const (
	MicOff MicState = iota
	MicOn
	MicUnknown
)

// Slots reads and writes the state registers under a single directory.
type Slots struct {
	dir string
}

// New creates the slot directory if needed and returns a handle to it.
func New(dir string) (*Slots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &Slots{dir: dir}, nil
}

// Dir returns the slot directory path.
func (s *Slots) Dir() string { return s.dir }

// read returns the slot content, treating a missing file as empty.
func (s *Slots) read(name string) string {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return string(b)
}

// write overwrites a slot, skipping the write when the content is unchanged
// so repeated identical writes are externally invisible.
func (s *Slots) write(name, content string) error {
	path := filepath.Join(s.dir, name)
	if cur, err := os.ReadFile(path); err == nil && string(cur) == content {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write slot %s: %w", name, err)
	}
	return nil
}

// Status returns the assistant phase label.
func (s *Slots) Status() string { return s.read(statusFile) }

// SetStatus writes the assistant phase label.
func (s *Slots) SetStatus(status string) error { return s.write(statusFile, status) }

// Mic reads the microphone slot. Recognized on tokens: true/on/1; off tokens:
// false/off/0 (case-insensitive). Anything else is MicUnknown and the caller
// is expected to reset the slot to off.
func (s *Slots) Mic() MicState {
	switch strings.ToLower(strings.TrimSpace(s.read(micFile))) {
	case "true", "on", "1":
		return MicOn
	case "false", "off", "0", "":
		return MicOff
	default:
		return MicUnknown
	}
}

// SetMic writes the microphone slot as "True" or "False".
func (s *Slots) SetMic(on bool) error {
	if on {
		return s.write(micFile, "True")
	}
	return s.write(micFile, "False")
}

// Display returns the last rendered line.
func (s *Slots) Display() string { return s.read(displayFile) }

// SetDisplay writes the most recent text to render.
func (s *Slots) SetDisplay(text string) error { return s.write(displayFile, text) }

// Transcript returns the derived full chat history.
func (s *Slots) Transcript() string { return s.read(transcriptFile) }

// SetTranscript writes the derived chat history projection.
func (s *Slots) SetTranscript(text string) error { return s.write(transcriptFile, text) }

// SetImageTrigger arms or disarms the image-generation trigger read by the
// external worker, encoded as "<prompt>,<True|False>".
func (s *Slots) SetImageTrigger(prompt string, ready bool) error {
	flag := "False"
	if ready {
		flag = "True"
	}
	return s.write(imageFile, prompt+","+flag)
}

// ImageTrigger decodes the image-generation trigger slot.
func (s *Slots) ImageTrigger() (prompt string, ready bool) {
	raw := s.read(imageFile)
	idx := strings.LastIndex(raw, ",")
	if idx < 0 {
		return raw, false
	}
	return raw[:idx], strings.EqualFold(strings.TrimSpace(raw[idx+1:]), "true")
}

// Query returns the pending captured utterance, if any.
func (s *Slots) Query() string { return strings.TrimSpace(s.read(queryFile)) }

// SetQuery writes a captured utterance for the polling loop to consume.
func (s *Slots) SetQuery(text string) error { return s.write(queryFile, text) }

// TakeQuery reads and clears the pending utterance.
func (s *Slots) TakeQuery() (string, error) {
	q := s.Query()
	if q == "" {
		return "", nil
	}
	return q, s.write(queryFile, "")
}
