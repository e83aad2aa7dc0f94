package router

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/dispatch"
	"github.com/rcliao/aura/internal/llm"
	"github.com/rcliao/aura/internal/model"
	"github.com/rcliao/aura/internal/procman"
	"github.com/rcliao/aura/internal/slots"
	"github.com/rcliao/aura/internal/transcript"
)

// Apology lines used when an answer provider fails mid-cycle. The cycle still
// completes and the loop keeps polling.
const (
	generalApology  = "Sorry, I couldn't come up with an answer just now."
	realtimeApology = "Sorry, I couldn't reach my live sources just now."
	farewellLine    = "Okay, goodbye!"
)

// Router runs one assistant cycle: capture, classify, act, answer.
type Router struct {
	Classifier llm.Classifier
	Chat       llm.Responder
	Realtime   llm.Responder
	Dispatcher *dispatch.Dispatcher
	Slots      *slots.Slots
	Proc       *procman.Manager
	Session    *Session
	Log        *zap.Logger

	// Listen captures one utterance. The default consumes the query slot.
	Listen func(ctx context.Context) (string, error)
	// Speak voices an answer. Optional; spoken output runs detached from the
	// cycle so a slow TTS backend never stalls polling.
	Speak func(text string)
	// ImageWorker is the argv of the external image generation process,
	// spawned after the trigger slot is armed. Empty disables spawning.
	ImageWorker []string
	// Exit terminates the process on an exit intent. Overridable for tests.
	Exit func(code int)
}

func (r *Router) exit(code int) {
	if r.Exit != nil {
		r.Exit(code)
		return
	}
	os.Exit(code)
}

func (r *Router) listen(ctx context.Context) (string, error) {
	if r.Listen != nil {
		return r.Listen(ctx)
	}
	return r.Slots.TakeQuery()
}

func (r *Router) speak(text string) {
	if r.Speak != nil {
		go r.Speak(text)
	}
}

func (r *Router) setStatus(status string) {
	if err := r.Slots.SetStatus(status); err != nil {
		r.Log.Warn("write status slot", zap.Error(err))
	}
}

// RunCycle executes one full assistant cycle and reports whether an answer
// was produced. An empty capture ends the cycle immediately.
func (r *Router) RunCycle(ctx context.Context) bool {
	r.setStatus("Listening...")
	query, err := r.listen(ctx)
	if err != nil {
		r.Log.Warn("capture utterance", zap.Error(err))
		return false
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	if err := r.Slots.SetDisplay(r.Session.Username + ": " + query); err != nil {
		r.Log.Warn("write display slot", zap.Error(err))
	}

	r.setStatus("Thinking...")
	intents, err := r.Classifier.Classify(ctx, query)
	if err != nil {
		// The cycle must still produce an answer; degrade to a general
		// conversation over the raw utterance.
		r.Log.Warn("classification failed", zap.Error(err))
		intents = []model.Intent{{Verb: "general", Arg: query}}
	}
	r.Log.Debug("classified", zap.String("query", query), zap.Int("intents", len(intents)))

	merged, hasRealtime := mergeQueries(intents)

	// Arm the image trigger for the first generate intent, then hand off to
	// the external worker. Generation itself happens out of process.
	for _, in := range intents {
		if !in.IsImage() {
			continue
		}
		prompt := in.Arg
		if prompt == "" {
			prompt = in.String()
		}
		if err := r.Slots.SetImageTrigger(prompt, true); err != nil {
			r.Log.Warn("arm image trigger", zap.Error(err))
			break
		}
		if len(r.ImageWorker) > 0 {
			if _, err := r.Proc.Spawn(r.ImageWorker[0], r.ImageWorker[1:]...); err != nil {
				r.Log.Warn("spawn image worker", zap.Error(err))
			}
		}
		break
	}

	var batch []string
	for _, in := range intents {
		if in.IsAutomation() {
			batch = append(batch, in.String())
		}
	}
	if len(batch) > 0 {
		r.Dispatcher.Dispatch(ctx, batch)
	}

	// Answer channel: one answer per cycle. Any realtime intent upgrades the
	// whole merged query to the realtime channel; otherwise the first
	// answerable intent in classifier order wins with its own argument.
	if hasRealtime {
		return r.answer(ctx, r.Realtime, merged, realtimeApology, "Searching...")
	}
	for _, in := range intents {
		switch {
		case in.IsGeneral():
			q := in.Arg
			if q == "" {
				q = query
			}
			return r.answer(ctx, r.Chat, q, generalApology, "Thinking...")
		case in.IsRealtime():
			return r.answer(ctx, r.Realtime, in.Arg, realtimeApology, "Searching...")
		case in.IsExit():
			r.farewell(ctx)
			return true
		}
	}
	return false
}

// mergeQueries joins the arguments of all general and realtime intents with
// " and " so a mixed utterance is answered once, in full.
func mergeQueries(intents []model.Intent) (merged string, hasRealtime bool) {
	var parts []string
	for _, in := range intents {
		switch {
		case in.IsRealtime():
			hasRealtime = true
		case in.IsGeneral():
		default:
			continue
		}
		if in.Arg != "" {
			parts = append(parts, in.Arg)
		}
	}
	return strings.Join(parts, " and "), hasRealtime
}

func (r *Router) answer(ctx context.Context, responder llm.Responder, query, apology, status string) bool {
	r.setStatus(status)

	norm := transcript.NormalizeQuery(query)
	history := r.Session.History()

	answer, err := responder.Reply(ctx, norm, history)
	if err != nil {
		r.Log.Warn("answer generation failed", zap.String("query", norm), zap.Error(err))
		answer = apology
	} else {
		r.Session.Append(ctx, model.RoleUser, norm)
		r.Session.Append(ctx, model.RoleAssistant, answer)
		r.refreshTranscript(ctx)
	}

	r.deliver(answer)
	return true
}

// farewell voices a goodbye and terminates the process. Termination is
// immediate; no teardown beyond the process manager's cleanup hook runs.
func (r *Router) farewell(ctx context.Context) {
	r.setStatus("Answering...")
	answer, err := r.Chat.Reply(ctx, transcript.NormalizeQuery(farewellLine), r.Session.History())
	if err != nil || strings.TrimSpace(answer) == "" {
		answer = farewellLine
	}
	r.deliver(answer)
	r.exit(0)
}

func (r *Router) deliver(answer string) {
	if err := r.Slots.SetDisplay(r.Session.Assistant + ": " + answer); err != nil {
		r.Log.Warn("write display slot", zap.Error(err))
	}
	r.setStatus("Answering...")
	r.speak(answer)
}

func (r *Router) refreshTranscript(ctx context.Context) {
	text, err := r.Session.Transcript(ctx)
	if err != nil {
		r.Log.Warn("render transcript", zap.Error(err))
		return
	}
	if err := r.Slots.SetTranscript(text); err != nil {
		r.Log.Warn("write transcript slot", zap.Error(err))
	}
}
