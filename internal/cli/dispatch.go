package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/dispatch"
	"github.com/rcliao/aura/internal/llm"
	"github.com/rcliao/aura/internal/procman"
	"github.com/rcliao/aura/internal/reminder"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dispatch <command>...",
		Short: "Run automation commands directly",
		Long:  `Execute one batch of automation commands without the voice pipeline, e.g. aura dispatch "open firefox" "play lofi beats".`,
		Args:  cobra.MinimumNArgs(1),
		Run:   runDispatch,
	}
	RootCmd.AddCommand(cmd)
}

func runDispatch(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	log, err := newLogger()
	if err != nil {
		exitErr("init logger", err)
	}
	defer log.Sync()

	ctx := context.Background()

	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	proc := procman.New(log)
	sched := reminder.New(st, log, reminder.WithAnnounce(func(text string) {
		fmt.Println(text)
	}))

	// Content generation only works when a provider is configured; the
	// handler reports the missing writer itself.
	var writer llm.Responder
	if chat, err := newChatModel(ctx, cfg); err == nil {
		writer = llm.NewModelResponder(chat, llm.ContentSystem(cfg.Assistant))
	} else {
		log.Debug("content writer disabled", zap.Error(err))
	}

	d := dispatch.New(log)
	actions := &dispatch.Actions{
		Proc:        proc,
		Reminders:   sched,
		Writer:      writer,
		DataDir:     cfg.DataDir,
		Contacts:    cfg.Contacts,
		CountryCode: cfg.CountryCode,
		Favorites:   cfg.Favorites,
		Log:         log,
	}
	actions.RegisterAll(d)

	failed := 0
	for _, res := range d.Dispatch(ctx, args) {
		switch {
		case !res.Matched:
			failed++
			fmt.Printf("no handler: %s\n", res.Command)
		case res.Err != nil:
			failed++
			fmt.Printf("failed: %s: %v\n", res.Command, res.Err)
		default:
			fmt.Printf("ok: %s\n", res.Command)
		}
	}
	if failed > 0 {
		exitErr("dispatch", fmt.Errorf("%d of %d commands failed", failed, len(args)))
	}
}
