package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/dispatch"
	"github.com/rcliao/aura/internal/llm"
	"github.com/rcliao/aura/internal/model"
	"github.com/rcliao/aura/internal/procman"
	"github.com/rcliao/aura/internal/reminder"
	"github.com/rcliao/aura/internal/router"
	"github.com/rcliao/aura/internal/slots"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the assistant loop",
		Long:  "Start the polling loop: watch the mic slot, classify captured queries, dispatch automation, and answer through the configured chat provider. Stops on SIGINT/SIGTERM.",
		Run:   runRun,
	}
	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	log, err := newLogger()
	if err != nil {
		exitErr("init logger", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	sl, err := slots.New(cfg.SlotDir)
	if err != nil {
		exitErr("init slots", err)
	}

	proc := procman.New(log)
	defer proc.CleanupAll()

	speak := func(text string) {
		if len(cfg.TTSCommand) == 0 {
			return
		}
		argv := append(append([]string{}, cfg.TTSCommand[1:]...), text)
		if _, err := proc.Spawn(cfg.TTSCommand[0], argv...); err != nil {
			log.Warn("spawn tts", zap.Error(err))
		}
	}
	announce := func(text string) {
		if err := sl.SetDisplay(cfg.Assistant + ": " + text); err != nil {
			log.Warn("write display slot", zap.Error(err))
		}
		speak(text)
	}

	sched := reminder.New(st, log,
		reminder.WithAnnounce(announce),
		reminder.WithNotify(func(r model.Reminder) {
			announce("Reminder: " + r.Message)
		}))
	if err := sched.Restore(ctx); err != nil {
		log.Warn("restore reminders", zap.Error(err))
	}
	defer sched.Stop()

	chat, err := newChatModel(ctx, cfg)
	if err != nil {
		exitErr("init chat provider", err)
	}

	d := dispatch.New(log)
	actions := &dispatch.Actions{
		Proc:        proc,
		Reminders:   sched,
		Writer:      llm.NewModelResponder(chat, llm.ContentSystem(cfg.Assistant)),
		DataDir:     cfg.DataDir,
		Contacts:    cfg.Contacts,
		CountryCode: cfg.CountryCode,
		Favorites:   cfg.Favorites,
		Log:         log,
	}
	actions.RegisterAll(d)

	session := router.NewSession(st, log, cfg.Username, cfg.Assistant, cfg.HistoryWindow)
	if err := session.Load(ctx); err != nil {
		log.Warn("load chat history", zap.Error(err))
	}

	r := &router.Router{
		Classifier:  llm.NewModelClassifier(chat),
		Chat:        llm.NewModelResponder(chat, llm.ChatSystem(cfg.Username, cfg.Assistant)),
		Realtime:    newRealtime(cfg, chat, log),
		Dispatcher:  d,
		Slots:       sl,
		Proc:        proc,
		Session:     session,
		Log:         log,
		Speak:       speak,
		ImageWorker: cfg.ImageWorker,
	}

	loop := &router.Loop{Router: r, Slots: sl, Log: log}
	log.Info("assistant loop starting",
		zap.String("provider", cfg.Provider),
		zap.String("slots", sl.Dir()),
		zap.String("db", cfg.DBPath))

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		exitErr("run loop", err)
	}
	log.Info("assistant loop stopped")
}
