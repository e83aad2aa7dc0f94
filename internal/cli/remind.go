package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/reminder"
	"github.com/rcliao/aura/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage reminders",
		Long:  "Add, remove, and list reminders directly, bypassing the voice pipeline. Timers fire inside the running assistant; this command only edits the persisted list.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text with a time>",
		Short: "Add a reminder",
		Long:  `Add a reminder from free text, e.g. "call mom in 20 minutes" or "standup at 9:30 AM".`,
		Args:  cobra.MinimumNArgs(1),
		Run:   runRemindAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <message>",
		Short: "Remove reminders by message",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRemindRm,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Run:   runRemindList,
	})

	RootCmd.AddCommand(cmd)
}

func openScheduler() (*reminder.Scheduler, *store.SQLiteStore) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	return reminder.New(st, zap.NewNop()), st
}

func runRemindAdd(cmd *cobra.Command, args []string) {
	sched, st := openScheduler()
	defer st.Close()

	r, err := sched.Add(context.Background(), strings.Join(args, " "))
	if err != nil {
		exitErr("add reminder", err)
	}
	// The record is persisted; the in-process timer dies with this command.
	sched.Stop()
	fmt.Printf("Reminder set: %s at %s\n", r.Message, r.At.Format("2006-01-02 15:04:05"))
}

func runRemindRm(cmd *cobra.Command, args []string) {
	_, st := openScheduler()
	defer st.Close()

	msg := strings.Join(args, " ")
	removed, err := st.RemoveReminders(context.Background(), msg)
	if err != nil {
		exitErr("remove reminder", err)
	}
	if len(removed) == 0 {
		exitErr("remove reminder", fmt.Errorf("no reminder with message %q", msg))
	}
	fmt.Printf("Removed %d reminder(s)\n", len(removed))
}

func runRemindList(cmd *cobra.Command, args []string) {
	sched, st := openScheduler()
	defer st.Close()

	list, err := sched.List(context.Background())
	if err != nil {
		exitErr("list reminders", err)
	}
	if len(list) == 0 {
		fmt.Println("No reminders set.")
		return
	}
	for i, r := range list {
		fmt.Printf("%d. %s -> %s\n", i+1, r.Message, r.At.Format("2006-01-02 15:04:05"))
	}
}
