package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/aura/internal/llm"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify <utterance>",
		Short: "Show how an utterance would be classified",
		Long:  "Send one utterance through the decision model and print the resulting intent tags. Useful for debugging the classifier prompt and vocabulary filter.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runClassify,
	}
	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	ctx := context.Background()
	chat, err := newChatModel(ctx, cfg)
	if err != nil {
		exitErr("init chat provider", err)
	}

	text := strings.Join(args, " ")
	intents, err := llm.NewModelClassifier(chat).Classify(ctx, text)
	if err != nil {
		exitErr("classify", err)
	}
	for _, in := range intents {
		fmt.Println(in.String())
	}
}
