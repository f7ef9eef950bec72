// gramflow - chat-scope resolution and event dispatch for Telegram-shaped
// update streams.
//
// Copyright (c) 2026 gramflow contributors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gramflow/gramflow/cmd/gramflow/internal"
	"github.com/gramflow/gramflow/cmd/gramflow/internal/peerid"
	"github.com/gramflow/gramflow/cmd/gramflow/internal/simulate"
	"github.com/gramflow/gramflow/cmd/gramflow/internal/version"
)

func NewGramflowCommand() *cobra.Command {
	short := fmt.Sprintf("%s gramflow - Chat-scope event filtering v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:           "gramflow",
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(peerid.NewPeerIDCommand())
	cmd.AddCommand(simulate.NewSimulateCommand())
	cmd.AddCommand(version.NewVersionCommand())

	return cmd
}

func main() {
	if err := NewGramflowCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
