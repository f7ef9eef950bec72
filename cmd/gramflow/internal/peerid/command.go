package peerid

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gramflow/gramflow/pkg/peer"
)

func NewPeerIDCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peerid",
		Short: "Work with canonical chat identifiers",
		Example: `  gramflow peerid mark --kind channel 123
  gramflow peerid expand 123
  gramflow peerid resolve -- -100123`,
	}

	var kind string
	markCmd := &cobra.Command{
		Use:   "mark <id>",
		Short: "Mark a bare entity id with a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("not an integer: %q", args[0])
			}
			if n < 0 {
				return fmt.Errorf("entity ids are non-negative, got %d", n)
			}
			switch kind {
			case "user":
				fmt.Println(int64(peer.User(n)))
			case "chat":
				fmt.Println(int64(peer.Chat(n)))
			case "channel":
				fmt.Println(int64(peer.Channel(n)))
			default:
				return fmt.Errorf("unknown kind %q (want user, chat or channel)", kind)
			}
			return nil
		},
	}
	markCmd.Flags().StringVar(&kind, "kind", "user", "Peer kind: user, chat or channel")

	expandCmd := &cobra.Command{
		Use:   "expand <id>",
		Short: "List every canonical encoding a bare id may denote",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("not an integer: %q", args[0])
			}
			for _, id := range peer.Expand(n) {
				k, real := peer.Resolve(id)
				fmt.Printf("%-12d %s(%d)\n", int64(id), k, real)
			}
			return nil
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <marked-id>",
		Short: "Split a marked id into its kind and entity id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("not an integer: %q", args[0])
			}
			k, real := peer.Resolve(peer.ID(n))
			fmt.Printf("%s %d\n", k, real)
			return nil
		},
	}

	cmd.AddCommand(markCmd)
	cmd.AddCommand(expandCmd)
	cmd.AddCommand(resolveCmd)
	return cmd
}
