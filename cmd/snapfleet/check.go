package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casm-project/snapfleet/layout"
)

var checkCmd = &cobra.Command{
	Use:   "check <layout.yaml>",
	Short: "Validate a layout file without touching any board.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := layout.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("layout OK: %d boards, %d channels per packet\n",
			len(l.Boards), l.Common.ChannelsPerPacket)
		for i, b := range l.Boards {
			dests := b.EffectiveDestinations(&l.Common)
			fmt.Printf("  %s: feng_id %d, source %s:%d, %d destinations\n",
				b.Host, fengID(&b, i), b.Source.IP, b.Source.Port,
				len(dests))
		}
		return nil
	},
}

func fengID(b *layout.BoardDescriptor, index int) int {
	if b.FengID != nil {
		return *b.FengID
	}
	return index
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
