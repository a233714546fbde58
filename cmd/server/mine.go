package main

import (
	"encoding/json"
	"time"

	"provenance-api/internal/blockchain"

	"github.com/spf13/cobra"
)

func newMineCmd() *cobra.Command {
	var (
		previous  string
		timestamp int64
		nonce     int
	)
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Mine one proof-of-work block and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if timestamp == 0 {
				timestamp = time.Now().UTC().UnixMilli()
			}
			mined := blockchain.Mine(blockchain.NewBlock(previous, timestamp, nonce))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(mined)
		},
	}
	cmd.Flags().StringVar(&previous, "previous", "0", "hash of the previous block")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "block timestamp in unix milliseconds (default now)")
	cmd.Flags().IntVar(&nonce, "nonce", 0, "nonce to start mining from")
	return cmd
}
