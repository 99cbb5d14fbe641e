package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"ctchen222/hotseat/internal/db"
	"ctchen222/hotseat/internal/events"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print game events published by running servers",
	Long:  `Subscribes to the Redis events channel and prints one line per event until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rdb, err := db.NewRedisClient(ctx, conf.Redis.Addr)
		if err != nil {
			return err
		}
		defer rdb.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "watching %s on %s\n", events.EventsChannel, conf.Redis.Addr)

		err = events.Subscribe(ctx, rdb, func(_ context.Context, e events.Event) {
			fmt.Fprintf(out, "%-16s %s\n", e.Type, e.Payload)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
