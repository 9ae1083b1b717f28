package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var entityID string
	var lastEventID uint64
	cmd := &cobra.Command{
		Use:   "watch <entity-type>",
		Short: "Stream live change events for an entity type",
		Long:  "Connects over WebSocket and prints one JSON event per line until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := apiClient.Watch(ctx, args[0], entityID, lastEventID)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer w.Close()

			enc := json.NewEncoder(os.Stdout)
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						if err := w.Err(); err != nil {
							return fmt.Errorf("stream: %w", err)
						}
						return nil
					}
					if err := enc.Encode(ev); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&entityID, "id", "", "Watch a single entity by ID")
	cmd.Flags().Uint64Var(&lastEventID, "since-event", 0, "Replay events after this event ID")
	return cmd
}
