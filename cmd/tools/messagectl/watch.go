package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/hello-fullstack/backend/internal/client"
)

func newWatchCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the message and every update until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err := newClient().Watch(ctx, func(u client.Update) error {
				fmt.Fprintf(out, "%s %s\n", labelStyle.Render(u.UpdatedAt.Format("15:04:05")), okStyle.Render(u.Message))
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
