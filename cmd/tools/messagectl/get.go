package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/hello-fullstack/backend/internal/client"
)

func newGetCmd(newClient func() *client.Client, timeout func() time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout())
			defer cancel()

			view := client.NewView(newClient())
			err := view.Load(ctx)
			printState(cmd.OutOrStdout(), view.State())
			return err
		},
	}
}
