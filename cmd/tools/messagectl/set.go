package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/hello-fullstack/backend/internal/client"
)

func newSetCmd(newClient func() *client.Client, timeout func() time.Duration) *cobra.Command {
	return &cobra.Command{
		Use:   "set <message>",
		Short: "Replace the stored message",
		Long: `Replace the stored message with the given text.

Examples:
  messagectl set "Hi there"
  messagectl set Hello again   # arguments are joined with spaces`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout())
			defer cancel()

			view := client.NewView(newClient())
			err := view.Submit(ctx, strings.Join(args, " "))
			if errors.Is(err, client.ErrEmptyInput) {
				return err
			}
			printState(cmd.OutOrStdout(), view.State())
			return err
		},
	}
}
