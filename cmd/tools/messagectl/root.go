package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhouzirui/hello-fullstack/backend/internal/client"
)

var (
	okStyle    = color.New(color.FgGreen, color.OpBold)
	errStyle   = color.New(color.FgRed, color.OpBold)
	labelStyle = color.New(color.FgCyan)
)

// newRootCmd builds the command tree. Settings resolve flag > MESSAGE_* env > default.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MESSAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "messagectl",
		Short:         "Read, update and watch the stored message",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", "http://localhost:8080", "Base URL of the message service (env MESSAGE_API_URL)")
	root.PersistentFlags().Duration("timeout", 5*time.Second, "Request timeout (env MESSAGE_TIMEOUT)")
	_ = v.BindPFlag("api-url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	newClient := func() *client.Client {
		return client.New(v.GetString("api-url"))
	}
	timeout := func() time.Duration {
		return v.GetDuration("timeout")
	}

	root.AddCommand(
		newGetCmd(newClient, timeout),
		newSetCmd(newClient, timeout),
		newWatchCmd(newClient),
	)

	return root
}

func printState(w io.Writer, state client.State) {
	switch state.Status {
	case client.StatusReady:
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("message:"), okStyle.Render(state.Message))
	case client.StatusError:
		fmt.Fprintf(w, "%s %s\n", errStyle.Render("error:"), state.Err)
		if state.Message != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("last known:"), state.Message)
		}
	default:
		fmt.Fprintln(w, labelStyle.Render("loading..."))
	}
}
