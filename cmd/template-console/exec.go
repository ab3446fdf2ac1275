package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <message>",
		Short: "Send one message through the plugin and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			out := newConsoleSender(cmd.OutOrStdout(), s.base)
			if !s.tpl.Dispatch(context.Background(), s.invocation(text), out) {
				fmt.Fprintln(cmd.OutOrStdout(), "(not a plugin command)")
			}
			return nil
		},
	}
}
