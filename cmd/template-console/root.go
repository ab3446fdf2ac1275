package main

import (
	"fmt"
	"os"
	"strings"

	plugintemplate "github.com/Hafuunano/Plugin-Template/plugins/plugin-template"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "TEMPLATE_CONSOLE"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template-console",
		Short: "Try the template plugin commands from a terminal",
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("data-dir", "", "Data root holding config/plugin-template (default: DATA_DIR or ./data).")
	cmd.PersistentFlags().String("user-id", "10000", "User ID the messages are sent as.")
	cmd.PersistentFlags().String("group-id", "", "Group ID; empty sends as a private message.")
	cmd.PersistentFlags().String("nickname", "", "Sender nickname used in merged-forward nodes.")
	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("user_id", cmd.PersistentFlags().Lookup("user-id"))
	_ = viper.BindPFlag("group_id", cmd.PersistentFlags().Lookup("group-id"))
	_ = viper.BindPFlag("nickname", cmd.PersistentFlags().Lookup("nickname"))

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newExecCmd())
	cmd.AddCommand(newCommandsCmd())

	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// session is the invoking identity plus the loaded plugin.
type session struct {
	tpl  *plugintemplate.Template
	base plugintemplate.Invocation
}

func newSession() (*session, error) {
	tpl, err := plugintemplate.Load(viper.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("load plugin: %w", err)
	}
	return &session{
		tpl: tpl,
		base: plugintemplate.Invocation{
			UserID:   viper.GetString("user_id"),
			GroupID:  viper.GetString("group_id"),
			Nickname: viper.GetString("nickname"),
		},
	}, nil
}

func (s *session) invocation(text string) plugintemplate.Invocation {
	inv := s.base
	inv.Text = text
	return inv
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands the plugin answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			prefix := ""
			if p := s.tpl.Config().CommandPrefixes; len(p) > 0 {
				prefix = p[0]
			}
			out := cmd.OutOrStdout()
			for _, c := range plugintemplate.Commands {
				line := prefix + c.Name
				if len(c.Aliases) > 0 {
					line += "  (" + strings.Join(c.Aliases, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
