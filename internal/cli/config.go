package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/djscaffold/djscaffold/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the djscaffold configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			skipConfigAnnotation: "",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := path
			if target == "" {
				target = a.deps.Loader.UserConfigPath()
			}
			if target == "" {
				return fmt.Errorf("no user config directory, pass --path")
			}
			if err := config.Write(target, config.NewDefaultConfig(), force); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", a.deps.Theme.Success("✓"), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Destination file (default: user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			source := a.deps.ConfigPath
			if source == "" {
				source = "defaults"
			}
			data, err := yaml.Marshal(a.deps.Config)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, _ = fmt.Fprintf(out, "# source: %s\n%s", source, data)
			return nil
		},
	}
}
