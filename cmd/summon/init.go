package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/summon-dev/summon/internal/config"
	summonerr "github.com/summon-dev/summon/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		useYAML bool
		force   bool
		name    string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Write a summon.json (or summon.yaml with --yaml) holding the default
configuration into dir, or the working directory.

Examples:
  summon init
  summon init --yaml --name=shop ./shop`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return summonerr.New("E050").
					WithDetail("A configuration file already exists in " + dir).
					WithSuggestion("Pass --force to overwrite it")
			}

			cfg := config.New()
			if name != "" {
				cfg.Name = name
			}
			file := config.ConfigFileName
			if useYAML {
				file = config.YAMLConfigFileName
			}
			path := filepath.Join(dir, file)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Wrote %s", path)
			info(cmd.OutOrStdout(), "Run 'summon serve' to start the server")
			return nil
		},
	}

	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write summon.yaml instead of summon.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVar(&name, "name", "", "Project name")

	return cmd
}
