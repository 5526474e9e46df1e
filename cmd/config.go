/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// config.go implements the "revu config" command for configuration management.
//
// Design: Config follows a cascade model similar to git: local config
// (.revu/config.yaml) takes precedence over global (~/.revu/config.yaml).
// The --local flag forces use of local config even if it doesn't exist yet.

package cmd

import (
	"fmt"

	"github.com/jpl-au/revu/internal/config"
	"github.com/jpl-au/revu/internal/log"
	"github.com/spf13/cobra"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or set config values",
	Long: `View or set config values.

  revu config                           # show config
  revu config timeline.marker_width     # show a single value
  revu config timeline.marker_width 16  # set a value

Configuration locations:
  Global: ~/.revu/config.yaml
  Local:  .revu/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.
Use --local to use local config instead.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, args []string) error {
	// Load config: local if exists, otherwise global
	// --local flag forces local even if it doesn't exist yet
	var cfg *config.Config
	var err error
	if configLocal {
		cfg, err = config.LoadScope(config.ScopeLocal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		all := cfg.All()
		if JSON() {
			return PrintJSON(all)
		}
		for k, v := range all {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
		log.Event("core:config", "list").Author(Author()).Write(nil)

	case 1:
		v, err := cfg.Get(args[0])
		log.Event("core:config", "get").Author(Author()).Detail("key", args[0]).Write(err)
		if err != nil {
			return PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		fmt.Fprintln(out, v)

	case 2:
		if err := cfg.Set(args[0], args[1]); err != nil {
			log.Event("core:config", "set").Author(Author()).Detail("key", args[0]).Write(err)
			return PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := cfg.Save()
		log.Event("core:config", "set").Author(Author()).Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		fmt.Fprintf(out, "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}

func init() {
	configCmd.Flags().BoolVar(&configLocal, "local", false, "Use local config (.revu/config.yaml)")
	rootCmd.AddCommand(configCmd)
}
