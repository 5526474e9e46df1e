/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// guide.go implements the "revu guide" command for documentation access.
//
// Design: Guides are embedded in the binary via the guide package, ensuring
// documentation is always available without external files. Terminal output
// gets glamour rendering for readability; pipe/redirect gets raw markdown
// for machine consumption and LLM context loading.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/revu/guide"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var guideCmd = &cobra.Command{
	Use:   "guide [topic]",
	Short: "Show the revu usage guide",
	Long: `Outputs the revu guide for LLMs and humans.

  revu guide           # main guide
  revu guide edits     # cropping, cutting and undo
  revu guide timeline  # gaps, transitions and the three clocks`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		content, err := guide.Get(name)
		if err != nil {
			available, listErr := guide.List()
			if listErr != nil {
				return listErr
			}
			return PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			rendered, err := glamour.Render(content, "dark")
			if err == nil {
				fmt.Fprint(out, rendered)
				return nil
			}
		}

		fmt.Fprint(out, content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
