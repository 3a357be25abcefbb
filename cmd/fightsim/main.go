// fightsim exercises the combat core from the command line.
//
// Usage:
//
//	fightsim validate <character.yaml>...   - Validate character data files
//	fightsim run <a.yaml> <b.yaml>          - Run a scripted exchange
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "fightsim",
})

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "fightsim",
	Short: "Headless fighting-game combat simulator",
	Long: `fightsim drives the combat core without a renderer: it validates
character data files and runs scripted exchanges between two characters,
reporting every resolved hit.

Examples:
  fightsim validate data/ryo.yaml
  fightsim validate --watch data/*.yaml
  fightsim run data/ryo.yaml data/ken.yaml --script-a 1:light,30:heavy
  fightsim run data/ryo.yaml data/ken.yaml --script-a 1:light --block-b`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log audio cues and per-tick detail")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
}
