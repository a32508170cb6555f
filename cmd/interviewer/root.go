// Command interviewer runs timed, voice-based screening interviews from the
// command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const app = "interviewer"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interviewer conducts timed, voice-based screening interviews",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", app+".yaml", "path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
