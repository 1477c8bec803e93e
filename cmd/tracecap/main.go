package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// cliVersion is the semantic version of this CLI, with each numeric
	// component colorized.
	cliVersion = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"
)

var rootCmd = &cobra.Command{
	Use:   "tracecap",
	Short: "In-process span and counter capture, serialized to a Perfetto trace",
	Long: `tracecap captures timed spans and counter samples from a
multithreaded Go program and serializes them into a Perfetto-compatible
trace file, with no locking and no allocation on the steady-state hot
path.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		switch mode, _ := cmd.Flags().GetString("color"); mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
		}
	},
}

func main() {
	rootCmd.Version = cliVersion

	rootCmd.AddCommand(recordCmd)

	rootCmd.PersistentFlags().String("config", "", "path to tracecap.toml")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
