package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"drawboard/cmd/render"
	"drawboard/cmd/serve"
)

// version is set via build-time ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "drawboard",
	Short: "Collaborative drawing board server",
	Long: `Drawboard runs a real-time collaborative drawing server. Clients join
rooms over a websocket and every shape drawn in a room is stored and fanned
out to the other members.

Use 'drawboard serve' to start the server, or 'drawboard render' to export a
room's stored drawing as SVG.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(render.Cmd)
}
