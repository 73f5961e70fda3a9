package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strandkv/strand/cmd/serve"
	"github.com/strandkv/strand/cmd/str"
	"github.com/strandkv/strand/cmd/util"
)

const Version = "1.0.0"

// RootCmd is the entry point of the strand CLI
var RootCmd = &cobra.Command{
	Use:   "strand",
	Short: "networked string store",
	Long: fmt.Sprintf(`strand (v%s)

A networked string store written in Go, with atomic counters,
binary-safe range operations and write-ahead journaling.`, Version),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of strand",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("strand v%s\n", Version)
	},
}

func init() {
	RootCmd.AddCommand(serve.ServeCmd, str.StringCommands, versionCmd)

	// serializer and transport apply to both the server and the client commands
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute runs the root command, called once from main
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
