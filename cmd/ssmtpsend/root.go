// Command ssmtpsend is a thin example driver around package ssmtp. It is
// not part of the core session/MIME/transport engine — it exists to give
// that engine a flag-driven entry point, the way cmd/guerrillad is a
// driver around the rest of its repository.
package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ssmtpsend",
	Short: "send a single mail message over plain SMTP",
	Long:  `ssmtpsend delivers one mail message directly to a recipient domain's mail exchanger, without going through a local MTA.`,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print debug-level protocol logging")
}

func main() {
	_ = rootCmd.Execute()
}
