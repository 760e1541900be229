package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var shortcutMethods = []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"}

func newShortcutCmd(method string) *cobra.Command {
	name := strings.ToLower(method)
	c := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("perform a %s request", method),
		Long: fmt.Sprintf(`perform a %s request. this takes the same flags as fetch, except for -X

usage:
httpfetch %s http://localhost:14000/index
`, method, name),
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runFetch(args[0], method)
		},
	}
	addRequestFlags(c)
	return c
}

func init() {
	for _, m := range shortcutMethods {
		rootCmd.AddCommand(newShortcutCmd(m))
	}
}
