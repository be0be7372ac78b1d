package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/platform/tui"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the terminal key table",
	Long: `Lists every stage key and the terminal key names that produce it.

Terminals report key presses but no releases; a key counts as released once
frame.key_release_after has passed without a repeat. Modifier keys are never
reported on their own and have no terminal name.`,
	Args: cobra.NoArgs,
	Run:  runKeys,
}

func runKeys(cmd *cobra.Command, args []string) {
	km := tui.DefaultKeyMap()

	fmt.Printf("  %-14s  %s\n", "Key", "Terminal")
	fmt.Printf("  %-14s  %s\n", "---", "--------")

	for _, b := range km.Keys {
		names := "-"
		if b.Enabled() {
			names = b.Help().Key
		}
		fmt.Printf("  %-14s  %s\n", b.Key, names)
	}

	fmt.Println()
	fmt.Printf("  %-14s  %s\n", "quit", km.Quit.Help().Key)
	fmt.Printf("  %-14s  %s\n", "help", km.Help.Help().Key)
}
