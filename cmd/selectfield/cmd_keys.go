package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/noborus/ov/oviewer"
	"github.com/ruminaider/selectfield/cmd/selectfield/tui"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show key and mouse bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := tui.KeyHelp(tui.DefaultKeyMap)
		if !term.IsTerminal(os.Stdout.Fd()) {
			_, err := fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		return page(text)
	},
}

// page shows text in a pager.
func page(text string) error {
	root, err := oviewer.NewRoot(strings.NewReader(text))
	if err != nil {
		return err
	}

	// Leave the screen as it was on exit.
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
