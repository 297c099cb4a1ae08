package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"
	"github.com/ruminaider/selectfield/internal/catalog"
	"github.com/ruminaider/selectfield/internal/paths"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Create and check catalog files",
}

var catalogNewCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Build a catalog interactively",
	Long: "Prompt for items and write them to a catalog file. The format follows the " +
		"extension (.yaml, .json, .toml). Items already in the file are kept.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) {
			return errors.New("catalog new needs an interactive terminal")
		}
		return runCatalogNew(cmd.OutOrStdout(), catalogArg(args))
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:          "check [path]",
	Short:        "Validate a catalog file and report duplicate values",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkCatalog(cmd.OutOrStdout(), catalogArg(args))
	},
}

func init() {
	catalogCmd.AddCommand(catalogNewCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}

func catalogArg(args []string) string {
	if len(args) == 0 {
		return paths.CatalogFile()
	}
	return paths.Expand(args[0])
}

func runCatalogNew(w io.Writer, path string) error {
	items, err := catalog.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		items = nil
	} else if err != nil {
		return err
	}
	if len(items) > 0 {
		fmt.Fprintf(w, "%s already has %d items; new items are appended.\n", path, len(items))
	}

	for {
		var (
			value, text string
			more        bool
		)
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Value").
					Description("Identity of the item, printed when it is chosen").
					Validate(validateValue(items)).
					Value(&value),
				huh.NewInput().
					Title("Display text").
					Description("Shown in the menu and on the chip; empty uses the value").
					Value(&text),
				huh.NewConfirm().
					Title("Add another item?").
					Value(&more),
			),
		).Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		items = append(items, newItem(value, text))
		if !more {
			break
		}
	}

	if err := catalog.Save(path, items); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprint(w, "✓ ")
	fmt.Fprintf(w, "Wrote %d items to %s\n", len(items), path)
	return nil
}

// validateValue rejects empty values and values already in items.
func validateValue(items []catalog.Item[string]) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("value is required")
		}
		if _, ok := catalog.Lookup(items, s); ok {
			return fmt.Errorf("%q is already in the catalog", s)
		}
		return nil
	}
}

func newItem(value, text string) catalog.Item[string] {
	value = strings.TrimSpace(value)
	text = strings.TrimSpace(text)
	if text == "" {
		text = value
	}
	return catalog.Item[string]{Value: value, DisplayText: text}
}

// checkCatalog prints a report for the catalog at path. Duplicate values
// make it fail; items without display text only warn.
func checkCatalog(w io.Writer, path string) error {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	items, err := catalog.Load(path)
	if err != nil {
		red.Fprint(w, "✗ ")
		fmt.Fprintln(w, err)
		return err
	}

	green.Fprint(w, "✓ ")
	fmt.Fprintf(w, "%s: %d items (%s)\n", path, len(items), catalog.FormatFromPath(path))

	for _, it := range items {
		if strings.TrimSpace(it.DisplayText) == "" {
			yellow.Fprint(w, "! ")
			fmt.Fprintf(w, "item %q has no display text\n", it.Value)
		}
	}

	dups := catalog.Duplicates(items)
	if len(dups) == 0 {
		return nil
	}
	red.Fprint(w, "✗ ")
	fmt.Fprintf(w, "duplicate values: %s\n", strings.Join(dups, ", "))
	return fmt.Errorf("%s: %d duplicate values", path, len(dups))
}
