/*
Package main
File: cli.go
Description:
    Offline subcommands: `stats` prints the derived stats of a loadout
    file, `settings merge` layers settings files and prints the result.
*/

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/everforgeworks/regolith/internal/catalog"
	"github.com/everforgeworks/regolith/internal/loadout"
	"github.com/everforgeworks/regolith/internal/settings"
)

var statsCatalogPath string

var statsCmd = &cobra.Command{
	Use:   "stats <loadout.yaml>",
	Short: "Print the derived stats of a loadout file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := statsCatalogPath
		if path == "" {
			path = cfg.CatalogPath
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return err
		}
		l, err := readLoadout(args[0])
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), cat, l)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect settings layers",
}

var settingsMergeCmd = &cobra.Command{
	Use:   "merge <system.yaml> <user.yaml> [session.yaml]",
	Short: "Layer settings files, lowest precedence first, and print the result",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mergeSettingsFiles(cmd.OutOrStdout(), args...)
	},
}

func readLoadout(path string) (loadout.MiningLoadout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("read loadout: %w", err)
	}
	var l loadout.MiningLoadout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return loadout.MiningLoadout{}, fmt.Errorf("decode loadout %s: %w", path, err)
	}
	return l, nil
}

// printStats writes one line per stat in display order. Backward stats
// (where higher is worse) are marked with "*".
func printStats(w io.Writer, cat *catalog.Catalog, l loadout.MiningLoadout) {
	p := message.NewPrinter(language.English)
	stats := loadout.Calculate(cat, l)

	p.Fprintf(w, "%s (%s)\n", l.Name, l.Ship)
	for _, r := range loadout.Rules {
		mark := " "
		if loadout.IsBackward(r.Key) {
			mark = "*"
		}
		v := stats.Get(r.Key)
		switch r.Rule {
		case loadout.RuleFraction:
			p.Fprintf(w, "%s %-22s %+.1f%%\n", mark, r.Key, v*100)
		case loadout.RuleMultiplier:
			p.Fprintf(w, "%s %-22s x%.3f\n", mark, r.Key, v)
		default:
			p.Fprintf(w, "%s %-22s %.0f\n", mark, r.Key, v)
		}
	}
}

func mergeSettingsFiles(w io.Writer, paths ...string) error {
	layers := make([]settings.Destructured, 0, len(paths))
	for _, path := range paths {
		d, err := settings.LoadDefaults(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		layers = append(layers, d)
	}
	nested := settings.Reverse(settings.Layer(layers...))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nested); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}
