package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/adminhub/pkg/prefs"
	"github.com/urfave/cli/v3"
)

// PrefsCommand creates the prefs command
func PrefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Inspect and change stored dashboard preferences",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print one preference",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected a preference key")
					}
					return withPreferences(c.String("config"), func(p *prefs.Preferences) error {
						key := c.Args().First()
						if !prefs.Known(key) {
							return fmt.Errorf("unknown preference %q", key)
						}
						fmt.Println(p.Get(key))
						return nil
					})
				},
			},
			{
				Name:      "set",
				Usage:     "Store one preference (PinnedSites takes a comma separated list)",
				ArgsUsage: "<key> <value>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("expected a preference key and value")
					}
					return withPreferences(c.String("config"), func(p *prefs.Preferences) error {
						return setPreference(p, c.Args().Get(0), c.Args().Get(1))
					})
				},
			},
			{
				Name:  "list",
				Usage: "List every preference with its current value",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withPreferences(c.String("config"), func(p *prefs.Preferences) error {
						fmt.Print(formatPreferences(p))
						return nil
					})
				},
			},
		},
	}
}

func withPreferences(configPath string, fn func(*prefs.Preferences) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	p, closePrefs := openPreferences(cfg)
	defer closePrefs()
	if !p.Available() {
		return fmt.Errorf("preferences database %s is unavailable", cfg.PreferencesDB)
	}
	return fn(p)
}

func setPreference(p *prefs.Preferences, key, value string) error {
	if !prefs.Known(key) {
		return fmt.Errorf("unknown preference %q", key)
	}
	if key != prefs.KeyPinnedSites {
		p.Set(key, value)
		return nil
	}

	var ids []string
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return p.SavePinnedSites(ids)
}

func formatPreferences(p *prefs.Preferences) string {
	var output strings.Builder
	output.WriteString(titleStyle.Render("Preferences"))
	output.WriteString("\n")

	values := p.Snapshot()
	keys := make([]string, 0, len(values))
	width := 0
	for k := range values {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	slices.Sort(keys)

	keyStyle := lipgloss.NewStyle().Bold(true).Width(width + 2)
	for _, k := range keys {
		line := keyStyle.Render(k) + values[k]
		if _, stored := p.Store().Get(k); !stored {
			line += " " + metaStyle.Render("(default)")
		}
		output.WriteString(line)
		output.WriteString("\n")
	}
	return output.String()
}
