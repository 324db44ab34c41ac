package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/urfave/cli/v3"
)

// ValidateCommand creates the validate command
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a sites.json file for structural errors",
		ArgsUsage: "<sites.json>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one sites.json path")
			}
			return validateSites(c.Args().First())
		},
	}
}

func validateSites(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := sites.Parse(data)
	var verr *sites.ValidationError
	if errors.As(err, &verr) {
		fmt.Println(statusStyles[sites.StatusOffline].Render("✗ " + verr.Error()))
		return fmt.Errorf("%s is not valid (%s)", path, verr.Rule)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	nested := 0
	for _, g := range doc.Groups {
		if g.Body.Kind == sites.BodyNested {
			nested++
		}
	}
	fmt.Println(statusStyles[sites.StatusOnline].Render("✓ " + path + " is valid"))
	fmt.Println(metaStyle.Render(fmt.Sprintf("%d groups (%d with subgroups), %d sites",
		len(doc.Groups), nested, len(doc.Sites()))))
	return nil
}
