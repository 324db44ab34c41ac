package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/adminhub/pkg/dashboard"
	"github.com/rubiojr/adminhub/pkg/fetch"
	"github.com/rubiojr/adminhub/pkg/prefs"
	"github.com/rubiojr/adminhub/pkg/sites"
	"github.com/urfave/cli/v3"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	statusStyles = map[sites.Status]lipgloss.Style{
		sites.StatusOnline:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		sites.StatusSlow:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		sites.StatusOffline: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		sites.StatusNone:    metaStyle,
	}

	indicatorStyles = map[string]lipgloss.Style{
		"green":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		"yellow": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		"red":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

// FetchCommand creates the fetch command
func FetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Run one live data cycle and print the result",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the dashboard snapshot as JSON",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return fetchOnce(ctx, c.String("config"), c.Bool("json"))
		},
	}
}

// fetchOnce runs a single cycle without touching stored preferences.
func fetchOnce(ctx context.Context, configPath string, asJSON bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	session, err := newSession(cfg, prefs.New(prefs.NewMemoryStore()))
	if err != nil {
		return err
	}
	res := session.Refresh(ctx)

	if asJSON {
		data, err := session.JSON("")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	var status dashboard.Status
	session.Read(func(snap *dashboard.Snapshot) { status = snap.Status })
	fmt.Print(formatFetchOutput(cfg.Source, res, status))
	return nil
}

func formatFetchOutput(source string, res *fetch.LiveResult, status dashboard.Status) string {
	var output strings.Builder

	output.WriteString(titleStyle.Render("Live data from " + source))
	output.WriteString("\n")

	indicator, ok := indicatorStyles[status.Colour]
	if !ok {
		indicator = metaStyle
	}
	output.WriteString(indicator.Render(status.Text))
	output.WriteString("\n")
	output.WriteString(metaStyle.Render(fmt.Sprintf("cycle %s: sites=%s statistics=%s rss=%s",
		res.ID, res.Sites.Outcome, res.Statistics.Outcome, res.RSS.Outcome)))
	output.WriteString("\n")

	for name, err := range map[string]error{
		fetch.Sites.Name:      res.Sites.Err,
		fetch.Statistics.Name: res.Statistics.Err,
		fetch.RSS.Name:        res.RSS.Err,
	} {
		if err != nil {
			output.WriteString(statusStyles[sites.StatusOffline].Render(fmt.Sprintf("%s: %v", name, err)))
			output.WriteString("\n")
		}
	}

	if res.Sites.Doc == nil {
		return output.String()
	}

	width := 0
	for _, s := range res.Sites.Doc.Sites() {
		width = max(width, lipgloss.Width(s.ID))
	}

	for _, g := range res.Sites.Doc.Groups {
		output.WriteString("\n")
		output.WriteString(headerStyle.Render(g.Name))
		output.WriteString("\n")
		switch g.Body.Kind {
		case sites.BodyNested:
			for _, sg := range g.Body.Subgroups {
				output.WriteString("  " + metaStyle.Render(sg.SubgroupName) + "\n")
				writeSites(&output, sg.Sites, width, "    ")
			}
		default:
			writeSites(&output, g.Body.Sites, width, "  ")
		}
	}
	return output.String()
}

func writeSites(output *strings.Builder, list []sites.Site, width int, indent string) {
	for _, s := range list {
		st := s.DerivedStatus()
		text := st.Text()
		if text == "" {
			text = "-"
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(s.ID))
		fmt.Fprintf(output, "%s%s%s  %s %s\n", indent, s.ID, pad, statusStyles[st].Width(12).Render(text), s.Name)
	}
}
