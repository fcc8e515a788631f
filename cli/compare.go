package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/scoring"
	"github.com/sammcj/hfscout/styles"
)

const maxCompare = 4

type comparison struct {
	Model core.ModelRecord `json:"model"`
	Score core.ScoreRecord `json:"score"`
}

func NewCompareCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <author/model> <author/model>...",
		Short: "Compare up to four models side by side",
		Args:  cobra.RangeArgs(2, maxCompare),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]comparison, len(args))

			// Any failure fails the comparison; a partial table would mislead
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, id := range args {
				g.Go(func() error {
					rec, err := root.Explorer().Inspect(ctx, id)
					if err != nil {
						return fmt.Errorf("failed to inspect %s: %w", id, err)
					}
					rows[i] = comparison{Model: rec, Score: scoring.Score(rec)}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			return PrintOutput(rows, root.OutputOptions(), func(w io.Writer) error {
				writeComparison(w, rows)
				return nil
			})
		},
	}
}

func writeComparison(w io.Writer, rows []comparison) {
	header := []string{"Metric"}
	for _, r := range rows {
		header = append(header, r.Model.ModelID)
	}
	tw := newTable(w, header)

	metric := func(name string, value func(c comparison) string) {
		line := []string{name}
		for _, r := range rows {
			line = append(line, value(r))
		}
		tw.Append(line)
	}

	metric("Parameters", func(c comparison) string {
		if c.Model.VRAM.TotalParams <= 0 {
			return "?"
		}
		return fmt.Sprintf("%.1fB", c.Model.VRAM.TotalParams)
	})
	metric("FP16", func(c comparison) string { return gb(c.Model.VRAM.FP16) })
	metric("INT4", func(c comparison) string { return gb(c.Model.VRAM.INT4) })
	metric("Context", func(c comparison) string { return fmt.Sprintf("%d", c.Model.ContextLength()) })
	metric("License", func(c comparison) string {
		return styles.LicenseStyle(c.Model.License.Status).Render(c.Model.License.Name)
	})
	metric("Commercial", func(c comparison) string { return string(c.Model.License.Commercial) })
	metric("Downloads", func(c comparison) string { return fmt.Sprintf("%d", c.Model.Downloads) })
	metric("Likes", func(c comparison) string { return fmt.Sprintf("%d", c.Model.Likes) })
	metric("Score", func(c comparison) string {
		return styles.ScoreStyle(c.Score.Total, 100).Render(fmt.Sprintf("%d (%s)", c.Score.Total, c.Score.Rating.Label))
	})
	tw.Render()
}
