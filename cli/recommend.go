package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/compatibility"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/recommender"
	"github.com/sammcj/hfscout/styles"
	"github.com/sammcj/hfscout/wizard"
)

func NewRecommendCommand(root *RootCommand) *cobra.Command {
	var (
		req  core.RequirementSpec
		lic  string
		top  int
		list bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend models for a use case, priority and hardware budget",
		Example: `  hfscout recommend --use-case chat --priority balanced --max-vram 16
  hfscout recommend --use-case code --priority quality --license commercial --top 5
  hfscout recommend --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return printProfiles(root.OutputOptions())
			}
			req.License = core.LicenseNeed(lic)
			if !cmd.Flags().Changed("top") {
				top = root.Config().DefaultTopN
			}
			return runRecommend(cmd.Context(), root, req, top)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.UseCase, "use-case", "", "Use case (chat, rag, code, analysis, creative, research)")
	flags.StringVar(&req.Priority, "priority", "", "Priority (speed, quality, balanced, cost)")
	flags.Float64Var(&req.MaxVRAM, "max-vram", 0, "Maximum VRAM in GB (0 for no limit)")
	flags.IntVar(&req.MinContext, "min-context", 0, "Minimum context length in tokens")
	flags.StringVar(&lic, "license", string(core.LicenseAny), "License requirement (any, commercial, research)")
	flags.StringSliceVar(&req.Frameworks, "framework", nil,
		"Only recommend models these frameworks can run ("+strings.Join(compatibility.FrameworkIDs(), ", ")+")")
	flags.IntVar(&top, "top", 3, "Number of recommendations")
	flags.BoolVar(&list, "list", false, "List the use cases and priorities")

	return cmd
}

func NewWizardCommand(root *RootCommand) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Answer a few questions and get model recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := wizard.Run(cmd.Context(), os.Stdin, os.Stdout, root.Config().AvailableVRAM)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				top = root.Config().DefaultTopN
			}
			return runRecommend(cmd.Context(), root, req, top)
		},
	}

	cmd.Flags().IntVar(&top, "top", 3, "Number of recommendations")

	return cmd
}

func runRecommend(ctx context.Context, root *RootCommand, req core.RequirementSpec, top int) error {
	if err := recommender.Validate(req); err != nil {
		return err
	}

	pool, err := root.loadPool(ctx)
	if err != nil {
		return err
	}
	recs := recommender.Recommend(pool, req, top)

	return PrintOutput(recs, root.OutputOptions(), func(w io.Writer) error {
		uc := recommender.LookupUseCase(req.UseCase)
		p := recommender.LookupPriority(req.Priority)
		heading(w, fmt.Sprintf("Recommendations for %s (%s)", uc.Name, p.Name))

		if len(recs) == 0 {
			fmt.Fprintln(w, styles.WarningStyle().Render("No models meet your requirements. Try relaxing the VRAM, context, license or framework constraints."))
			return nil
		}

		tw := newTable(w, []string{"#", "Model", "Score", "FP16", "Context", "License", "Why"})
		for i, rec := range recs {
			m := rec.Model
			tw.Append([]string{
				fmt.Sprintf("%d", i+1),
				m.ModelID,
				styles.ScoreStyle(rec.Score, 100).Render(fmt.Sprintf("%d", rec.Score)),
				styles.VRAMStyle(m.VRAM.FP16, req.MaxVRAM).Render(gb(m.VRAM.FP16)),
				fmt.Sprintf("%d", m.ContextLength()),
				styles.LicenseStyle(m.License.Status).Render(m.License.Name),
				strings.Join(rec.Reasons, "; "),
			})
		}
		tw.Render()
		return nil
	})
}

func printProfiles(opts *OutputOptions) error {
	data := map[string]any{
		"useCases":   recommender.UseCases(),
		"priorities": recommender.Priorities(),
	}
	return PrintOutput(data, opts, func(w io.Writer) error {
		heading(w, "Use cases")
		tw := newTable(w, []string{"Key", "Name", "Description", "Min context"})
		for _, uc := range recommender.UseCases() {
			tw.Append([]string{uc.Key, uc.Name, uc.Description, fmt.Sprintf("%d", uc.MinContext)})
		}
		tw.Render()

		fmt.Fprintln(w)
		heading(w, "Priorities")
		tw = newTable(w, []string{"Key", "Name", "Description"})
		for _, p := range recommender.Priorities() {
			tw.Append([]string{p.Key, p.Name, p.Description})
		}
		tw.Render()
		return nil
	})
}
