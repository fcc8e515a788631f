package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/license"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/scoring"
	"github.com/sammcj/hfscout/styles"
	"github.com/sammcj/hfscout/vramestimator"
)

func NewInspectCommand(root *RootCommand) *cobra.Command {
	var vram float64

	cmd := &cobra.Command{
		Use:   "inspect <author/model>",
		Short: "Show a model's metadata, license and memory estimate",
		Example: `  hfscout inspect mistralai/Mistral-7B-Instruct-v0.2
  hfscout inspect meta-llama/Llama-2-7b-chat-hf --vram 12 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := root.Explorer().Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			budget := root.vramBudget(vram)
			return PrintOutput(rec, root.OutputOptions(), func(w io.Writer) error {
				heading(w, rec.ModelID)
				keyValues(w, recordRows(rec))
				if rec.VRAM.Known() {
					fmt.Fprintln(w)
					fmt.Fprintln(w, vramestimator.PrintEstimateTable(rec.ModelID, rec.VRAM, budget))
					if budget > 0 {
						c := vramestimator.CheckCompatibility(rec.VRAM.FP16, budget)
						fmt.Fprintln(w, styles.VRAMStyle(rec.VRAM.FP16, budget).Render(
							fmt.Sprintf("FP16 on %.0fGB: %s (%d%% used)", budget, c.Recommendation, c.UtilizationPercent)))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&vram, "vram", 0, "Available VRAM in GB to check the estimate against")

	return cmd
}

func NewReportCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "report <author/model>",
		Short: "Score a model and rank it against the curated pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := root.Explorer().Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintOutput(report, root.OutputOptions(), func(w io.Writer) error {
				heading(w, report.Model.ModelID)
				keyValues(w, recordRows(report.Model))
				fmt.Fprintln(w)
				writeScore(w, report.Score)
				fmt.Fprintln(w)
				writeAdvice(w, report.Model.License, report.Advice)
				fmt.Fprintln(w)
				writeAlternatives(w, report.Alternatives)
				if len(report.GPUs.Recommended) > 0 {
					fmt.Fprintln(w)
					writeGPUs(w, report.GPUs)
				}
				if report.MultiGPU.Needed {
					fmt.Fprintln(w, styles.WarningStyle().Render(report.MultiGPU.Message))
				}
				fmt.Fprintln(w)
				writeCompatibility(w, report.Compatibility, false)
				if report.TCO != nil {
					fmt.Fprintln(w)
					writeTCO(w, *report.TCO)
				}
				return nil
			})
		},
	}
}

func NewScoreCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "score <author/model>",
		Short: "Rate a model's production readiness out of 100",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := root.Explorer().Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			score := scoring.Score(rec)
			logging.DebugLogger.Printf("Scored %s: %d\n", rec.ModelID, score.Total)
			return PrintOutput(score, root.OutputOptions(), func(w io.Writer) error {
				heading(w, rec.ModelID)
				writeScore(w, score)
				return nil
			})
		},
	}
}

// NewLicenseCommand classifies a license identifier, or a model's license when given a model ID
func NewLicenseCommand(root *RootCommand) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "license [identifier | author/model]",
		Short: "Explain what a license allows",
		Example: `  hfscout license apache-2.0
  hfscout license meta-llama/Llama-2-7b-chat-hf
  hfscout license --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				ids := license.Known()
				return PrintOutput(ids, root.OutputOptions(), func(w io.Writer) error {
					tw := newTable(w, []string{"License", "Status", "Commercial"})
					for _, id := range ids {
						rec := license.Classify(id)
						tw.Append([]string{id, styles.LicenseStyle(rec.Status).Render(string(rec.Status)), string(rec.Commercial)})
					}
					tw.Render()
					return nil
				})
			}
			if len(args) == 0 {
				return fmt.Errorf("a license identifier or model ID is required")
			}

			identifier := args[0]
			if strings.Contains(identifier, "/") {
				rec, err := root.Explorer().Inspect(cmd.Context(), identifier)
				if err != nil {
					return err
				}
				identifier = rec.RawLicense
			}

			out := struct {
				License    core.LicenseRecord    `json:"license"`
				Commercial license.CommercialUse `json:"commercial"`
				Advice     license.Advice        `json:"advice"`
			}{license.Classify(identifier), license.CanUseCommercially(identifier), license.DeploymentAdvice(identifier)}

			return PrintOutput(out, root.OutputOptions(), func(w io.Writer) error {
				writeAdvice(w, out.License, out.Advice)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List every known license")

	return cmd
}

func recordRows(rec core.ModelRecord) [][2]string {
	rows := [][2]string{
		{"Author", rec.Author},
		{"Downloads", fmt.Sprintf("%d", rec.Downloads)},
		{"Likes", fmt.Sprintf("%d", rec.Likes)},
		{"License", styles.LicenseStyle(rec.License.Status).Render(fmt.Sprintf("%s (%s)", rec.License.Name, rec.License.Status))},
		{"Library", rec.Library},
		{"Pipeline", rec.PipelineTag},
	}
	if rec.LastModified != nil {
		rows = append(rows, [2]string{"Updated", rec.LastModified.Format("2006-01-02")})
	}
	if rec.Config != nil {
		rows = append(rows,
			[2]string{"Architecture", rec.Config.ModelType},
			[2]string{"Context", fmt.Sprintf("%d", rec.ContextLength())},
		)
	}
	if rec.Quantization.Quantized {
		rows = append(rows, [2]string{"Quantization", fmt.Sprintf("%s %d-bit", rec.Quantization.Method, rec.Quantization.Bits)})
	}
	if rec.Gated {
		rows = append(rows, [2]string{"Gated", "yes"})
	}
	if rec.Card != nil && rec.Card.Description != "" {
		rows = append(rows, [2]string{"Description", rec.Card.Description})
	}
	return rows
}

func writeScore(w io.Writer, score core.ScoreRecord) {
	fmt.Fprintln(w, styles.ScoreStyle(score.Total, 100).Render(
		fmt.Sprintf("Deployment score: %d/100 (%s)", score.Total, score.Rating.Label)))

	tw := newTable(w, []string{"Category", "Score", "Details", "Issues"})
	for _, c := range core.ScoreCategories {
		s := score.Scores[c]
		tw.Append([]string{
			string(c),
			styles.ScoreStyle(s.Score, s.MaxScore).Render(fmt.Sprintf("%d/%d", s.Score, s.MaxScore)),
			strings.Join(s.Details, "; "),
			strings.Join(s.Issues, "; "),
		})
	}
	tw.Render()

	for _, rec := range score.Recommendations {
		style := styles.InfoStyle()
		switch rec.Type {
		case core.RecommendSuccess:
			style = styles.SuccessStyle()
		case core.RecommendWarning:
			style = styles.WarningStyle()
		}
		fmt.Fprintln(w, style.Render("- "+rec.Message))
	}
}

func writeAdvice(w io.Writer, rec core.LicenseRecord, advice license.Advice) {
	fmt.Fprintln(w, styles.LicenseStyle(rec.Status).Render(fmt.Sprintf("%s: %s", rec.Name, rec.Summary)))
	keyValues(w, [][2]string{
		{"Commercial", string(rec.Commercial)},
		{"Modification", string(rec.Modification)},
		{"Distribution", string(rec.Distribution)},
		{"Deployment", fmt.Sprintf("%s - %s", advice.Status, advice.Message)},
		{"Actions", strings.Join(advice.Actions, "; ")},
		{"Risks", advice.Risks},
	})
	for _, warning := range rec.Warnings {
		fmt.Fprintln(w, styles.WarningStyle().Render("! "+warning))
	}
}

// vramBudget resolves the memory budget: the flag, then the config, then system memory
func (r *RootCommand) vramBudget(flag float64) float64 {
	if flag > 0 {
		return flag
	}
	if r.cfg.AvailableVRAM > 0 {
		return r.cfg.AvailableVRAM
	}
	mem, err := vramestimator.GetAvailableMemory()
	if err != nil {
		logging.ErrorLogger.Printf("Failed to get available memory: %v\n", err)
		return 0
	}
	return mem
}
