package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/alternatives"
	"github.com/sammcj/hfscout/styles"
)

func NewAlternativesCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:     "alternatives <author/model>",
		Aliases: []string{"alts"},
		Short:   "Find cheaper, better, more permissive or longer context models",
		Long: `Ranks the curated pool (or the models given with --pool) against a model and
lists up to three alternatives in each category.`,
		Example: `  hfscout alternatives meta-llama/Llama-2-13b-chat-hf
  hfscout alternatives meta-llama/Llama-2-7b-chat-hf --pool microsoft/phi-2,mistralai/Mistral-7B-Instruct-v0.2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec, err := root.Explorer().Inspect(ctx, args[0])
			if err != nil {
				return err
			}
			pool, err := root.loadPool(ctx)
			if err != nil {
				return err
			}

			res := alternatives.Find(rec, pool)
			out := struct {
				ModelID      string               `json:"modelId"`
				Alternatives alternatives.Result  `json:"alternatives"`
				Summary      alternatives.Summary `json:"summary"`
			}{rec.ModelID, res, alternatives.Summarise(res)}

			return PrintOutput(out, root.OutputOptions(), func(w io.Writer) error {
				heading(w, "Alternatives to "+rec.ModelID)
				if !rec.VRAM.Known() {
					fmt.Fprintln(w, styles.WarningStyle().Render("No memory estimate for this model, so it cannot be compared."))
					return nil
				}
				writeAlternatives(w, res)
				return nil
			})
		},
	}
}

func writeAlternatives(w io.Writer, res alternatives.Result) {
	if alternatives.Summarise(res).Total == 0 {
		fmt.Fprintln(w, styles.MutedStyle().Render("No alternatives found in the pool."))
		return
	}

	tw := newTable(w, []string{"Category", "Model", "FP16", "Why"})
	for _, a := range res.Cheaper {
		tw.Append([]string{"cheaper", a.Model.ModelID, gb(a.Model.VRAM.FP16),
			fmt.Sprintf("%s, %s", a.Savings.Label, a.Tradeoff)})
	}
	for _, a := range res.Better {
		tw.Append([]string{"better", a.Model.ModelID, gb(a.Model.VRAM.FP16),
			fmt.Sprintf("%s, +%.1fGB", a.Improvement.Quality, a.Cost.AdditionalVRAM)})
	}
	for _, a := range res.License {
		tw.Append([]string{"license", a.Model.ModelID, gb(a.Model.VRAM.FP16),
			fmt.Sprintf("%s instead of %s", a.License.Alternative, a.License.Current)})
	}
	for _, a := range res.Context {
		tw.Append([]string{"context", a.Model.ModelID, gb(a.Model.VRAM.FP16),
			fmt.Sprintf("%s vs %s (%s)", a.Context.Alternative, a.Context.Current, a.Context.Multiplier)})
	}
	tw.Render()
}

func gb(v float64) string {
	if v <= 0 {
		return "?"
	}
	return fmt.Sprintf("%.1f GB", v)
}
