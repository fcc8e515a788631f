package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/styles"
	"github.com/sammcj/hfscout/vramestimator"
)

func NewQuantCommand(root *RootCommand) *cobra.Command {
	var (
		vram    float64
		context int
		quant   string
		kvCache string
	)

	cmd := &cobra.Command{
		Use:   "quant <author/model>",
		Short: "Estimate VRAM for every GGUF quantisation and context size",
		Example: `  hfscout quant mistralai/Mistral-7B-Instruct-v0.2 --vram 12
  hfscout quant mistralai/Mistral-7B-Instruct-v0.2 --vram 12 --quant Q4_K_M --context 16384`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := root.Explorer().Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec.Config == nil {
				return fmt.Errorf("%s has no config.json to estimate from", rec.ModelID)
			}

			kvq := vramestimator.KVCacheQuantisation(kvCache)
			switch kvq {
			case vramestimator.KVCacheFP16, vramestimator.KVCacheQ8_0, vramestimator.KVCacheQ4_0:
			default:
				return fmt.Errorf("invalid KV cache quantisation %q (use fp16, q8_0 or q4_0)", kvCache)
			}

			budget := root.vramBudget(vram)

			if quant != "" {
				return printSingleQuant(root, rec.ModelID, quant, budget, context, kvq, rec.Config)
			}

			table := vramestimator.GenerateQuantTable(rec.ModelID, rec.Config, budget)
			return PrintOutput(table, root.OutputOptions(), func(w io.Writer) error {
				fmt.Fprintln(w, vramestimator.PrintFormattedTable(table))
				if budget > 0 {
					best, err := vramestimator.CalculateBPW(rec.Config, budget, context, kvq)
					if err != nil {
						logging.DebugLogger.Printf("No quantisation fits %.1fGB: %v\n", budget, err)
						fmt.Fprintln(w, styles.WarningStyle().Render(fmt.Sprintf("No quantisation fits in %.1fGB", budget)))
					} else {
						fmt.Fprintln(w, styles.SuccessStyle().Render(fmt.Sprintf("Best fit for %.1fGB: %s", budget, best)))
					}
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&vram, "vram", 0, "Available VRAM in GB (default: config, then system memory)")
	flags.IntVar(&context, "context", 0, "Context length (default: the model's maximum)")
	flags.StringVar(&quant, "quant", "", "Only estimate this quantisation or bits per weight")
	flags.StringVar(&kvCache, "kv-cache", string(vramestimator.KVCacheFP16), "KV cache quantisation (fp16, q8_0, q4_0)")

	return cmd
}

type quantEstimate struct {
	ModelID    string  `json:"modelId"`
	Quant      string  `json:"quant"`
	BPW        float64 `json:"bpw"`
	Context    int     `json:"context"`
	KVCache    string  `json:"kvCache"`
	VRAM       float64 `json:"vram"`
	FitsVRAM   float64 `json:"fitsVRAM,omitempty"`
	MaxContext int     `json:"maxContext,omitempty"`
}

func printSingleQuant(root *RootCommand, modelID, quant string, budget float64, context int, kvq vramestimator.KVCacheQuantisation, cfg *core.ArchitectureConfig) error {
	bpw, err := vramestimator.ParseBPWOrQuant(quant)
	if err != nil {
		return err
	}
	if context <= 0 {
		context = cfg.ContextLength()
	}

	est := quantEstimate{
		ModelID:  modelID,
		Quant:    quant,
		BPW:      bpw,
		Context:  context,
		KVCache:  string(kvq),
		VRAM:     vramestimator.CalculateVRAM(cfg, bpw, context, kvq),
		FitsVRAM: budget,
	}
	if budget > 0 {
		est.MaxContext = vramestimator.CalculateContext(cfg, budget, bpw, kvq)
	}

	return PrintOutput(est, root.OutputOptions(), func(w io.Writer) error {
		heading(w, fmt.Sprintf("%s at %s", modelID, quant))
		rows := [][2]string{
			{"Bits per weight", fmt.Sprintf("%.2f", est.BPW)},
			{"Context", fmt.Sprintf("%d", est.Context)},
			{"KV cache", est.KVCache},
			{"VRAM", styles.VRAMStyle(est.VRAM, budget).Render(fmt.Sprintf("%.2f GB", est.VRAM))},
		}
		if budget > 0 {
			rows = append(rows, [2]string{fmt.Sprintf("Max context in %.1fGB", budget), fmt.Sprintf("%d", est.MaxContext)})
		}
		keyValues(w, rows)
		return nil
	})
}
