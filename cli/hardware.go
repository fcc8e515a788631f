package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/hardware"
	"github.com/sammcj/hfscout/styles"
	"github.com/sammcj/hfscout/vramestimator"
)

type hardwarePlan struct {
	ModelID    string                        `json:"modelId,omitempty"`
	VRAM       float64                       `json:"vram"`
	Tier       vramestimator.GPUTier         `json:"tier"`
	GPUs       hardware.GPURecommendation    `json:"gpus"`
	Cloud      []hardware.CloudInstance      `json:"cloud"`
	Deployment hardware.DeploymentComparison `json:"deployment"`
	MultiGPU   hardware.MultiGPUPlan         `json:"multiGpu"`
	Batch      *hardware.BatchPlan           `json:"batch,omitempty"`
	Throughput *hardware.ThroughputEstimate  `json:"throughput,omitempty"`
	TCO        hardware.TCO                  `json:"tco"`
}

func NewHardwareCommand(root *RootCommand) *cobra.Command {
	var (
		vram    float64
		tokens  int64
		hours   float64
		gpuID   string
		context int
		mau     int64
	)

	cmd := &cobra.Command{
		Use:   "hardware [author/model]",
		Short: "Recommend GPUs, cloud instances and a deployment model for a VRAM requirement",
		Long: `Sizes hardware for a model's FP16 estimate, or for --vram when no model is given.
Choosing a GPU with --gpu adds batch size and throughput estimates.`,
		Example: `  hfscout hardware mistralai/Mistral-7B-Instruct-v0.2 --tokens 10000000
  hfscout hardware --vram 40 --hours 200
  hfscout hardware --vram 14 --gpu rtx-4090 --context 4096`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := hardwarePlan{VRAM: vram}
			if len(args) == 1 {
				rec, err := root.Explorer().Inspect(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !rec.VRAM.Known() {
					return fmt.Errorf("%s has no memory estimate; pass --vram instead", rec.ModelID)
				}
				plan.ModelID, plan.VRAM = rec.ModelID, rec.VRAM.FP16
				if context <= 0 {
					context = rec.ContextLength()
				}
			}
			if plan.VRAM <= 0 {
				return fmt.Errorf("a model ID or a positive --vram is required")
			}

			plan.Tier = vramestimator.RecommendGPUTier(plan.VRAM)
			plan.GPUs = hardware.RecommendGPUs(plan.VRAM)
			plan.Cloud = hardware.CloudCosts(plan.VRAM, hours)
			plan.Deployment = hardware.CompareDeployment(tokens, plan.VRAM)
			plan.MultiGPU = hardware.MultiGPU(plan.VRAM)
			plan.TCO = hardware.CalculateTCO(plan.VRAM, hardware.Usage{
				TokensPerMonth:     tokens,
				HoursPerDay:        hours / 30,
				DaysPerMonth:       30,
				MonthlyActiveUsers: mau,
			})

			if gpuID != "" {
				gpu, ok := hardware.LookupGPU(gpuID)
				if !ok {
					return fmt.Errorf("unknown GPU %q", gpuID)
				}
				batch := hardware.BatchSizes(float64(gpu.VRAM), plan.VRAM, context)
				tput := hardware.Throughput(gpu, batch.Recommended)
				plan.Batch, plan.Throughput = &batch, &tput
			}

			return PrintOutput(plan, root.OutputOptions(), func(w io.Writer) error {
				writeHardwarePlan(w, plan, tokens)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&vram, "vram", 0, "VRAM requirement in GB when no model is given")
	flags.Int64Var(&tokens, "tokens", 1_000_000, "Tokens per month for the deployment comparison")
	flags.Float64Var(&hours, "hours", hardware.DefaultHoursPerMonth, "Cloud GPU hours per month")
	flags.StringVar(&gpuID, "gpu", "", "GPU ID to size batches and throughput for")
	flags.IntVar(&context, "context", 0, "Context length for batch sizing")
	flags.Int64Var(&mau, "mau", 0, "Monthly active users, checked against license user caps")

	return cmd
}

func writeHardwarePlan(w io.Writer, plan hardwarePlan, tokens int64) {
	title := fmt.Sprintf("Hardware for %.1fGB", plan.VRAM)
	if plan.ModelID != "" {
		title = fmt.Sprintf("Hardware for %s (%.1fGB FP16)", plan.ModelID, plan.VRAM)
	}
	heading(w, title)
	fmt.Fprintf(w, "Tier: %s (%s), cloud: %s\n\n", plan.Tier.Tier, plan.Tier.Cost, plan.Tier.Cloud)

	writeGPUs(w, plan.GPUs)
	if plan.MultiGPU.Needed {
		fmt.Fprintln(w, styles.WarningStyle().Render(plan.MultiGPU.Message))
		tw := newTable(w, []string{"GPUs", "Model", "Total VRAM", "Strategy", "Complexity"})
		for _, c := range plan.MultiGPU.Configurations {
			tw.Append([]string{fmt.Sprintf("%d", c.GPUs), c.Model, fmt.Sprintf("%d GB", c.TotalVRAM), c.Strategy, c.Complexity})
		}
		tw.Render()
	}

	fmt.Fprintln(w)
	heading(w, "Cloud")
	tw := newTable(w, []string{"Provider", "Instance", "GPU", "Price", "Monthly"})
	for _, c := range plan.Cloud {
		tw.Append([]string{c.Provider, c.Name, c.GPU, fmt.Sprintf("$%.4g/%s", c.Price, c.Unit), fmt.Sprintf("$%.0f", c.MonthlyCost)})
	}
	tw.Render()

	fmt.Fprintln(w)
	d := plan.Deployment
	heading(w, fmt.Sprintf("Deployment at %d tokens/month", tokens))
	tw = newTable(w, []string{"Option", "Monthly", "Notes"})
	for _, a := range d.API {
		tw.Append([]string{a.Name, fmt.Sprintf("$%.2f", a.Monthly), fmt.Sprintf("$%g per 1K tokens", a.CostPer1K)})
	}
	tw.Append([]string{d.Cloud.Name, fmt.Sprintf("$%.2f", d.Cloud.Monthly), d.Cloud.Setup})
	tw.Append([]string{d.Dedicated.Name, fmt.Sprintf("$%.0f upfront", d.Dedicated.Upfront), d.Dedicated.Setup})
	tw.Render()
	if d.BreakEven.Available {
		fmt.Fprintf(w, "Dedicated hardware pays for itself in %.1f months\n", d.BreakEven.Months)
	}
	fmt.Fprintln(w, styles.InfoStyle().Render(fmt.Sprintf("Recommendation: %s (%s)", d.Recommendation.Type, d.Recommendation.Reason)))

	fmt.Fprintln(w)
	writeTCO(w, plan.TCO)

	if plan.Batch != nil && plan.Throughput != nil {
		fmt.Fprintln(w)
		keyValues(w, [][2]string{
			{"Batch size", fmt.Sprintf("%d (conservative %d, aggressive %d, max %d)",
				plan.Batch.Recommended, plan.Batch.Conservative, plan.Batch.Aggressive, plan.Batch.Maximum)},
			{"Tokens/s", fmt.Sprintf("%d", plan.Throughput.TokensPerSecond)},
			{"Requests/s", fmt.Sprintf("%.2f", plan.Throughput.RequestsPerSecond)},
			{"Tokens/day", fmt.Sprintf("%d", plan.Throughput.DailyTokens)},
		})
		if plan.Batch.Note != "" {
			fmt.Fprintln(w, styles.WarningStyle().Render(plan.Batch.Note))
		}
	}
}

func writeGPUs(w io.Writer, rec hardware.GPURecommendation) {
	if len(rec.Recommended) == 0 {
		fmt.Fprintln(w, styles.WarningStyle().Render("No single GPU has enough headroom."))
		return
	}
	tw := newTable(w, []string{"GPU", "VRAM", "Tier", "Price", "Utilisation"})
	for _, g := range rec.Recommended {
		tw.Append([]string{g.Name, fmt.Sprintf("%d GB", g.VRAM), string(g.Tier), fmt.Sprintf("$%d", g.Price), fmt.Sprintf("%d%%", g.Utilization)})
	}
	tw.Render()
}
