package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/compatibility"
	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/hardware"
	"github.com/sammcj/hfscout/styles"
)

func NewCompatibilityCommand(root *RootCommand) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "compatibility <author/model>",
		Aliases: []string{"compat"},
		Short:   "Show which frameworks, hardware and formats can run a model",
		Example: `  hfscout compatibility mistralai/Mistral-7B-Instruct-v0.2
  hfscout compat microsoft/phi-2 --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := root.Explorer().Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a := compatibility.Analyze(rec)
			return PrintOutput(a, root.OutputOptions(), func(w io.Writer) error {
				heading(w, rec.ModelID)
				writeCompatibility(w, a, all)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include hardware, weight formats and deployment options")

	return cmd
}

func yesNo(ok bool) string {
	if ok {
		return styles.SuccessStyle().Render("yes")
	}
	return styles.MutedStyle().Render("no")
}

func writeCompatibility(w io.Writer, a compatibility.Analysis, all bool) {
	s := a.Summary
	style := styles.WarningStyle()
	switch s.Overall {
	case "Excellent":
		style = styles.SuccessStyle()
	case "Good":
		style = styles.InfoStyle()
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("Framework compatibility: %s (frameworks %d%%, formats %d%%, features %d%%)",
		s.Overall, s.FrameworkScore, s.QuantizationScore, s.FeatureScore)))

	tw := newTable(w, []string{"Framework", "Compatible", "Confidence", "Install", "Notes"})
	for _, f := range a.Frameworks {
		tw.Append([]string{f.Name, yesNo(f.Compatible), fmt.Sprintf("%d%%", f.Confidence), f.InstallCmd, strings.Join(f.Notes, "; ")})
	}
	tw.Render()

	fmt.Fprintln(w)
	tw = newTable(w, []string{"Feature", "Supported", "Benefit"})
	for _, f := range a.Features {
		tw.Append([]string{f.Name, yesNo(f.Supported), f.Benefit})
	}
	tw.Render()

	if !all {
		return
	}

	fmt.Fprintln(w)
	heading(w, "Hardware")
	tw = newTable(w, []string{"Class", "Compatible", "Options", "Recommendation"})
	for _, h := range a.Hardware {
		names := make([]string, 0, len(h.Options))
		for _, o := range h.Options {
			name := o.Name
			if o.Provider != "" {
				name = o.Provider + " " + name
			}
			names = append(names, name)
		}
		tw.Append([]string{h.Name, yesNo(h.Compatible), strings.Join(names, ", "), h.Recommendation})
	}
	tw.Render()

	fmt.Fprintln(w)
	heading(w, "Weight formats")
	tw = newTable(w, []string{"Format", "Available", "VRAM", "Quality"})
	for _, f := range a.Quantization {
		tw.Append([]string{f.Name, yesNo(f.Supported), f.VRAM, f.Quality})
	}
	tw.Render()

	fmt.Fprintln(w)
	heading(w, "Deployment")
	tw = newTable(w, []string{"Option", "Suitable", "Cost", "Targets"})
	for _, d := range a.Deployment {
		cost := d.CostEstimate
		if cost == "" {
			cost = d.Recommendation
		}
		tw.Append([]string{d.Name, yesNo(d.Suitable), cost, strings.Join(d.Targets, ", ")})
	}
	tw.Render()
}

func writeTCO(w io.Writer, t hardware.TCO) {
	heading(w, fmt.Sprintf("Three year cost at %d tokens/month", t.Usage.TokensPerMonth))
	cloud := "-"
	if t.Cloud.Available {
		cloud = fmt.Sprintf("$%.0f", t.ThreeYear.CloudGPU)
	}
	tw := newTable(w, []string{"Option", "Year one", "Three years", "Notes"})
	tw.Append([]string{"Cheapest API", fmt.Sprintf("$%.0f", t.Years[0].API), fmt.Sprintf("$%.0f", t.ThreeYear.API), ""})
	if t.Cloud.Available {
		tw.Append([]string{"Cloud GPU", fmt.Sprintf("$%.0f", t.Years[0].CloudGPU), cloud, t.Cloud.Instance})
	}
	tw.Append([]string{"Self-hosted", fmt.Sprintf("$%.0f", t.Years[0].SelfHosted), fmt.Sprintf("$%.0f", t.ThreeYear.SelfHosted),
		fmt.Sprintf("%s, $%.0f/month power", t.SelfHosted.GPU, t.SelfHosted.PowerMonthly)})
	tw.Render()

	be := t.BreakEven
	for _, p := range []struct {
		label string
		pb    hardware.Payback
	}{
		{"Cloud GPU vs API", be.CloudVsAPI},
		{"Self-hosted vs API", be.SelfHostedVsAPI},
		{"Self-hosted vs cloud", be.SelfHostedVsCloud},
	} {
		fmt.Fprintf(w, "%s: %s\n", p.label, p.pb.Note)
	}
	for _, r := range t.Recommendations {
		style := styles.InfoStyle()
		switch r.Type {
		case core.RecommendSuccess:
			style = styles.SuccessStyle()
		case core.RecommendWarning:
			style = styles.WarningStyle()
		}
		fmt.Fprintln(w, style.Render(fmt.Sprintf("- %s: %s", r.Message, r.Reason)))
	}
}
