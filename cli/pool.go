package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/filter"
	"github.com/sammcj/hfscout/styles"
)

func NewPoolCommand(root *RootCommand) *cobra.Command {
	var (
		preset   string
		criteria filter.Criteria
		sortBy   string
		lic      string
		presets  bool
	)

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "List and filter the models used for alternatives and recommendations",
		Example: `  hfscout pool --preset lowEnd
  hfscout pool --max-vram 16 --license commercial --sort vram_low
  hfscout pool --presets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if presets {
				ps := filter.Presets()
				return PrintOutput(ps, root.OutputOptions(), func(w io.Writer) error {
					tw := newTable(w, []string{"Key", "Name", "Description"})
					for _, p := range ps {
						tw.Append([]string{p.Key, p.Name, p.Description})
					}
					tw.Render()
					return nil
				})
			}

			if preset != "" {
				p, ok := filter.LookupPreset(preset)
				if !ok {
					return fmt.Errorf("unknown preset %q", preset)
				}
				criteria = overlay(p.Criteria, criteria)
			}
			if lic != "" {
				criteria.License = filter.LicenseFilter(lic)
			}
			if sortBy != "" {
				if !slices.Contains(filter.SortKeys, filter.SortKey(sortBy)) {
					return fmt.Errorf("unknown sort key %q", sortBy)
				}
				criteria.SortBy = filter.SortKey(sortBy)
			}

			pool, err := root.loadPool(cmd.Context())
			if err != nil {
				return err
			}
			models := filter.Apply(pool, criteria)

			return PrintOutput(models, root.OutputOptions(), func(w io.Writer) error {
				heading(w, fmt.Sprintf("%d of %d pool models", len(models), len(pool)))
				tw := newTable(w, []string{"Model", "Params", "FP16", "Context", "License", "Downloads"})
				for _, m := range models {
					tw.Append([]string{
						m.ModelID,
						fmt.Sprintf("%.1fB", m.VRAM.TotalParams),
						gb(m.VRAM.FP16),
						fmt.Sprintf("%d", m.ContextLength()),
						styles.LicenseStyle(m.License.Status).Render(m.License.Name),
						fmt.Sprintf("%d", m.Downloads),
					})
				}
				tw.Render()
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&preset, "preset", "", "Start from a named filter preset")
	flags.Float64Var(&criteria.MaxVRAM, "max-vram", 0, "Maximum FP16 VRAM in GB")
	flags.IntVar(&criteria.MinContext, "min-context", 0, "Minimum context length")
	flags.Float64Var(&criteria.MinParams, "min-params", 0, "Minimum parameters in billions")
	flags.Float64Var(&criteria.MaxParams, "max-params", 0, "Maximum parameters in billions")
	flags.StringVar(&lic, "license", "", "License filter (all, commercial, non-commercial)")
	flags.StringVar(&sortBy, "sort", "", "Sort key (downloads, likes, name, vram_low, vram_high, context)")
	flags.BoolVar(&presets, "presets", false, "List the filter presets")

	return cmd
}

// overlay applies the non-zero fields of flags on top of base
func overlay(base, flags filter.Criteria) filter.Criteria {
	if flags.MaxVRAM > 0 {
		base.MaxVRAM = flags.MaxVRAM
	}
	if flags.MinContext > 0 {
		base.MinContext = flags.MinContext
	}
	if flags.MinParams > 0 {
		base.MinParams = flags.MinParams
	}
	if flags.MaxParams > 0 {
		base.MaxParams = flags.MaxParams
	}
	return base
}
