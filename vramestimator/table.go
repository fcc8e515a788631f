// File: vramestimator/table.go

package vramestimator

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/logging"
)

// GenerateQuantTable estimates every GGUF quantisation at the standard context sizes.
// A zero fitsVRAM falls back to the system memory.
func GenerateQuantTable(modelID string, cfg *core.ArchitectureConfig, fitsVRAM float64) QuantResultTable {
	if fitsVRAM == 0 {
		var err error
		fitsVRAM, err = GetAvailableMemory()
		if err != nil {
			logging.ErrorLogger.Printf("Failed to get available memory: %v. Using default value.", err)
			fitsVRAM = 24 // Default to 24GB if we can't determine available memory
		}
	}

	table := QuantResultTable{ModelID: modelID, FitsVRAM: fitsVRAM}

	for quantType, bpw := range GGUFMapping {
		result := QuantResult{
			QuantType: quantType,
			BPW:       bpw,
			Contexts:  make(map[int]ContextVRAM, len(contextSizes)),
		}

		for _, context := range contextSizes {
			result.Contexts[context] = ContextVRAM{
				VRAM:     CalculateVRAM(cfg, bpw, context, KVCacheFP16),
				VRAMQ8_0: CalculateVRAM(cfg, bpw, context, KVCacheQ8_0),
				VRAMQ4_0: CalculateVRAM(cfg, bpw, context, KVCacheQ4_0),
			}
		}
		table.Results = append(table.Results, result)
	}

	// Sort the results from lowest BPW to highest
	sort.Slice(table.Results, func(i, j int) bool {
		if table.Results[i].BPW == table.Results[j].BPW {
			return table.Results[i].QuantType < table.Results[j].QuantType
		}
		return table.Results[i].BPW < table.Results[j].BPW
	})

	return table
}

func PrintFormattedTable(table QuantResultTable) string {
	var buf bytes.Buffer
	tw := newTableWriter(&buf, []string{"Quant|Ctx", "BPW", "2K", "8K", "16K", "32K", "49K", "64K"})

	for _, result := range table.Results {
		row := []string{
			result.QuantType,
			fmt.Sprintf("%.2f", result.BPW),
		}

		for _, context := range contextSizes {
			vram := result.Contexts[context]

			fp16Str := colourVRAM(vram.VRAM, fmt.Sprintf("%.1f", vram.VRAM), table.FitsVRAM)

			if context >= 16384 {
				q8Str := colourVRAM(vram.VRAMQ8_0, fmt.Sprintf("%.1f", vram.VRAMQ8_0), table.FitsVRAM)
				q4Str := colourVRAM(vram.VRAMQ4_0, fmt.Sprintf("%.1f", vram.VRAMQ4_0), table.FitsVRAM)
				row = append(row, fmt.Sprintf("%s(%s,%s)", fp16Str, q8Str, q4Str))
			} else {
				row = append(row, fp16Str)
			}
		}

		tw.Append(row)
	}

	tw.Render()

	return lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Render(fmt.Sprintf("📊 VRAM Estimation for Model: %s\n\n%s", table.ModelID, buf.String()))
}

// PrintEstimateTable renders the per-precision estimate, colouring values against fitsVRAM
func PrintEstimateTable(modelID string, est core.VRAMEstimate, fitsVRAM float64) string {
	var buf bytes.Buffer
	tw := newTableWriter(&buf, []string{"Params", "FP32", "FP16", "INT8", "INT4"})

	row := []string{fmt.Sprintf("%.1fB", est.TotalParams)}
	for _, v := range []float64{est.FP32, est.FP16, est.INT8, est.INT4} {
		row = append(row, colourVRAM(v, fmt.Sprintf("%.1f GB", v), fitsVRAM))
	}
	tw.Append(row)
	tw.Render()

	tier := RecommendGPUTier(est.FP16)
	footer := fmt.Sprintf("GPU tier (FP16): %s, %s", tier.Tier, tier.Cost)

	return lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Render(fmt.Sprintf("📊 VRAM Estimation for Model: %s\n\n%s%s\n", modelID, buf.String(), footer))
}

func newTableWriter(buf *bytes.Buffer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(buf)
	tw.SetHeader(header)

	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.SetColumnSeparator("|")
	tw.SetRowSeparator("-")

	// Set header colour to bright white
	headerColours := make([]tablewriter.Colors, len(header))
	for i := range headerColours {
		headerColours[i] = tablewriter.Colors{tablewriter.FgHiWhiteColor}
	}
	tw.SetHeaderColor(headerColours...)

	return tw
}
