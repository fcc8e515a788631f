package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sammcj/hfscout/catalog"
	"github.com/sammcj/hfscout/huggingface"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/styles"
)

const defaultListLimit = 20

func NewSearchCommand(root *RootCommand) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the Hugging Face Hub, most downloaded first",
		Long: `Searches the Hub by name. When the Hub cannot be reached the curated catalogue is
searched instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			results, err := root.Client().Search(cmd.Context(), query, limit)
			if err != nil {
				if huggingface.ClassifyError(err).Kind != huggingface.KindNetwork {
					return err
				}
				logging.ErrorLogger.Printf("Search failed, using the offline catalogue: %v\n", err)
				return printSuggestions(root.OutputOptions(), query, limit)
			}
			return printSummaries(root.OutputOptions(), fmt.Sprintf("Results for %q", query), results)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "Maximum number of results")

	return cmd
}

func NewTrendingCommand(root *RootCommand) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most downloaded text generation models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := root.Client().Trending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printSummaries(root.OutputOptions(), "Trending models", results)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "Maximum number of results")

	return cmd
}

func printSummaries(opts *OutputOptions, title string, results []huggingface.ModelSummary) error {
	return PrintOutput(results, opts, func(w io.Writer) error {
		heading(w, title)
		if len(results) == 0 {
			fmt.Fprintln(w, styles.MutedStyle().Render("No models found."))
			return nil
		}
		tw := newTable(w, []string{"Model", "Downloads", "Likes", "Pipeline"})
		for _, m := range results {
			tw.Append([]string{m.Name(), fmt.Sprintf("%d", m.Downloads), fmt.Sprintf("%d", m.Likes), m.PipelineTag})
		}
		tw.Render()
		return nil
	})
}

func printSuggestions(opts *OutputOptions, query string, limit int) error {
	ids := catalog.Suggest(query, limit)
	entries := make([]catalog.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := catalog.Lookup(id); ok {
			entries = append(entries, e)
		}
	}

	return PrintOutput(entries, opts, func(w io.Writer) error {
		fmt.Fprintln(w, styles.WarningStyle().Render("Hugging Face is unreachable, showing matches from the offline catalogue."))
		if len(entries) == 0 {
			fmt.Fprintln(w, styles.MutedStyle().Render("No catalogue models match."))
			return nil
		}
		tw := newTable(w, []string{"Model", "Family", "Params", "Use cases"})
		for _, e := range entries {
			tw.Append([]string{e.ID, styles.FamilyStyle(e.Family).Render(e.Family), fmt.Sprintf("%.1fB", e.Params), strings.Join(e.UseCases, ", ")})
		}
		tw.Render()
		return nil
	})
}
