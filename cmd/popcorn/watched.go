package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

var watchedCmd = &cobra.Command{
	Use:   "watched",
	Short: "List, rate, and export the movies you watched",
	Long: `Watched manages the persisted list of rated movies. Adding a movie that
is already on the list replaces its rating and moves it to the end.`,
}

var watchedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched movies in the order they were rated",
	Args:  cobra.NoArgs,
	RunE:  runWatchedList,
}

var watchedSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the count and average ratings and runtime",
	Args:  cobra.NoArgs,
	RunE:  runWatchedSummary,
}

var watchedAddCmd = &cobra.Command{
	Use:   "add <imdbID>",
	Short: "Rate a movie and add it to the watched list",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchedAdd,
}

var watchedRemoveCmd = &cobra.Command{
	Use:   "remove <imdbID>",
	Short: "Remove a movie from the watched list",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchedRemove,
}

var watchedExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the watched list and its summary to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runWatchedExport,
}

func init() {
	watchedListCmd.Flags().Bool("json", false, "output the list as JSON")
	watchedSummaryCmd.Flags().Bool("json", false, "output the summary as JSON")
	watchedAddCmd.Flags().Int("rating", 0, fmt.Sprintf("your rating, 1-%d (required)", watched.MaxUserRating))
	watchedAddCmd.MarkFlagRequired("rating")
	watchedExportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	watchedExportCmd.Flags().String("output", "", "write to file instead of stdout")

	watchedCmd.AddCommand(watchedListCmd, watchedSummaryCmd, watchedAddCmd, watchedRemoveCmd, watchedExportCmd)
	rootCmd.AddCommand(watchedCmd)
}

func runWatchedList(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	list := e.store.List()
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), list)
	}
	printWatched(cmd.OutOrStdout(), list)
	return nil
}

func runWatchedSummary(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	sum := e.store.Summary()
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), sum)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d movies\n", sum.Count)
	fmt.Fprintf(w, "  IMDb rating: %g\n", sum.AvgExternalRating)
	fmt.Fprintf(w, "  Your rating: %g\n", sum.AvgUserRating)
	fmt.Fprintf(w, "  Runtime:     %g min\n", sum.AvgRuntime)
	return nil
}

func runWatchedAdd(cmd *cobra.Command, args []string) error {
	rating, _ := cmd.Flags().GetInt("rating")
	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	rec, err := app.AddRated(cmd.Context(), e.client, e.store, args[0], rating)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) rated %d\n", rec.Title, rec.ID, rec.UserRating)
	return nil
}

func runWatchedRemove(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	id := args[0]
	if !e.store.Contains(id) {
		return fmt.Errorf("%s is not in the watched list", id)
	}
	if err := e.store.Remove(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	return nil
}

func runWatchedExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	return watched.WriteExport(w, e.store.List(), format)
}

func printWatched(w io.Writer, list []types.WatchedRecord) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No watched movies yet")
		return
	}
	for _, r := range list {
		runtime := "N/A"
		if r.RuntimeMinutes > 0 {
			runtime = fmt.Sprintf("%d min", r.RuntimeMinutes)
		}
		fmt.Fprintf(w, "  %-10s  %-30s  ⭐ %-4g  🌟 %-2d  ⏳ %s\n", r.ID, r.Title, r.ExternalRating, r.UserRating, runtime)
	}
}
