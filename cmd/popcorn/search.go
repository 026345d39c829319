package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search OMDb for movies by title",
	Long: `Search sends the query to OMDb and lists matching movies in the order
OMDb returns them. Queries shorter than three characters are not sent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	query := strings.Join(args, " ")

	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	st := search.Search(cmd.Context(), e.client, query)
	switch st.Phase {
	case search.PhaseIdle:
		return fmt.Errorf("query %q is shorter than %d characters", query, search.MinQueryLength)
	case search.PhaseFailed:
		return errors.New(st.Message)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), st.Results)
	}
	printResults(cmd.OutOrStdout(), st.Results)
	return nil
}

func printResults(w io.Writer, items []types.SearchResultItem) {
	fmt.Fprintf(w, "Found %d results\n", len(items))
	for _, it := range items {
		fmt.Fprintf(w, "  %-10s  %-9s  %s\n", it.ID, it.Year, it.Title)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
