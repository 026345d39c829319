package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/popcorn/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <imdbID>",
	Short: "Show the details of one movie",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "output the movie as JSON")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	e, err := newEnv(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.client.Detail(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading movie details: %w", err)
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), d)
	}

	printDetail(cmd.OutOrStdout(), d)
	if rec, ok := e.store.Get(d.ID); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "\nYou rated this movie %d\n", rec.UserRating)
	}
	return nil
}

func printDetail(w io.Writer, d types.MovieDetail) {
	fmt.Fprintf(w, "%s (%s)\n", d.Title, d.Year)
	fmt.Fprintf(w, "%s • %s\n", d.Released, d.Runtime)
	fmt.Fprintf(w, "%s\n", d.Genre)
	fmt.Fprintf(w, "⭐ %g IMDb rating\n\n", d.ExternalRating)
	fmt.Fprintf(w, "%s\n\n", d.Plot)
	fmt.Fprintf(w, "Starring %s\n", d.Actors)
	fmt.Fprintf(w, "Directed by %s\n", d.Director)
}
