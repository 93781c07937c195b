package commands

import (
	"fmt"
	"strings"

	"dramalist-backend/cmd/dramalist/globals"
	"dramalist-backend/internal/scrapers/mydramalist"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resolveCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Searches titles by name.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		hits, err := g.Service.SearchDramas(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(hits)
		}
		renderSearchHits(hits)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <title...>",
	Short: "Finds the search hit closest to a title.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		hit, similarity, err := g.Service.ResolveTitle(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(map[string]any{
				"hit":        hit,
				"similarity": similarity,
			})
		}
		renderSearchHits([]mydramalist.SearchHit{hit})
		fmt.Fprintf(stdout, "similarity: %.3f\n", similarity)
		return nil
	},
}
