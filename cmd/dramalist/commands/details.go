package commands

import (
	"dramalist-backend/cmd/dramalist/globals"
	"dramalist-backend/internal/dramas"

	"github.com/spf13/cobra"
)

var detailFlags dramas.Flags

func init() {
	detailsCmd.Flags().BoolVar(&detailFlags.Cast, "cast", false, "Also fetch the cast page.")
	detailsCmd.Flags().BoolVar(&detailFlags.Recommendations, "recommendations", false, "Also fetch the recommendations page.")
	detailsCmd.Flags().BoolVar(&detailFlags.Reviews, "reviews", false, "Also fetch the reviews page.")

	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(recommendationsCmd)
	rootCmd.AddCommand(reviewsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details <id> [--cast] [--recommendations] [--reviews]",
	Short: "Prints the details of a title, ex. 18452-goblin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		drama, err := g.Service.GetDramaDetails(cmd.Context(), args[0], detailFlags)
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(drama)
		}
		renderDrama(drama)
		return nil
	},
}

var castCmd = &cobra.Command{
	Use:   "cast <id>",
	Short: "Prints the cast of a title.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		cast, err := g.Service.GetDramaCast(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(cast)
		}
		renderCast(cast)
		return nil
	},
}

var recommendationsCmd = &cobra.Command{
	Use:   "recommendations <id>",
	Short: "Prints what users recommend alongside a title.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		recommendations, err := g.Service.GetDramaRecommendations(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(recommendations)
		}
		renderRecommendations(recommendations)
		return nil
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <id>",
	Short: "Prints the reviews of a title.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		reviews, err := g.Service.GetDramaReviews(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if g.JSON {
			return printJSON(reviews)
		}
		renderReviews(reviews)
		return nil
	},
}
