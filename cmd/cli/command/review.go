package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reviewhub/cmd/cli/command/client"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review and comment commands",
	Long:  `Read and post reviews on titles, and comment on reviews.`,
}

var listReviewsCmd = &cobra.Command{
	Use:   "list [title-id]",
	Short: "List reviews for a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		page, err := newClient().ListReviews(titleID)
		if err != nil {
			return fmt.Errorf("could not list reviews: %w", err)
		}

		for _, r := range page.Data {
			fmt.Printf("#%d [%d/10] %s: %s\n", r.ID, r.Score, r.Author, r.Text)
		}
		fmt.Printf("-- page %d/%d (%d total)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var createReviewCmd = &cobra.Command{
	Use:   "create [title-id] [text]",
	Short: "Post your review for a title",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		score, _ := cmd.Flags().GetInt("score")
		req := client.CreateReviewRequest{
			Text:  strings.Join(args[1:], " "),
			Score: score,
		}

		r, err := newClient().CreateReview(titleID, &req)
		if err != nil {
			return fmt.Errorf("could not post review: %w", err)
		}

		fmt.Printf("✓ Posted review #%d\n", r.ID)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id]",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		reviewID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review ID: %w", err)
		}

		if err := newClient().DeleteReview(titleID, reviewID); err != nil {
			return fmt.Errorf("could not delete review: %w", err)
		}

		fmt.Printf("✓ Deleted review #%d\n", reviewID)
		return nil
	},
}

var listCommentsCmd = &cobra.Command{
	Use:   "comments [title-id] [review-id]",
	Short: "List comments on a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		reviewID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review ID: %w", err)
		}

		page, err := newClient().ListComments(titleID, reviewID)
		if err != nil {
			return fmt.Errorf("could not list comments: %w", err)
		}

		for _, c := range page.Data {
			fmt.Printf("#%d %s: %s\n", c.ID, c.Author, c.Text)
		}
		return nil
	},
}

var createCommentCmd = &cobra.Command{
	Use:   "comment [title-id] [review-id] [text]",
	Short: "Comment on a review",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		reviewID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid review ID: %w", err)
		}

		req := client.CreateCommentRequest{Text: strings.Join(args[2:], " ")}
		c, err := newClient().CreateComment(titleID, reviewID, &req)
		if err != nil {
			return fmt.Errorf("could not post comment: %w", err)
		}

		fmt.Printf("✓ Posted comment #%d\n", c.ID)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(listReviewsCmd)
	reviewCmd.AddCommand(createReviewCmd)
	reviewCmd.AddCommand(deleteReviewCmd)
	reviewCmd.AddCommand(listCommentsCmd)
	reviewCmd.AddCommand(createCommentCmd)
	rootCmd.AddCommand(reviewCmd)

	createReviewCmd.Flags().IntP("score", "s", 0, "Score from 1 to 10 (required)")
	createReviewCmd.MarkFlagRequired("score")
}
