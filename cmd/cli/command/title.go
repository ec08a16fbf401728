package command

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reviewhub/cmd/cli/command/client"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Title catalog commands",
	Long:  `Browse the title catalog and, as an administrator, manage it.`,
}

var listTitlesCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		for _, f := range []string{"name", "year", "genre", "category"} {
			if v, _ := cmd.Flags().GetString(f); v != "" {
				query.Set(f, v)
			}
		}

		page, err := newClient().ListTitles(query)
		if err != nil {
			return fmt.Errorf("could not list titles: %w", err)
		}

		for _, t := range page.Data {
			fmt.Println(formatTitle(&t))
		}
		fmt.Printf("-- page %d/%d (%d total)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var getTitleCmd = &cobra.Command{
	Use:   "get [title-id]",
	Short: "Show a title with its rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		t, err := newClient().GetTitle(id)
		if err != nil {
			return fmt.Errorf("could not fetch title: %w", err)
		}

		fmt.Println(formatTitle(t))
		if t.Description != "" {
			fmt.Println(t.Description)
		}
		return nil
	},
}

var createTitleCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Add a title to the catalog (admin only)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.CreateTitleRequest{Name: strings.Join(args, " ")}

		if year, _ := cmd.Flags().GetInt("year"); year != 0 {
			req.Year = &year
		}
		req.Description, _ = cmd.Flags().GetString("description")
		req.Genre, _ = cmd.Flags().GetStringSlice("genre")
		if category, _ := cmd.Flags().GetString("category"); category != "" {
			req.Category = &category
		}

		t, err := newClient().CreateTitle(&req)
		if err != nil {
			return fmt.Errorf("could not create title: %w", err)
		}

		fmt.Printf("✓ Created title #%d %s\n", t.ID, t.Name)
		return nil
	},
}

var deleteTitleCmd = &cobra.Command{
	Use:   "delete [title-id]",
	Short: "Remove a title (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		if err := newClient().DeleteTitle(id); err != nil {
			return fmt.Errorf("could not delete title: %w", err)
		}

		fmt.Printf("✓ Deleted title #%d\n", id)
		return nil
	},
}

func formatTitle(t *client.TitleResponse) string {
	rating := "unrated"
	if t.Rating != nil {
		rating = fmt.Sprintf("%.2f", *t.Rating)
	}
	year := ""
	if t.Year != nil {
		year = fmt.Sprintf(" (%d)", *t.Year)
	}
	return fmt.Sprintf("#%d %s%s [%s]", t.ID, t.Name, year, rating)
}

func init() {
	titleCmd.AddCommand(listTitlesCmd)
	titleCmd.AddCommand(getTitleCmd)
	titleCmd.AddCommand(createTitleCmd)
	titleCmd.AddCommand(deleteTitleCmd)
	rootCmd.AddCommand(titleCmd)

	listTitlesCmd.Flags().String("name", "", "Filter by part of the name")
	listTitlesCmd.Flags().String("year", "", "Filter by release year")
	listTitlesCmd.Flags().String("genre", "", "Filter by genre slug")
	listTitlesCmd.Flags().String("category", "", "Filter by category slug")

	createTitleCmd.Flags().Int("year", 0, "Release year")
	createTitleCmd.Flags().String("description", "", "Description")
	createTitleCmd.Flags().StringSlice("genre", nil, "Genre slugs (required)")
	createTitleCmd.Flags().String("category", "", "Category slug")
	createTitleCmd.MarkFlagRequired("genre")
}
