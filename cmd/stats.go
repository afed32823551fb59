package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show locally recorded practice attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		total, err := s.CountAttempts(ctx)
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		if total == 0 {
			fmt.Println("No practice attempts recorded yet.")
			return nil
		}

		attempts, err := s.RecentAttempts(ctx, limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		fmt.Printf("Recorded attempts: %d (showing %d most recent)\n\n", total, len(attempts))
		fmt.Printf("%-5s  %-19s  %-6s  %-6s  %s\n", "ID", "When", "Role", "Score", "Question")
		fmt.Println(strings.Repeat("─", 90))

		for _, a := range attempts {
			score := "—"
			if a.Score != nil {
				score = fmt.Sprintf("%.0f/10", *a.Score)
			}
			question := a.Question
			if len(question) > 48 {
				question = question[:48] + "…"
			}
			fmt.Printf("%-5d  %-19s  %-6s  %-6s  %s\n",
				a.ID,
				a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				a.Role,
				score,
				question,
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
}
