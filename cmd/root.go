package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/store"
)

const defaultServerURL = "https://api.prepdeck.app"

var rootCmd = &cobra.Command{
	Use:   "prepdeck",
	Short: "Terminal interview prep",
	Long:  "Prepdeck — practice technical interview questions, MCQ drills, and roadmaps from your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PREPDECK_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "API server base URL (overrides PREPDECK_SERVER env var)")
	rootCmd.PersistentFlags().String("role", "", "Interview role to prepare for (overrides PREPDECK_ROLE env var)")
	rootCmd.Flags().Bool("offline", false, "Skip the server and use a local LLM key as coach")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then PREPDECK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveServerURL returns the API base URL using --server flag, then
// PREPDECK_SERVER env var, then the hosted default.
func resolveServerURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("server"); u != "" {
		return u
	}
	if u := os.Getenv("PREPDECK_SERVER"); u != "" {
		return u
	}
	return defaultServerURL
}

// resolveRole returns the interview role using --role flag, then
// PREPDECK_ROLE env var, then "sde".
func resolveRole(cmd *cobra.Command) string {
	if r, _ := cmd.Flags().GetString("role"); r != "" {
		return r
	}
	if r := os.Getenv("PREPDECK_ROLE"); r != "" {
		return r
	}
	return "sde"
}
