package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/llm"
	"github.com/prepdeck/prepdeck/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check server reachability, saved login, and LLM configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		serverURL := resolveServerURL(cmd)
		fmt.Printf("Server:   %s\n", serverURL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		session := auth.NewSession()
		gateway := api.NewClient(serverURL, session)
		if err := gateway.Health(ctx); err != nil {
			fmt.Printf("Health:   unreachable (%v)\n", err)
		} else {
			fmt.Println("Health:   ok")
		}

		token, err := s.LoadToken(ctx)
		switch {
		case err != nil:
			fmt.Printf("Login:    error reading token (%v)\n", err)
		case token == "":
			fmt.Println("Login:    no saved token")
		default:
			session.Login(token)
			if profile, err := gateway.GetProfile(ctx); err != nil {
				fmt.Printf("Login:    saved token rejected (%v)\n", err)
			} else {
				fmt.Printf("Login:    signed in as %s <%s>\n", profile.Name, profile.Email)
			}
		}

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			if discovered, ok := llm.DiscoverConfig(); ok {
				cfg = discovered
			} else {
				fmt.Println("Coach:    no LLM API key configured (offline mode unavailable)")
				return nil
			}
		}
		fmt.Printf("Coach:    %s provider configured\n", cfg.Provider)
		return nil
	},
}
