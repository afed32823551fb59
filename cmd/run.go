package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/app"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/coach"
	"github.com/prepdeck/prepdeck/internal/dashboard"
	"github.com/prepdeck/prepdeck/internal/llm"
	"github.com/prepdeck/prepdeck/internal/mcq"
	"github.com/prepdeck/prepdeck/internal/practice"
	"github.com/prepdeck/prepdeck/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	role := resolveRole(cmd)
	session := auth.NewSession()

	offline, _ := cmd.Flags().GetBool("offline")
	if offline || os.Getenv("PREPDECK_OFFLINE") == "1" {
		return runOffline(cmd, st, session, role)
	}

	gateway := api.NewClient(resolveServerURL(cmd), session)

	deps := app.Deps{
		Session:    session,
		Gateway:    gateway,
		Practice:   practice.New(gateway, session, role),
		MCQ:        mcq.New(gateway, session, role),
		Aggregator: dashboard.New(gateway, session),
		Tokens:     st,
		Role:       role,
	}

	// A saved token skips the login screen. The profile fetch doubles as
	// validation: a stale token gets a 401, the gateway invalidates the
	// session, and the app starts at login as usual.
	if token, err := st.LoadToken(ctx); err == nil && token != "" {
		session.Login(token)
		if profile, err := gateway.GetProfile(ctx); err == nil {
			deps.Account = profile.Name
		}
	}

	return app.Run(deps)
}

// runOffline wires the local LLM coach in place of the API gateway.
func runOffline(cmd *cobra.Command, st *store.Store, session *auth.Session, role string) error {
	ctx := cmd.Context()

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			fmt.Fprintln(os.Stderr, "No LLM API key found for offline mode.")
			fmt.Fprintln(os.Stderr, "Set PREPDECK_ANTHROPIC_API_KEY, PREPDECK_OPENAI_API_KEY, or PREPDECK_GEMINI_API_KEY.")
			return err
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, st)
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}

	tutor := coach.New(provider, coach.DefaultConfig(), st)

	return app.Run(app.Deps{
		Session:  session,
		Practice: practice.New(tutor, session, role),
		MCQ:      mcq.New(tutor, session, role),
		Role:     role,
		Offline:  true,
	})
}
