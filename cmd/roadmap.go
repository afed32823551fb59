package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/store"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [role]",
	Short: "Print the preparation roadmap for a role",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := resolveRole(cmd)
		if len(args) == 1 {
			role = args[0]
		}

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
		session := auth.NewSession()
		if token, err := s.LoadToken(ctx); err == nil && token != "" {
			session.Login(token)
		}

		gateway := api.NewClient(resolveServerURL(cmd), session)
		rm, err := gateway.GetRoadmap(ctx, role)
		if err != nil {
			return fmt.Errorf("fetch roadmap: %w", err)
		}

		fmt.Println(rm.Title)
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println(rm.Description)
		fmt.Println()

		keys := make([]string, 0, len(rm.Topics))
		for k := range rm.Topics {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			topic := rm.Topics[k]
			fmt.Println(topic.Title)
			for _, item := range topic.Items {
				fmt.Println("  •", item)
			}
			fmt.Println()
		}

		printResources := func(label string, items []string) {
			if len(items) == 0 {
				return
			}
			fmt.Println(label)
			for _, item := range items {
				fmt.Println("  •", item)
			}
		}
		printResources("Books", rm.Resources.Books)
		printResources("Online courses", rm.Resources.OnlineCourses)
		printResources("Practice platforms", rm.Resources.PracticePlatforms)

		return nil
	},
}
