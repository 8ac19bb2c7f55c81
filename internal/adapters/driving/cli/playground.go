package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

var playgroundCmd = &cobra.Command{
	Use:     "playground",
	Aliases: []string{"pg"},
	Short:   "Manage playgrounds",
	Long:    `List, create, rename, delete, and inspect playgrounds.`,
}

var playgroundListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playgrounds",
	Args:  cobra.NoArgs,
	RunE:  runPlaygroundList,
}

var playgroundCreateCmd = &cobra.Command{
	Use:   "create [doc-id...]",
	Short: "Create a playground over documents",
	Long: `Create a playground that embeds the given documents with an embedding service.

Run 'ragplay playground models' to see which services are available.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlaygroundCreate,
}

var playgroundRenameCmd = &cobra.Command{
	Use:   "rename [playground-id] [title]",
	Short: "Rename a playground",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlaygroundRename,
}

var playgroundDeleteCmd = &cobra.Command{
	Use:   "delete [playground-id]",
	Short: "Delete a playground",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaygroundDelete,
}

var playgroundShowCmd = &cobra.Command{
	Use:   "show [playground-id]",
	Short: "Show playground details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaygroundShow,
}

var playgroundFindCmd = &cobra.Command{
	Use:   "find [title]",
	Short: "Find playgrounds by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlaygroundFind,
}

var playgroundModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List embedding services",
	Args:  cobra.NoArgs,
	RunE:  runPlaygroundModels,
}

var (
	playgroundJSON  bool
	createService   string
	playgroundLimit int
)

func init() {
	playgroundListCmd.Flags().BoolVar(&playgroundJSON, "json", false, "Print playgrounds as JSON")
	playgroundCreateCmd.Flags().StringVarP(&createService, "service", "s",
		string(domain.ServiceSentenceTransformers), "Embedding service")
	playgroundFindCmd.Flags().IntVarP(&playgroundLimit, "limit", "n", 5, "Maximum number of matches")

	playgroundCmd.AddCommand(playgroundListCmd)
	playgroundCmd.AddCommand(playgroundCreateCmd)
	playgroundCmd.AddCommand(playgroundRenameCmd)
	playgroundCmd.AddCommand(playgroundDeleteCmd)
	playgroundCmd.AddCommand(playgroundShowCmd)
	playgroundCmd.AddCommand(playgroundFindCmd)
	playgroundCmd.AddCommand(playgroundModelsCmd)
	rootCmd.AddCommand(playgroundCmd)
}

type playgroundJSONView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Created string `json:"created"`
	Service string `json:"service"`
	Model   string `json:"model"`
}

func runPlaygroundList(cmd *cobra.Command, _ []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	playgrounds, err := playgroundService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list playgrounds: %w", err)
	}

	if playgroundJSON {
		views := make([]playgroundJSONView, 0, len(playgrounds))
		for i := range playgrounds {
			p := &playgrounds[i]
			views = append(views, playgroundJSONView{
				ID:      p.ID,
				Title:   p.Title,
				Created: p.Created.Format(timeLayout),
				Service: string(p.Service),
				Model:   p.Model,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(playgrounds) == 0 {
		cmd.Println("No playgrounds. Create one with 'ragplay playground create'.")
		return nil
	}

	cmd.Println("Playgrounds:")
	for i := range playgrounds {
		p := &playgrounds[i]
		cmd.Printf("  %s  %s  (%s, %s)\n", p.ID, p.Title, p.Service, p.Created.Format(timeLayout))
	}
	return nil
}

func runPlaygroundCreate(cmd *cobra.Command, args []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	service := domain.Service(createService)
	if !service.IsKnown() {
		return fmt.Errorf("%w: unknown embedding service %q", domain.ErrInvalidInput, createService)
	}

	p, err := playgroundService.Create(cmd.Context(), service, args)
	if err != nil {
		return fmt.Errorf("failed to create playground: %w", err)
	}

	cmd.Printf("Created playground %s (%s)\n", p.ID, p.Title)
	return nil
}

func runPlaygroundRename(cmd *cobra.Command, args []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	p, err := playgroundService.Rename(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to rename playground: %w", err)
	}

	cmd.Printf("Renamed playground %s to %q\n", p.ID, p.Title)
	return nil
}

func runPlaygroundDelete(cmd *cobra.Command, args []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	if err := playgroundService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete playground: %w", err)
	}

	cmd.Printf("Deleted playground %s\n", args[0])
	return nil
}

func runPlaygroundShow(cmd *cobra.Command, args []string) error {
	if playgroundService == nil || sessionService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	p, err := playgroundService.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to open playground: %w", err)
	}

	docs, err := playgroundService.Documents(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list playground documents: %w", err)
	}
	points, err := playgroundService.Points(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list playground points: %w", err)
	}

	cmd.Printf("Playground: %s\n", p.ID)
	cmd.Printf("  Title:     %s\n", p.Title)
	cmd.Printf("  Created:   %s\n", p.Created.Format(timeLayout))
	cmd.Printf("  Service:   %s\n", p.Service)
	if p.Model != "" {
		cmd.Printf("  Model:     %s\n", p.Model)
	}
	cmd.Printf("  Documents: %s\n", strings.Join(docs, ", "))
	cmd.Printf("  Chunks:    %d\n", len(points))

	queries := sessionService.Queries()
	cmd.Printf("  Queries:   %d\n", len(queries))
	for i := range queries {
		cmd.Printf("    %s  %s\n", queries[i].ID, queries[i].Text)
	}
	return nil
}

func runPlaygroundFind(cmd *cobra.Command, args []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	if _, err := playgroundService.List(ctx); err != nil {
		return fmt.Errorf("failed to list playgrounds: %w", err)
	}

	title := strings.Join(args, " ")
	matches, err := playgroundService.Find(ctx, title, playgroundLimit)
	if err != nil {
		return fmt.Errorf("failed to find playgrounds: %w", err)
	}

	if len(matches) == 0 {
		cmd.Printf("No playgrounds match %q\n", title)
		return nil
	}

	for _, m := range matches {
		cmd.Printf("  %s  %s  (distance %d)\n", m.Playground.ID, m.Playground.Title, m.Distance)
	}
	return nil
}

func runPlaygroundModels(cmd *cobra.Command, _ []string) error {
	if playgroundService == nil {
		return errNotConfigured
	}

	models, err := playgroundService.Models(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	cmd.Println("Embedding services:")
	for _, m := range models {
		model := m.Model
		if model == "" {
			model = "(default)"
		}
		status := "available"
		if !m.Selectable() {
			status = "API key required"
		}
		cmd.Printf("  %-22s %-24s %s\n", m.Service, model, status)
	}
	return nil
}
