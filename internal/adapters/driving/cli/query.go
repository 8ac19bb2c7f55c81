package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragplay/internal/core/ports/driving"
)

const (
	timeLayout     = "2006-01-02 15:04"
	chunkPreviewLn = 240
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask questions against a playground",
	Long:  `Submit queries to a playground and inspect the chunks the retriever returns.`,
}

var querySubmitCmd = &cobra.Command{
	Use:   "submit [playground-id] [text]",
	Short: "Submit a query and show its result chunks",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runQuerySubmit,
}

var queryListCmd = &cobra.Command{
	Use:   "list [playground-id]",
	Short: "List the queries of a playground",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryList,
}

var queryShowCmd = &cobra.Command{
	Use:   "show [playground-id] [query-id]",
	Short: "Show the result chunks of a query",
	Args:  cobra.ExactArgs(2),
	RunE:  runQueryShow,
}

var queryPointsCmd = &cobra.Command{
	Use:   "points [playground-id] [chunk-id...]",
	Short: "Show the chunks behind projection points",
	Long: `Show the chunks behind one or more projection points, optionally next to
the result chunks of a query (--query).`,
	Args: cobra.MinimumNArgs(2),
	RunE: runQueryPoints,
}

var (
	queryFull   bool
	pointsQuery string
)

func init() {
	queryCmd.PersistentFlags().BoolVar(&queryFull, "full", false, "Print full chunk text")
	queryPointsCmd.Flags().StringVarP(&pointsQuery, "query", "q", "", "Also show the results of this query")

	queryCmd.AddCommand(querySubmitCmd)
	queryCmd.AddCommand(queryListCmd)
	queryCmd.AddCommand(queryShowCmd)
	queryCmd.AddCommand(queryPointsCmd)
	rootCmd.AddCommand(queryCmd)
}

func openPlayground(ctx context.Context, id string) error {
	if playgroundService == nil || sessionService == nil {
		return errNotConfigured
	}
	if _, err := playgroundService.Open(ctx, id); err != nil {
		return fmt.Errorf("failed to open playground: %w", err)
	}
	return nil
}

func runQuerySubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := openPlayground(ctx, args[0]); err != nil {
		return err
	}

	q, err := sessionService.SubmitQuery(ctx, strings.Join(args[1:], " "))
	if q.ID == "" && err != nil {
		return fmt.Errorf("failed to submit query: %w", err)
	}

	cmd.Printf("Query %s: %s\n", q.ID, q.Text)
	if err != nil {
		return fmt.Errorf("failed to fetch query results: %w", err)
	}

	printChunks(cmd, sessionService.Snapshot())
	return nil
}

func runQueryList(cmd *cobra.Command, args []string) error {
	if err := openPlayground(cmd.Context(), args[0]); err != nil {
		return err
	}

	queries := sessionService.Queries()
	if len(queries) == 0 {
		cmd.Println("No queries yet.")
		return nil
	}

	cmd.Println("Queries (newest first):")
	for i := range queries {
		q := &queries[i]
		cmd.Printf("  %s  %s  (%d results)\n", q.ID, q.Text, len(q.Results))
	}
	return nil
}

func runQueryShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := openPlayground(ctx, args[0]); err != nil {
		return err
	}

	if err := sessionService.SetActiveQuery(ctx, args[1]); err != nil {
		return fmt.Errorf("failed to select query: %w", err)
	}

	snap := sessionService.Snapshot()
	if q, ok := snap.Query(); ok {
		cmd.Printf("Query %s: %s\n", q.ID, q.Text)
	}
	printChunks(cmd, snap)
	return nil
}

func runQueryPoints(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := openPlayground(ctx, args[0]); err != nil {
		return err
	}

	if pointsQuery != "" {
		if err := sessionService.SetActiveQuery(ctx, pointsQuery); err != nil {
			return fmt.Errorf("failed to select query: %w", err)
		}
	}

	for _, id := range args[1:] {
		if err := sessionService.ClickPoint(ctx, id); err != nil {
			return fmt.Errorf("failed to fetch chunk %s: %w", id, err)
		}
	}

	printChunks(cmd, sessionService.Snapshot())
	return nil
}

// printChunks prints the displayed chunks with their index labels.
func printChunks(cmd *cobra.Command, snap driving.SessionSnapshot) {
	if len(snap.Chunks) == 0 {
		cmd.Println("No chunks.")
		return
	}

	for _, c := range snap.Chunks {
		cmd.Printf("\n[%d] %s (%s)\n", snap.ChunkIndex[c.ID], c.ID, c.Role)
		cmd.Printf("    %s\n", preview(c.Text, queryFull))
	}
}

func preview(text string, full bool) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if full || len(runes) <= chunkPreviewLn {
		return text
	}
	return string(runes[:chunkPreviewLn]) + "..."
}
