package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// defaultFindLimit is the number of matches find_playground returns by default.
const defaultFindLimit = 5

// PlaygroundOutput describes a playground.
type PlaygroundOutput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Service   string   `json:"service"`
	Model     string   `json:"model,omitempty"`
	Created   string   `json:"created"`
	Documents []string `json:"documents,omitempty"`
}

// ListPlaygroundsInput is the input schema for the list_playgrounds tool.
type ListPlaygroundsInput struct{}

// ListPlaygroundsOutput is the output schema for the list_playgrounds tool.
type ListPlaygroundsOutput struct {
	Playgrounds []PlaygroundOutput `json:"playgrounds"`
	Count       int                `json:"count"`
}

// FindPlaygroundInput is the input schema for the find_playground tool.
type FindPlaygroundInput struct {
	Title string `json:"title" jsonschema:"the playground title to look for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 5)"`
}

// PlaygroundMatchOutput is a fuzzy title match.
type PlaygroundMatchOutput struct {
	Playground PlaygroundOutput `json:"playground"`
	Distance   int              `json:"distance"`
}

// FindPlaygroundOutput is the output schema for the find_playground tool.
type FindPlaygroundOutput struct {
	Matches []PlaygroundMatchOutput `json:"matches"`
}

// ListQueriesInput is the input schema for the list_queries tool.
type ListQueriesInput struct {
	PlaygroundID string `json:"playground_id" jsonschema:"the playground whose queries to list"`
}

// QueryOutput describes a submitted query.
type QueryOutput struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Results []string `json:"results"`
}

// ListQueriesOutput is the output schema for the list_queries tool.
type ListQueriesOutput struct {
	Queries []QueryOutput `json:"queries"`
	Count   int           `json:"count"`
}

// SubmitQueryInput is the input schema for the submit_query tool.
type SubmitQueryInput struct {
	PlaygroundID string `json:"playground_id" jsonschema:"the playground to ask"`
	Text         string `json:"text" jsonschema:"the question to submit"`
}

// ChunkOutput is a retrieved chunk with its display label.
type ChunkOutput struct {
	ID    string `json:"id"`
	Label int    `json:"label"`
	Role  string `json:"role"`
	Text  string `json:"text"`
}

// SubmitQueryOutput is the output schema for the submit_query tool.
type SubmitQueryOutput struct {
	Query  QueryOutput   `json:"query"`
	Chunks []ChunkOutput `json:"chunks"`
}

// GetChunkInput is the input schema for the get_chunk tool.
type GetChunkInput struct {
	PlaygroundID string `json:"playground_id" jsonschema:"the playground the chunk belongs to"`
	ChunkID      string `json:"chunk_id" jsonschema:"the chunk (projection point) id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_playgrounds",
		Description: "List all RAG playgrounds",
	}, s.handleListPlaygrounds)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "find_playground",
		Description: "Find playgrounds whose titles best match a given title",
	}, s.handleFindPlayground)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_queries",
		Description: "List the questions submitted to a playground, newest first",
	}, s.handleListQueries)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "submit_query",
		Description: "Ask a playground a question and return the retrieved chunks",
	}, s.handleSubmitQuery)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_chunk",
		Description: "Read the text of a single chunk of a playground",
	}, s.handleGetChunk)
}

// handleListPlaygrounds handles the list_playgrounds tool invocation.
func (s *Server) handleListPlaygrounds(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListPlaygroundsInput,
) (*mcp.CallToolResult, ListPlaygroundsOutput, error) {
	pgs, err := s.ports.Playground.List(ctx)
	if err != nil {
		return nil, ListPlaygroundsOutput{}, err
	}

	output := ListPlaygroundsOutput{
		Playgrounds: make([]PlaygroundOutput, len(pgs)),
		Count:       len(pgs),
	}
	for i := range pgs {
		output.Playgrounds[i] = toPlaygroundOutput(&pgs[i])
	}
	return nil, output, nil
}

// handleFindPlayground handles the find_playground tool invocation.
func (s *Server) handleFindPlayground(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindPlaygroundInput,
) (*mcp.CallToolResult, FindPlaygroundOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}

	matches, err := s.ports.Playground.Find(ctx, input.Title, limit)
	if err != nil {
		return nil, FindPlaygroundOutput{}, err
	}

	output := FindPlaygroundOutput{Matches: make([]PlaygroundMatchOutput, len(matches))}
	for i := range matches {
		output.Matches[i] = PlaygroundMatchOutput{
			Playground: toPlaygroundOutput(&matches[i].Playground),
			Distance:   matches[i].Distance,
		}
	}
	return nil, output, nil
}

// handleListQueries handles the list_queries tool invocation.
func (s *Server) handleListQueries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListQueriesInput,
) (*mcp.CallToolResult, ListQueriesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(ctx, input.PlaygroundID); err != nil {
		return nil, ListQueriesOutput{}, err
	}

	queries := s.ports.Session.Queries()
	output := ListQueriesOutput{
		Queries: make([]QueryOutput, len(queries)),
		Count:   len(queries),
	}
	for i := range queries {
		output.Queries[i] = toQueryOutput(&queries[i])
	}
	return nil, output, nil
}

// handleSubmitQuery handles the submit_query tool invocation.
func (s *Server) handleSubmitQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitQueryInput,
) (*mcp.CallToolResult, SubmitQueryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(ctx, input.PlaygroundID); err != nil {
		return nil, SubmitQueryOutput{}, err
	}

	q, err := s.ports.Session.SubmitQuery(ctx, input.Text)
	if err != nil {
		return nil, SubmitQueryOutput{}, err
	}

	snap := s.ports.Session.Snapshot()
	output := SubmitQueryOutput{Query: toQueryOutput(&q)}
	for _, c := range snap.Chunks {
		if c.Role != domain.ChunkRoleQuery {
			continue
		}
		output.Chunks = append(output.Chunks, ChunkOutput{
			ID:    c.ID,
			Label: snap.ChunkIndex[c.ID],
			Role:  c.Role.String(),
			Text:  c.Text,
		})
	}
	return nil, output, nil
}

// handleGetChunk handles the get_chunk tool invocation.
func (s *Server) handleGetChunk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetChunkInput,
) (*mcp.CallToolResult, ChunkOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.ChunkID == "" {
		return nil, ChunkOutput{}, fmt.Errorf("chunk_id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.open(ctx, input.PlaygroundID); err != nil {
		return nil, ChunkOutput{}, err
	}
	if err := s.ports.Session.ClickPoint(ctx, input.ChunkID); err != nil {
		return nil, ChunkOutput{}, err
	}

	snap := s.ports.Session.Snapshot()
	for _, c := range snap.Chunks {
		if c.ID == input.ChunkID {
			return nil, ChunkOutput{
				ID:    c.ID,
				Label: snap.ChunkIndex[c.ID],
				Role:  c.Role.String(),
				Text:  c.Text,
			}, nil
		}
	}
	return nil, ChunkOutput{}, fmt.Errorf("chunk %s: %w", input.ChunkID, domain.ErrNotFound)
}

// open makes a playground active unless it already is.
func (s *Server) open(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("playground_id is required: %w", domain.ErrInvalidInput)
	}
	if s.ports.Session.ActivePlayground() == id {
		return nil
	}
	_, err := s.ports.Playground.Open(ctx, id)
	return err
}

func toPlaygroundOutput(p *domain.Playground) PlaygroundOutput {
	return PlaygroundOutput{
		ID:        p.ID,
		Title:     p.Title,
		Service:   p.Service.String(),
		Model:     p.Model,
		Created:   p.Created.Format(time.RFC3339),
		Documents: p.DocumentNames,
	}
}

func toQueryOutput(q *domain.Query) QueryOutput {
	return QueryOutput{
		ID:      q.ID,
		Text:    q.Text,
		Results: q.Results,
	}
}
