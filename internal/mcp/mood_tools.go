// ABOUTME: MCP tool implementations for mood operations.
// ABOUTME: Registers log_mood, list_moods, delete_mood, and mood_types.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/mood/internal/history"
	"github.com/2389-research/mood/internal/models"
)

const defaultListLimit = 20

func (s *Server) registerMoodTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "log_mood",
		Description: "Record how the user is feeling. Type must be one of: happy, sad, anxious, angry, neutral, other. An optional comment adds context.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"type": {"type": "string", "enum": ["happy", "sad", "anxious", "angry", "neutral", "other"], "description": "The mood being felt"},
				"comment": {"type": "string", "description": "Optional note about what is behind the mood"},
				"timestamp": {"type": "string", "description": "Optional RFC3339 time the mood was felt (default: now)"}
			},
			"required": ["type"]
		}`),
	}, s.handleLogMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_moods",
		Description: "List logged moods, newest first, for the last day, week, or month.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"range": {"type": "string", "enum": ["day", "week", "month"], "description": "Time window to list (default: week)"},
				"limit": {"type": "number", "description": "Maximum number of entries to return (default 20)"}
			}
		}`),
	}, s.handleListMoods)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_mood",
		Description: "Delete a logged mood by its id or a unique id prefix (at least 4 characters).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Entry id or unique prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "mood_types",
		Description: "List the available mood types with their labels and emoji.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleMoodTypes)
}

func (s *Server) handleLogMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Type      string `json:"type"`
		Comment   string `json:"comment"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	moodType, err := models.ParseMoodType(args.Type)
	if err != nil {
		return toolError("%v. Valid types: %s", err, typeKeys()), nil
	}

	ts := s.now()
	if args.Timestamp != "" {
		ts, err = time.Parse(time.RFC3339, args.Timestamp)
		if err != nil {
			return toolError("invalid timestamp %q: expected RFC3339", args.Timestamp), nil
		}
	}

	entry := models.NewMoodEntryAt(moodType, args.Comment, ts)
	if err := s.journal.Add(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("log_mood failed")
		return toolError("failed to log mood: %v", err), nil
	}
	s.log.Info().Str("entry_id", entry.ID.String()).Str("type", string(moodType)).Msg("mood logged via mcp")

	return textResult(fmt.Sprintf("Logged %s %s\nID: %s", moodType.Emoji(), moodType.Label(), entry.ID)), nil
}

func (s *Server) handleListMoods(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Range string `json:"range"`
		Limit int    `json:"limit"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError("invalid arguments: %v", err), nil
		}
	}
	if args.Range == "" {
		args.Range = "week"
	}
	if args.Limit <= 0 {
		args.Limit = defaultListLimit
	}

	r, err := history.ParseTimeRange(args.Range)
	if err != nil {
		return toolError("%v", err), nil
	}

	view := history.View(s.journal.Entries(), r, s.now())
	if len(view) == 0 {
		return textResult(fmt.Sprintf("No moods logged in the last %s.", r)), nil
	}

	summary := history.Summarize(view)
	var b strings.Builder
	fmt.Fprintf(&b, "%d moods in the last %s (average score %.1f)\n\n", summary.Total, r, summary.AverageScore)
	for i, e := range view {
		if i >= args.Limit {
			fmt.Fprintf(&b, "... and %d more\n", len(view)-args.Limit)
			break
		}
		fmt.Fprintf(&b, "[%s] %s %s %s", e.ShortID(), e.Timestamp.Format(time.RFC3339), e.Type.Emoji(), e.Type.Label())
		if c := e.CommentText(); c != "" {
			fmt.Fprintf(&b, " - %s", c)
		}
		b.WriteString("\n")
	}
	return textResult(b.String()), nil
}

func (s *Server) handleDeleteMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID == "" {
		return toolError("id is required"), nil
	}

	entry, err := history.FindByPrefix(s.journal.Entries(), args.ID)
	if err != nil {
		return toolError("%v", err), nil
	}
	if err := s.journal.Delete(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("entry_id", entry.ID.String()).Msg("delete_mood failed")
		return toolError("failed to delete mood: %v", err), nil
	}
	s.log.Info().Str("entry_id", entry.ID.String()).Msg("mood deleted via mcp")

	return textResult(fmt.Sprintf("Deleted %s %s from %s", entry.Type.Emoji(), entry.Type.Label(), entry.Timestamp.Format(time.RFC3339))), nil
}

func (s *Server) handleMoodTypes(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var b strings.Builder
	for _, t := range models.AllMoodTypes() {
		fmt.Fprintf(&b, "%s %s (%s)\n", t.Emoji(), t.Label(), t)
	}
	return textResult(b.String()), nil
}

func typeKeys() string {
	types := models.AllMoodTypes()
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = string(t)
	}
	return strings.Join(keys, ", ")
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// toolError creates an error result for MCP tool calls.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
