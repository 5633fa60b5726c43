// ABOUTME: MCP tool implementations for the digestive health assistant.
// ABOUTME: Symptom and food logging, search, reports, dashboard, and chat.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/models"
	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

func (s *Server) registerTools() {
	// log_symptom
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_symptom",
		Description: "Record a digestive symptom entry (types, intensity 1-10)",
	}, s.handleLogSymptom)

	// list_symptoms
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_symptoms",
		Description: "List recent symptom entries, newest first",
	}, s.handleListSymptoms)

	// delete_symptom
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_symptom",
		Description: "Delete a symptom entry by ID",
	}, s.handleDeleteSymptom)

	// log_food
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_food",
		Description: "Record a food intake entry (name, meal slot)",
	}, s.handleLogFood)

	// list_food_logs
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_food_logs",
		Description: "List recent food intake entries, newest first",
	}, s.handleListFoodLogs)

	// search_foods
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_foods",
		Description: "Search the food catalog by name, optionally by category",
	}, s.handleSearchFoods)

	// get_dashboard
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get the dashboard aggregate: symptom stats and food safety counts",
	}, s.handleGetDashboard)

	// list_reports
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_reports",
		Description: "List generated intolerance reports, newest first",
	}, s.handleListReports)

	// generate_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_report",
		Description: "Generate a new intolerance report covering the last N days",
	}, s.handleGenerateReport)

	// chat
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "chat",
		Description: "Send a message to the AI digestive health assistant",
	}, s.handleChat)
}

// Tool input/output types

type logSymptomInput struct {
	Types        []string `json:"types" jsonschema:"Symptom types (abdominal_pain, bloating, gas, diarrhea, constipation, nausea, heartburn, vomiting, cramps, other)"`
	Intensity    int      `json:"intensity" jsonschema:"Intensity from 1 to 10"`
	Datetime     string   `json:"datetime,omitempty" jsonschema:"Occurrence timestamp (ISO 8601), defaults to now"`
	Duration     string   `json:"duration,omitempty" jsonschema:"Duration label like 30min or 2h"`
	PainLocation string   `json:"pain_location,omitempty" jsonschema:"Pain location tag"`
	Notes        string   `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type entryOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type listInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Entry ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type logFoodInput struct {
	FoodName string `json:"food_name" jsonschema:"Name of the food"`
	MealType string `json:"meal_type" jsonschema:"Meal slot (breakfast, lunch, dinner, snack)"`
	Datetime string `json:"datetime,omitempty" jsonschema:"Occurrence timestamp (ISO 8601), defaults to now"`
	Portion  string `json:"portion,omitempty" jsonschema:"Portion label like 1 cup or 200g"`
	Notes    string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type searchFoodsInput struct {
	Term     string `json:"term" jsonschema:"Search term"`
	Category string `json:"category,omitempty" jsonschema:"Optional category filter"`
}

type generateReportInput struct {
	PeriodDays int `json:"period_days,omitempty" jsonschema:"Days the report covers (default 30)"`
}

type chatInput struct {
	Message string `json:"message" jsonschema:"Message for the assistant"`
}

type chatOutput struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Tool handlers

func (s *Server) handleLogSymptom(ctx context.Context, req *mcp.CallToolRequest, input logSymptomInput) (*mcp.CallToolResult, entryOutput, error) {
	types := make([]models.SymptomType, 0, len(input.Types))
	for _, t := range input.Types {
		types = append(types, models.SymptomType(t))
	}

	sym := models.NewSymptom("", types, input.Intensity)
	if input.Datetime != "" {
		if t, err := parseTimestamp(input.Datetime); err == nil {
			sym.WithDatetime(t)
		}
	}
	if input.Duration != "" {
		sym.WithDuration(input.Duration)
	}
	if input.PainLocation != "" {
		sym.WithPainLocation(input.PainLocation)
	}
	if input.Notes != "" {
		sym.WithNotes(input.Notes)
	}

	rec, err := s.deps.Symptoms.Create(ctx, sym)
	if err != nil {
		return nil, entryOutput{}, err
	}

	id := recordID(rec)
	return nil, entryOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged symptom (intensity %d, ID: %s)", input.Intensity, shortID(id)),
	}, nil
}

func (s *Server) handleListSymptoms(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	if err := s.deps.Symptoms.Fetch(ctx); err != nil {
		return nil, nil, err
	}
	items := capItems(s.deps.Symptoms.Items(), input.Limit)
	if len(items) == 0 {
		return nil, map[string]string{"message": "No symptoms logged yet"}, nil
	}
	return nil, items, nil
}

func (s *Server) handleDeleteSymptom(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.deps.Symptoms.Delete(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted symptom %s", shortID(input.ID))}, nil
}

func (s *Server) handleLogFood(ctx context.Context, req *mcp.CallToolRequest, input logFoodInput) (*mcp.CallToolResult, entryOutput, error) {
	fl := models.NewFoodLog("", input.FoodName, models.MealType(input.MealType))
	if input.Datetime != "" {
		if t, err := parseTimestamp(input.Datetime); err == nil {
			fl.WithDatetime(t)
		}
	}
	if input.Portion != "" {
		fl.WithPortion(input.Portion)
	}
	if input.Notes != "" {
		fl.WithNotes(input.Notes)
	}

	rec, err := s.deps.FoodLogs.Create(ctx, fl)
	if err != nil {
		return nil, entryOutput{}, err
	}

	id := recordID(rec)
	return nil, entryOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged %s for %s (ID: %s)", input.FoodName, input.MealType, shortID(id)),
	}, nil
}

func (s *Server) handleListFoodLogs(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	if err := s.deps.FoodLogs.Fetch(ctx); err != nil {
		return nil, nil, err
	}
	items := capItems(s.deps.FoodLogs.Items(), input.Limit)
	if len(items) == 0 {
		return nil, map[string]string{"message": "No food entries logged yet"}, nil
	}
	return nil, items, nil
}

func (s *Server) handleSearchFoods(ctx context.Context, req *mcp.CallToolRequest, input searchFoodsInput) (*mcp.CallToolResult, any, error) {
	foods, err := s.deps.Foods.Search(ctx, input.Term, input.Category)
	if err != nil {
		return nil, nil, err
	}
	if len(foods) == 0 {
		return nil, map[string]string{"message": fmt.Sprintf("No foods matching %q", input.Term)}, nil
	}
	return nil, foods, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	if err := s.deps.Dashboard.Fetch(ctx); err != nil {
		return nil, nil, err
	}
	return nil, s.deps.Dashboard.Stats(), nil
}

func (s *Server) handleListReports(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, any, error) {
	if err := s.deps.Reports.Fetch(ctx); err != nil {
		return nil, nil, err
	}
	items := capItems(s.deps.Reports.Items(), input.Limit)
	if len(items) == 0 {
		return nil, map[string]string{"message": "No reports generated yet"}, nil
	}
	return nil, items, nil
}

func (s *Server) handleGenerateReport(ctx context.Context, req *mcp.CallToolRequest, input generateReportInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.deps.Reports.Generate(ctx, input.PeriodDays); err != nil {
		return nil, simpleOutput{}, err
	}
	days := input.PeriodDays
	if days <= 0 {
		days = 30
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Report generated covering the last %d days", days)}, nil
}

func (s *Server) handleChat(ctx context.Context, req *mcp.CallToolRequest, input chatInput) (*mcp.CallToolResult, chatOutput, error) {
	user := s.deps.Identity.CurrentUser()
	if user == nil {
		return nil, chatOutput{}, fmt.Errorf("not authenticated")
	}

	if s.deps.Chat.ConversationID() == "" {
		if err := s.deps.Chat.Init(ctx); err != nil {
			return nil, chatOutput{}, err
		}
	}
	if _, err := s.deps.Chat.AddMessage(ctx, models.RoleUser, input.Message); err != nil {
		return nil, chatOutput{}, err
	}

	reply, err := s.deps.AI.Chat(ctx, user.ID, s.deps.Chat.ConversationID(), input.Message, "")
	if err != nil {
		return nil, chatOutput{}, err
	}
	if _, err := s.deps.Chat.AddMessage(ctx, models.RoleAssistant, reply.Text); err != nil {
		return nil, chatOutput{}, err
	}

	return nil, chatOutput{Reply: reply.Text, Suggestions: reply.Suggestions}, nil
}

// Helpers

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04", s)
	}
	return t, err
}

func capItems(items []normalize.Record, limit int) []normalize.Record {
	if limit <= 0 {
		limit = 20
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func recordID(rec normalize.Record) string {
	if id, ok := rec["id"].(string); ok {
		return id
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
