// ABOUTME: MCP resource implementations for the digestive health assistant.
// ABOUTME: Provides digestai://dashboard, digestai://recent, digestai://foods.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// digestai://dashboard - the home-screen aggregate
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "digestai://dashboard",
		Name:        "Dashboard",
		Description: "Symptom stats for the last 7 days plus food safety counts",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)

	// digestai://recent - latest symptoms and food entries
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "digestai://recent",
		Name:        "Recent Entries",
		Description: "Last 10 symptoms and last 10 food entries",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// digestai://foods - per-user food safety statuses
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "digestai://foods",
		Name:        "Food Safety Statuses",
		Description: "Foods with their safety status and score for this user",
		MIMEType:    "application/json",
	}, s.handleFoodsResource)
}

// Resource handlers

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.deps.Dashboard.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
	}

	result := map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        s.deps.Dashboard.Stats(),
	}
	return resourceResult("digestai://dashboard", result)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.deps.Symptoms.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch symptoms: %w", err)
	}
	if err := s.deps.FoodLogs.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch food logs: %w", err)
	}

	result := map[string]any{
		"symptoms":  capItems(s.deps.Symptoms.Items(), 10),
		"food_logs": capItems(s.deps.FoodLogs.Items(), 10),
	}
	return resourceResult("digestai://recent", result)
}

func (s *Server) handleFoodsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.deps.Foods.FetchStatuses(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch food statuses: %w", err)
	}

	result := map[string]any{
		"statuses": s.deps.Foods.Statuses(),
	}
	return resourceResult("digestai://foods", result)
}

func resourceResult(uri string, result any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
