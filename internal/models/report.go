// ABOUTME: Report and IntoleranceAnalysis models for AI-generated reports.
// ABOUTME: Reports are generated by a remote procedure and immutable afterwards.
package models

import "time"

// Report is an AI-generated digestive health report for a period.
type Report struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	PeriodStart  time.Time             `json:"period_start"`
	PeriodEnd    time.Time             `json:"period_end"`
	RiskScore    int                   `json:"risk_score"`
	Intolerances []IntoleranceAnalysis `json:"intolerances,omitempty"`
	Summary      string                `json:"summary"`
	PDFURL       *string               `json:"pdf_url,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// IntoleranceAnalysis is one suspected intolerance within a report.
type IntoleranceAnalysis struct {
	Type               string   `json:"type"`
	Probability        int      `json:"probability"`
	CorrelatedSymptoms []string `json:"correlated_symptoms,omitempty"`
	CorrelatedFoods    []string `json:"correlated_foods,omitempty"`
}
