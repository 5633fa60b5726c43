// ABOUTME: Shared CLI helpers: time parsing and record field access.
// ABOUTME: Records carry both snake_case and camelCase keys; snake is read here.
package main

import (
	"fmt"
	"time"

	"github.com/hyzendesigncontato-gif/digestai-insights/internal/normalize"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func recStr(rec normalize.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func recNum(rec normalize.Record, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func formatWhen(rec normalize.Record, key string) string {
	s := recStr(rec, key)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local().Format("2006-01-02 15:04")
	}
	return s
}
