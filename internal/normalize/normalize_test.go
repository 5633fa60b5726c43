// ABOUTME: Tests for the dual-convention field normalizer.
// ABOUTME: Covers idempotence, nil totality, preference order, and absence.
package normalize

import (
	"reflect"
	"testing"
)

func TestSymptomBothSpellings(t *testing.T) {
	rec := Record{
		"id":            "s1",
		"user_id":       "u1",
		"types":         []any{"bloating"},
		"intensity":     6,
		"pain_location": "lower abdomen",
		"created_at":    "2025-03-01T10:00:00Z",
	}

	got := Symptom(rec)

	if got["userId"] != "u1" || got["user_id"] != "u1" {
		t.Errorf("expected both user id spellings, got %v / %v", got["userId"], got["user_id"])
	}
	if got["painLocation"] != "lower abdomen" || got["pain_location"] != "lower abdomen" {
		t.Error("expected both pain location spellings")
	}
	if got["createdAt"] != "2025-03-01T10:00:00Z" {
		t.Error("expected createdAt to mirror created_at")
	}
	if got["intensity"] != 6 {
		t.Error("expected intensity to pass through")
	}
}

func TestSymptomCamelFallback(t *testing.T) {
	rec := Record{"id": "s1", "userId": "u1", "painLocation": "upper"}
	got := Symptom(rec)

	if got["user_id"] != "u1" {
		t.Errorf("user_id = %v, want u1", got["user_id"])
	}
	if got["pain_location"] != "upper" {
		t.Errorf("pain_location = %v, want upper", got["pain_location"])
	}
}

func TestSnakePreferredWhenBothPresent(t *testing.T) {
	rec := Record{"id": "s1", "user_id": "remote", "userId": "local"}
	got := Symptom(rec)

	if got["user_id"] != "remote" || got["userId"] != "remote" {
		t.Errorf("expected remote value to win, got %v / %v", got["user_id"], got["userId"])
	}
}

func TestEmptySnakeFallsBackToCamel(t *testing.T) {
	rec := Record{"id": "s1", "user_id": "", "userId": "local"}
	got := Symptom(rec)

	if got["user_id"] != "local" {
		t.Errorf("expected camel fallback over empty snake, got %v", got["user_id"])
	}
}

func TestAbsentFieldsStayAbsent(t *testing.T) {
	got := Symptom(Record{"id": "s1"})

	for _, key := range []string{"user_id", "userId", "pain_location", "painLocation", "notes", "duration"} {
		if _, ok := got[key]; ok {
			t.Errorf("expected %s to be absent", key)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	recs := []Record{
		{"id": "a", "user_id": "u1", "pain_location": "x", "created_at": "t1"},
		{"id": "b", "userId": "u2", "painLocation": "y"},
		{"id": "c"},
		{"id": "d", "user_id": "u3", "userId": "stale"},
	}

	for _, rec := range recs {
		once := Symptom(rec)
		twice := Symptom(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalize not idempotent for %v: %v != %v", rec, once, twice)
		}
	}
}

func TestNilCollectionYieldsEmpty(t *testing.T) {
	if got := Symptoms(nil); got == nil || len(got) != 0 {
		t.Errorf("Symptoms(nil) = %v, want empty slice", got)
	}
	if got := FoodLogs(nil); got == nil || len(got) != 0 {
		t.Errorf("FoodLogs(nil) = %v, want empty slice", got)
	}
	if got := Reports(nil); got == nil || len(got) != 0 {
		t.Errorf("Reports(nil) = %v, want empty slice", got)
	}
	if got := UserFoodStatuses(nil); got == nil || len(got) != 0 {
		t.Errorf("UserFoodStatuses(nil) = %v, want empty slice", got)
	}
}

func TestNilElementsSkipped(t *testing.T) {
	got := Symptoms([]Record{{"id": "a"}, nil, {"id": "b"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestInputNotMutated(t *testing.T) {
	rec := Record{"id": "s1", "user_id": "u1"}
	_ = Symptom(rec)

	if _, ok := rec["userId"]; ok {
		t.Error("input record was mutated")
	}
	if len(rec) != 2 {
		t.Errorf("input record changed size: %d", len(rec))
	}
}

func TestUserFoodStatusNested(t *testing.T) {
	rec := Record{
		"id":           "fs1",
		"user_id":      "u1",
		"food_id":      "f1",
		"food":         map[string]any{"id": "f1", "name": "milk"},
		"status":       "avoid",
		"safety_score": 12,
		"ai_notes":     "strong correlation with bloating",
	}

	got := UserFoodStatus(rec)

	if got["safetyScore"] != 12 || got["safety_score"] != 12 {
		t.Error("expected both safety score spellings")
	}
	if got["aiNotes"] != "strong correlation with bloating" {
		t.Error("expected aiNotes to mirror ai_notes")
	}
	food, ok := got["food"].(map[string]any)
	if !ok || food["name"] != "milk" {
		t.Error("expected nested food object to pass through")
	}
}

func TestReportFields(t *testing.T) {
	rec := Record{
		"id":           "r1",
		"user_id":      "u1",
		"period_start": "2025-02-01",
		"period_end":   "2025-03-01",
		"risk_score":   42,
		"summary":      "ok",
		"pdf_url":      "https://x/r1.pdf",
	}

	got := Report(rec)

	if got["periodStart"] != "2025-02-01" || got["periodEnd"] != "2025-03-01" {
		t.Error("expected period fields in both spellings")
	}
	if got["riskScore"] != 42 {
		t.Error("expected riskScore to mirror risk_score")
	}
	if got["pdfUrl"] != "https://x/r1.pdf" {
		t.Error("expected pdfUrl to mirror pdf_url")
	}
	if got["summary"] != "ok" {
		t.Error("expected summary to pass through")
	}
}

func TestFoodLogFields(t *testing.T) {
	rec := Record{
		"id":           "fl1",
		"user_id":      "u1",
		"food_name":    "yogurt",
		"meal_type":    "breakfast",
		"portion_size": "1 cup",
		"datetime":     "2025-03-01T08:00:00Z",
	}

	got := FoodLog(rec)

	if got["foodName"] != "yogurt" || got["mealType"] != "breakfast" {
		t.Error("expected camel mirrors for food log fields")
	}
	if got["portionSize"] != "1 cup" {
		t.Error("expected portionSize to mirror portion_size")
	}
	if got["datetime"] != "2025-03-01T08:00:00Z" {
		t.Error("expected datetime to pass through")
	}
}
