// ABOUTME: Field normalizer reconciling snake_case and camelCase payloads.
// ABOUTME: Pure mapping; output carries both spellings for every dual-named field.
package normalize

// Record is a loosely-typed row as it arrives from the remote store.
type Record map[string]any

// fieldPair binds the remote (snake_case) spelling of a field to its
// in-memory camelCase spelling.
type fieldPair struct {
	snake string
	camel string
}

// entitySpec enumerates every field an entity's normalized form may carry.
// Fields not listed here do not survive normalization, which keeps
// missing-field behavior enumerable.
type entitySpec struct {
	passthrough []string
	pairs       []fieldPair
}

var symptomSpec = entitySpec{
	passthrough: []string{"id", "types", "intensity", "datetime", "duration", "notes"},
	pairs: []fieldPair{
		{"user_id", "userId"},
		{"pain_location", "painLocation"},
		{"created_at", "createdAt"},
		{"updated_at", "updatedAt"},
	},
}

var userFoodStatusSpec = entitySpec{
	passthrough: []string{"id", "food", "status"},
	pairs: []fieldPair{
		{"user_id", "userId"},
		{"food_id", "foodId"},
		{"safety_score", "safetyScore"},
		{"ai_notes", "aiNotes"},
		{"updated_at", "updatedAt"},
	},
}

var foodLogSpec = entitySpec{
	passthrough: []string{"id", "datetime", "notes"},
	pairs: []fieldPair{
		{"user_id", "userId"},
		{"food_name", "foodName"},
		{"food_id", "foodId"},
		{"meal_type", "mealType"},
		{"portion_size", "portionSize"},
		{"created_at", "createdAt"},
	},
}

var reportSpec = entitySpec{
	passthrough: []string{"id", "intolerances", "summary"},
	pairs: []fieldPair{
		{"user_id", "userId"},
		{"period_start", "periodStart"},
		{"period_end", "periodEnd"},
		{"risk_score", "riskScore"},
		{"pdf_url", "pdfUrl"},
		{"created_at", "createdAt"},
	},
}

// Symptom normalizes a symptom record.
func Symptom(rec Record) Record { return apply(symptomSpec, rec) }

// UserFoodStatus normalizes a per-user food status record.
func UserFoodStatus(rec Record) Record { return apply(userFoodStatusSpec, rec) }

// FoodLog normalizes a food log record.
func FoodLog(rec Record) Record { return apply(foodLogSpec, rec) }

// Report normalizes a report record.
func Report(rec Record) Record { return apply(reportSpec, rec) }

// Symptoms normalizes a slice of symptom records. A nil slice yields an
// empty slice, never an error.
func Symptoms(recs []Record) []Record { return applyAll(symptomSpec, recs) }

// UserFoodStatuses normalizes a slice of food status records.
func UserFoodStatuses(recs []Record) []Record { return applyAll(userFoodStatusSpec, recs) }

// FoodLogs normalizes a slice of food log records.
func FoodLogs(recs []Record) []Record { return applyAll(foodLogSpec, recs) }

// Reports normalizes a slice of report records.
func Reports(recs []Record) []Record { return applyAll(reportSpec, recs) }

func applyAll(spec entitySpec, recs []Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		out = append(out, apply(spec, rec))
	}
	return out
}

// apply builds a fresh record from the entity's field table. The input is
// never mutated.
// For each pair the remote spelling wins when present and non-empty; the
// camel spelling is the fallback. Whatever value wins is written under both
// spellings. Absent fields stay absent.
func apply(spec entitySpec, rec Record) Record {
	if rec == nil {
		return nil
	}
	out := make(Record, len(spec.passthrough)+2*len(spec.pairs))
	for _, key := range spec.passthrough {
		if v, ok := rec[key]; ok && v != nil {
			out[key] = v
		}
	}
	for _, p := range spec.pairs {
		v, ok := pick(rec, p)
		if !ok {
			continue
		}
		out[p.snake] = v
		out[p.camel] = v
	}
	return out
}

func pick(rec Record, p fieldPair) (any, bool) {
	if v, ok := rec[p.snake]; ok && !isEmpty(v) {
		return v, true
	}
	if v, ok := rec[p.camel]; ok && !isEmpty(v) {
		return v, true
	}
	return nil, false
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
