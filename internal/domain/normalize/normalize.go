// Package normalize converts source-specific raw evaluation fields into
// canonical score records.
//
// Every accepted legacy field name is enumerated in an explicit
// per-source resolution table; nothing is resolved by probing arbitrary
// attributes at runtime. Numeric coercion is centralized here so a
// missing or malformed field becomes 0, never NaN.
package normalize

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kaplanm/puantaj/internal/domain/model"
)

// Source type identifiers shared with the adapters.
const (
	SourceChecklist  = "checklist"
	SourceMoldChange = "mold_change"
	SourceHRTemplate = "hr_template"
	SourcePayroll    = "payroll"
)

// RawFields is one source row's fields as loosely-typed key/value pairs,
// the shape the legacy stores hand back.
type RawFields map[string]any

// Input carries everything needed to produce one canonical record. The
// adapter supplies identity and date; the fields are resolved here.
type Input struct {
	SourceType string
	SourceID   string
	UserID     string
	Date       model.Date
	Fields     RawFields
}

// fieldTable maps each canonical attribute to the ordered list of legacy
// field names to try, per source type. Earlier names win. The two known
// HR schema generations are both listed; resolution never throws when
// one is absent.
var fieldTable = map[string]map[string][]string{
	SourceChecklist: {
		"category":  {"kategori", "tip"},
		"points":    {"puan", "toplamPuan"},
		"maxPoints": {"maksimumPuan", "toplamMaksimumPuan"},
	},
	SourceMoldChange: {
		"category":  {"kategori"},
		"points":    {"puan"},
		"maxPoints": {"maksimumPuan"},
		"share":     {"katkiOrani", "pay"},
	},
	SourceHRTemplate: {
		"category":  {"kategori"},
		"points":    {"puan", "alinanPuan"},
		"maxPoints": {"maksimumPuan", "maxPuan"},
	},
	SourcePayroll: {
		"category":  {"kategori", "tur"},
		"points":    {"puan", "tutar"},
		"maxPoints": {"maksimumPuan"},
	},
}

// categoryAliases maps legacy category values from the source systems to
// the canonical enumeration. Values already in canonical form pass
// through model.ParseCategory; anything else must appear here.
var categoryAliases = map[string]model.Category{
	"rutin":          model.CategoryChecklist,
	"olay":           model.CategoryEventTask,
	"kalip_degisim":  model.CategoryEventTask,
	"kalite_kontrol": model.CategoryQualityControl,
	"ik_sablonu":     model.CategoryHRTemplate,
	"mesai":          model.CategoryOvertime,
	"devamsizlik":    model.CategoryAbsence,
	"kontrol_puani":  model.CategoryControlScore,
	"prim":           model.CategoryBonus,
}

// Number resolves the first present field among names and coerces it to
// a finite float64. Absent, nil, non-numeric, NaN, and infinite values
// all resolve to 0.
func Number(fields RawFields, names ...string) float64 {
	for _, name := range names {
		v, ok := fields[name]
		if !ok || v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return 0
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
	return 0
}

// Text resolves the first present non-empty string field among names.
func Text(fields RawFields, names ...string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Normalize resolves in.Fields through the per-source table and returns
// a canonical record, or an error describing why the record must be
// dropped. Integrity problems are rejected, not clamped; clamping would
// hide upstream evaluation bugs.
func Normalize(in Input) (model.CanonicalScoreRecord, error) {
	table, ok := fieldTable[in.SourceType]
	if !ok {
		return model.CanonicalScoreRecord{}, fmt.Errorf("%w: unknown source type %q", ErrNormalization, in.SourceType)
	}

	category, err := resolveCategory(Text(in.Fields, table["category"]...))
	if err != nil {
		return model.CanonicalScoreRecord{}, fmt.Errorf("%w: source %s/%s: %w", ErrNormalization, in.SourceType, in.SourceID, err)
	}

	points := Number(in.Fields, table["points"]...)
	maxPoints := Number(in.Fields, table["maxPoints"]...)

	if maxPoints < 0 {
		return model.CanonicalScoreRecord{}, fmt.Errorf("%w: source %s/%s: negative max points %v", ErrIntegrity, in.SourceType, in.SourceID, maxPoints)
	}
	if maxPoints > 0 && points > maxPoints {
		return model.CanonicalScoreRecord{}, fmt.Errorf("%w: source %s/%s: points %v exceed max %v", ErrIntegrity, in.SourceType, in.SourceID, points, maxPoints)
	}
	if points < 0 && category != model.CategoryAbsence {
		return model.CanonicalScoreRecord{}, fmt.Errorf("%w: source %s/%s: negative points %v for category %s", ErrIntegrity, in.SourceType, in.SourceID, points, category)
	}

	rec := model.CanonicalScoreRecord{
		UserID:     in.UserID,
		Date:       in.Date,
		Category:   category,
		Points:     points,
		MaxPoints:  maxPoints,
		SourceType: in.SourceType,
		SourceID:   in.SourceID,
	}

	if names, ok := table["share"]; ok {
		if hasAny(in.Fields, names) {
			share := Number(in.Fields, names...)
			if share < 0 || share > 1 {
				return model.CanonicalScoreRecord{}, fmt.Errorf("%w: source %s/%s: collaborator share %v outside [0,1]", ErrIntegrity, in.SourceType, in.SourceID, share)
			}
			rec.CollaboratorShare = &share
		}
	}

	return rec, nil
}

func resolveCategory(raw string) (model.Category, error) {
	if raw == "" {
		return "", model.ErrUnknownCategory
	}
	if alias, ok := categoryAliases[raw]; ok {
		return alias, nil
	}
	return model.ParseCategory(raw)
}

func hasAny(fields RawFields, names []string) bool {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return true
		}
	}
	return false
}
