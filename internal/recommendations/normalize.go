package recommendations

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const (
	groupNutrition = "nutritionRecommendations"
	groupFocus     = "weeklyFocus"
	groupProgress  = "progressNotes"
	groupTargets   = "nextWeekTargets"

	// maxDepth bounds recursive unwrapping of nested text/array payloads.
	maxDepth = 16
)

var (
	requiredGroups = []string{groupNutrition, groupFocus, groupProgress, groupTargets}

	fenceMarker = regexp.MustCompile("```(?:json|JSON)?")
)

// rawKind classifies an untyped response value. Arrays are unwrapped before
// text objects, text objects before strings, strings before the shape check.
type rawKind int

const (
	kindOther rawKind = iota
	kindArray
	kindTextObject
	kindString
	kindObject
	kindRecord
)

// Normalize turns an untyped AI response into a Record. The boolean is false
// when the value cannot be normalized.
func Normalize(raw any) (Record, bool) {
	rec, _, ok := NormalizeWithSource(raw)
	return rec, ok
}

// NormalizeWithSource is Normalize that also reports which stage produced
// the record.
func NormalizeWithSource(raw any) (Record, Source, bool) {
	return normalize(raw, 0, false)
}

// NormalizeJSON decodes an HTTP payload and normalizes it. Payloads that are
// not valid JSON are handled as text.
func NormalizeJSON(payload []byte) (Record, bool) {
	return Normalize(json.RawMessage(payload))
}

func normalize(raw any, depth int, fromString bool) (Record, Source, bool) {
	if depth > maxDepth {
		return Record{}, SourceNone, false
	}

	kind, inner := classify(raw)
	switch kind {
	case kindArray:
		return normalize(inner, depth+1, fromString)
	case kindTextObject:
		return normalize(inner, depth+1, true)
	case kindString:
		text, _ := inner.(string)
		cleaned := stripFences(text)
		var decoded any
		if err := json.Unmarshal([]byte(cleaned), &decoded); err == nil {
			return normalize(decoded, depth+1, true)
		}
		return ExtractFromText(cleaned), SourceTextFallback, true
	case kindObject:
		m, _ := inner.(map[string]any)
		if !hasRequiredGroups(m) {
			return Record{}, SourceNone, false
		}
		return recordFromMap(m), sourceFor(fromString), true
	case kindRecord:
		rec, _ := inner.(Record)
		return rec.Clone(), sourceFor(fromString), true
	default:
		return Record{}, SourceNone, false
	}
}

func classify(raw any) (rawKind, any) {
	switch v := raw.(type) {
	case nil:
		return kindOther, nil
	case []any:
		if len(v) == 0 {
			return kindOther, nil
		}
		return kindArray, v[0]
	case []map[string]any:
		if len(v) == 0 {
			return kindOther, nil
		}
		return kindArray, v[0]
	case []string:
		if len(v) == 0 {
			return kindOther, nil
		}
		return kindArray, v[0]
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return kindTextObject, text
		}
		return kindObject, v
	case string:
		return kindString, v
	case json.RawMessage:
		return classifyBytes(v)
	case []byte:
		return classifyBytes(v)
	case Record:
		return kindRecord, v
	case *Record:
		if v == nil {
			return kindOther, nil
		}
		return kindRecord, *v
	default:
		return kindOther, nil
	}
}

// classifyBytes decodes a payload that has not been through encoding/json yet.
func classifyBytes(b []byte) (rawKind, any) {
	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return kindString, string(b)
	}
	return classify(decoded)
}

func sourceFor(fromString bool) Source {
	if fromString {
		return SourceJSON
	}
	return SourceStructured
}

// stripFences removes every ```json / ``` marker, not only the outer pair.
func stripFences(s string) string {
	return strings.TrimSpace(fenceMarker.ReplaceAllString(s, ""))
}

func hasRequiredGroups(m map[string]any) bool {
	for _, key := range requiredGroups {
		if _, ok := m[key]; !ok {
			return false
		}
	}
	return true
}

func recordFromMap(m map[string]any) Record {
	nutrition := groupMap(m[groupNutrition])
	focus := groupMap(m[groupFocus])
	progress := groupMap(m[groupProgress])
	targets := groupMap(m[groupTargets])

	return Record{
		NutritionRecommendations: NutritionRecommendations{
			ShortSummary: asText(nutrition["shortSummary"]),
			BulletPoints: asTextList(nutrition["bulletPoints"]),
		},
		WeeklyFocus: WeeklyFocus{
			MainGoal:      asText(focus["mainGoal"]),
			SpecificFoods: asTextList(focus["specificFoods"]),
			AvoidOrReduce: asTextList(focus["avoidOrReduce"]),
		},
		ProgressNotes: ProgressNotes{
			WeightProgress:     asText(progress["weightProgress"]),
			NutritionQuality:   asText(progress["nutritionQuality"]),
			ChallengeEvolution: asText(progress["challengeEvolution"]),
			Encouragement:      asText(progress["encouragement"]),
		},
		NextWeekTargets: NextWeekTargets{
			CalorieTarget:      asText(targets["calorieTarget"]),
			MacroFocus:         asText(targets["macroFocus"]),
			BehavioralGoal:     asText(targets["behavioralGoal"]),
			ActivitySuggestion: asText(targets["activitySuggestion"]),
		},
	}
}

func groupMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asTextList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, asText(item))
		}
		return out
	case []string:
		return cloneStrings(t)
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}
