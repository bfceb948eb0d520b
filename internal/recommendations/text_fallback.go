package recommendations

import (
	"strings"
	"unicode/utf8"
)

// Best-effort extraction from free-form coaching prose. Only used when a
// response is not JSON. The keyword tables below are matched as lowercase
// substrings and are tuned against real upstream replies, so changes here
// change what users see.

type section int

const (
	sectionNone section = iota
	sectionNutrition
	sectionFocus
	sectionProgress
	sectionTargets
)

const (
	minSentenceLen  = 30
	maxLabelLen     = 40
	maxHeadingWords = 6
)

var (
	avoidWords = []string{
		"exclude", "avoid", "limit", "reduce", "cut back", "cut down", "cut out",
		"less ", "fewer ", "skip ", "minimi", "swap out",
	}
	includeWords = []string{
		"add ", "include", "incorporate", "increase", "eat more", "more ", "aim for", "enjoy",
	}
	indulgentFoods = []string{
		"sugar", "sweets", "soda", "candy", "dessert", "cake", "cookie", "pastr",
		"chips", "fried", "fast food", "takeaway", "processed", "alcohol", "beer",
		"wine", "white bread", "juice", "ice cream", "chocolate",
	}
	wholeFoods = []string{
		"vegetable", "veggie", "fruit", "berries", "protein", "chicken", "turkey",
		"fish", "salmon", "tuna", "egg", "yogurt", "oats", "oatmeal", "beans",
		"lentil", "nuts", "seeds", "tofu", "greens", "spinach", "broccoli",
		"quinoa", "brown rice", "whole grain", "water", "fiber", "fibre", "avocado",
	}

	weightWords        = []string{"weight"}
	qualityWords       = []string{"quality"}
	challengeWords     = []string{"challenge"}
	encouragementWords = []string{
		"keep up", "keep going", "great job", "great work", "well done", "proud",
		"you've got this", "you got this", "encourag",
	}
	calorieWords  = []string{"calorie", "kcal"}
	macroWords    = []string{"macro", "protein"}
	behaviorWords = []string{"habit", "behavior", "behaviour", "mindful"}
	activityWords = []string{"activity", "exercise", "workout", "walk", "steps", "training"}
)

// ExtractFromText scrapes a Record out of unstructured text. It always
// returns a fully shaped record; fields it cannot find stay empty.
func ExtractFromText(text string) Record {
	out := Empty()
	current := sectionNone
	haveSummary := false
	haveGoal := false

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		item, bulleted := bulletText(line)
		plain := cleanLine(item)
		if plain == "" || strings.Trim(plain, "-=_*") == "" {
			continue
		}
		lower := strings.ToLower(plain)
		header := isHeader(line, plain)

		switched := false
		if next, ok := detectSection(lower); ok {
			current = next
			switched = true
		}
		// Headers and bare heading lines carry no content of their own.
		if header || (switched && !bulleted && isBareHeading(plain)) {
			continue
		}

		if bulleted {
			switch current {
			case sectionNutrition:
				out.NutritionRecommendations.BulletPoints = append(out.NutritionRecommendations.BulletPoints, plain)
			case sectionFocus:
				switch classifyFocusItem(lower) {
				case focusInclude:
					out.WeeklyFocus.SpecificFoods = append(out.WeeklyFocus.SpecificFoods, plain)
				case focusAvoid:
					out.WeeklyFocus.AvoidOrReduce = append(out.WeeklyFocus.AvoidOrReduce, plain)
				}
			}
		} else if utf8.RuneCountInString(plain) > minSentenceLen {
			switch {
			case !haveSummary && (current == sectionNutrition || current == sectionNone):
				out.NutritionRecommendations.ShortSummary = plain
				haveSummary = true
			case !haveGoal && current == sectionFocus:
				out.WeeklyFocus.MainGoal = plain
				haveGoal = true
			}
		}

		value := labelValue(plain)
		if containsAny(lower, weightWords) {
			out.ProgressNotes.WeightProgress = value
		}
		if containsAny(lower, qualityWords) {
			out.ProgressNotes.NutritionQuality = value
		}
		if containsAny(lower, challengeWords) {
			out.ProgressNotes.ChallengeEvolution = value
		}
		if containsAny(lower, encouragementWords) {
			out.ProgressNotes.Encouragement = value
		}
		if containsAny(lower, calorieWords) {
			out.NextWeekTargets.CalorieTarget = value
		}
		if containsAny(lower, macroWords) {
			out.NextWeekTargets.MacroFocus = value
		}
		if containsAny(lower, behaviorWords) {
			out.NextWeekTargets.BehavioralGoal = value
		}
		if containsAny(lower, activityWords) {
			out.NextWeekTargets.ActivitySuggestion = value
		}
	}
	return out
}

func detectSection(lower string) (section, bool) {
	switch {
	case strings.Contains(lower, "recommendation") && strings.Contains(lower, "nutrition"):
		return sectionNutrition, true
	case strings.Contains(lower, "focus") || strings.Contains(lower, "goal"):
		return sectionFocus, true
	case strings.Contains(lower, "progress") || strings.Contains(lower, "analysis"):
		return sectionProgress, true
	case strings.Contains(lower, "next") && strings.Contains(lower, "week"):
		return sectionTargets, true
	default:
		return sectionNone, false
	}
}

type focusKind int

const (
	focusUnknown focusKind = iota
	focusInclude
	focusAvoid
)

// classifyFocusItem checks explicit verbs before food names, so "limit
// fruit juice" lands in avoid and "add dark chocolate" in include.
func classifyFocusItem(lower string) focusKind {
	switch {
	case containsAny(lower, avoidWords):
		return focusAvoid
	case containsAny(lower+" ", includeWords):
		return focusInclude
	case containsAny(lower, indulgentFoods):
		return focusAvoid
	case containsAny(lower, wholeFoods):
		return focusInclude
	default:
		return focusUnknown
	}
}

// bulletText strips a leading •, - or * marker. "**bold**" is not a bullet.
func bulletText(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "•"):
		return strings.TrimSpace(strings.TrimPrefix(line, "•")), true
	case strings.HasPrefix(line, "**"):
		return line, false
	case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
		return strings.TrimSpace(line[1:]), true
	default:
		return line, false
	}
}

func cleanLine(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.TrimLeft(s, "#")
	return strings.TrimSpace(s)
}

func isHeader(line, plain string) bool {
	if strings.HasPrefix(line, "#") || strings.HasSuffix(plain, ":") {
		return true
	}
	return len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**")
}

// labelValue returns the text after a short "Label:" prefix, or the whole
// line when there is no such prefix.
func labelValue(plain string) string {
	idx := strings.Index(plain, ":")
	if idx <= 0 || idx > maxLabelLen {
		return plain
	}
	value := strings.TrimSpace(plain[idx+1:])
	if value == "" {
		return plain
	}
	return value
}

func isBareHeading(plain string) bool {
	return !hasLabelValue(plain) && len(strings.Fields(plain)) <= maxHeadingWords
}

func hasLabelValue(plain string) bool {
	return labelValue(plain) != plain
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
