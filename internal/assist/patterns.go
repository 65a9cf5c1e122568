package assist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// domainSynonyms scores free-text words against automation domains.
// Multi-word synonyms match as phrases and score higher.
var domainSynonyms = map[string][]string{
	"light":        {"light", "lights", "lamp", "bulb", "brightness", "dim"},
	"switch":       {"switch", "plug", "outlet", "socket"},
	"climate":      {"thermostat", "heating", "heater", "ac", "air conditioning", "temperature"},
	"cover":        {"blind", "blinds", "curtain", "curtains", "shutter", "garage door"},
	"media_player": {"tv", "speaker", "music", "media", "volume"},
	"fan":          {"fan", "ventilation"},
	"lock":         {"lock", "unlock", "door lock"},
	"vacuum":       {"vacuum", "roomba", "clean the floor"},
}

var areaKeywords = []string{
	"kitchen", "bedroom", "living room", "bathroom", "garage", "office",
	"hallway", "basement", "attic", "dining room", "porch", "garden",
	"balcony", "patio", "nursery",
}

var (
	timePattern    = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	numericPattern = regexp.MustCompile(`(?i)(?:when|if)\s+(\w+)\s*(above|below|over|under)\s*(\d+)`)
	statePattern   = regexp.MustCompile(`(?i)(?:when|if)\s+(.+?)\s+(?:turns?|becomes?)\s+(on|off|home|away)`)
	percentPattern = regexp.MustCompile(`(\d{1,3})\s*(?:%|percent)`)
)

// detectDomain scores each domain's synonyms against the query and returns
// the best match, defaulting to light.
func detectDomain(query string) string {
	lower := strings.ToLower(query)
	words := map[string]bool{}
	for _, w := range regexp.MustCompile(`\w+`).FindAllString(lower, -1) {
		words[w] = true
	}

	best, bestScore := "light", 0
	for domain, synonyms := range domainSynonyms {
		score := 0
		for _, synonym := range synonyms {
			if strings.Contains(synonym, " ") {
				if strings.Contains(lower, synonym) {
					score += 3
				}
			} else if words[synonym] {
				score += 2
			}
		}
		if score > bestScore {
			best, bestScore = domain, score
		}
	}

	return best
}

func extractArea(query string) string {
	lower := strings.ToLower(query)
	for _, area := range areaKeywords {
		if strings.Contains(lower, area) {
			return area
		}
	}

	return ""
}

// detectTrigger derives the automation trigger from the query: sun events,
// state changes, numeric thresholds, then clock times, in that order.
func detectTrigger(query string) map[string]any {
	lower := strings.ToLower(query)

	if strings.Contains(lower, "sunset") {
		return map[string]any{"trigger": "sun", "event": "sunset"}
	}
	if strings.Contains(lower, "sunrise") {
		return map[string]any{"trigger": "sun", "event": "sunrise"}
	}

	if match := numericPattern.FindStringSubmatch(lower); match != nil {
		value, _ := strconv.Atoi(match[3])
		trigger := map[string]any{
			"trigger":   "numeric_state",
			"entity_id": "sensor." + match[1],
		}
		if match[2] == "above" || match[2] == "over" {
			trigger["above"] = value
		} else {
			trigger["below"] = value
		}
		return trigger
	}

	if match := statePattern.FindStringSubmatch(lower); match != nil {
		subject := strings.ReplaceAll(strings.TrimSpace(match[1]), " ", "_")
		return map[string]any{
			"trigger":   "state",
			"entity_id": "binary_sensor." + subject,
			"to":        match[2],
		}
	}

	if at := extractTime(lower); at != "" {
		return map[string]any{"trigger": "time", "at": at}
	}

	return nil
}

// extractTime normalizes the first clock expression to HH:MM:SS.
func extractTime(lower string) string {
	match := timePattern.FindStringSubmatch(lower)
	if match == nil {
		return ""
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil || hour > 23 {
		return ""
	}

	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}

	// Bare small numbers without am/pm or minutes are usually not times.
	if match[2] == "" && match[3] == "" {
		return ""
	}

	switch match[3] {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return ""
	}

	return fmt.Sprintf("%02d:%02d:00", hour, minute)
}

// extractValues picks service data out of the query, currently brightness
// percentages and target temperatures.
func extractValues(query, domain string) map[string]any {
	lower := strings.ToLower(query)
	values := map[string]any{}

	if domain == "light" {
		if match := percentPattern.FindStringSubmatch(lower); match != nil {
			if pct, err := strconv.Atoi(match[1]); err == nil && pct <= 100 {
				values["brightness_pct"] = pct
			}
		}
	}

	if domain == "climate" {
		if match := regexp.MustCompile(`(\d{1,2})\s*(?:degrees|°)`).FindStringSubmatch(lower); match != nil {
			if deg, err := strconv.Atoi(match[1]); err == nil {
				values["temperature"] = deg
			}
		}
	}

	return values
}

// detectAction decides whether the query asks to turn the target on or off.
func detectAction(query string) string {
	lower := strings.ToLower(query)
	offWords := []string{"turn off", "switch off", "shut off", "disable", "stop"}
	for _, w := range offWords {
		if strings.Contains(lower, w) {
			return "turn_off"
		}
	}

	return "turn_on"
}

// automationName derives a short alias from the query.
func automationName(query string) string {
	cleaned := strings.TrimSpace(query)
	if len(cleaned) > 60 {
		cleaned = cleaned[:60]
	}
	if cleaned == "" {
		return "Generated Automation"
	}

	return strings.ToUpper(cleaned[:1]) + cleaned[1:]
}
