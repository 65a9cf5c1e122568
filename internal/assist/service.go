// Package assist turns short natural-language requests into automation
// YAML using synonym scoring and pattern extraction. It is deliberately a
// rule-based template engine, not a model client.
package assist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// automation is the generated document shape. Field order follows the
// conventional authoring order.
type automation struct {
	ID          string           `yaml:"id"`
	Alias       string           `yaml:"alias"`
	Description string           `yaml:"description,omitempty"`
	Triggers    []map[string]any `yaml:"triggers"`
	Actions     []map[string]any `yaml:"actions"`
	Mode        string           `yaml:"mode"`
}

// Generate renders automation YAML for the query. Without a recognizable
// trigger the result still renders, with a placeholder the user completes.
func (s *Service) Generate(query string) (*Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	domain := detectDomain(query)
	area := extractArea(query)
	action := detectAction(query)
	values := extractValues(query, domain)

	entity := domain + ".your_device"
	if area != "" {
		entity = domain + "." + strings.ReplaceAll(area, " ", "_")
	}

	trigger := detectTrigger(query)
	if trigger == nil {
		trigger = map[string]any{"trigger": "state", "entity_id": entity}
	}

	act := map[string]any{
		"action": domain + "." + action,
		"target": map[string]any{"entity_id": entity},
	}
	if len(values) > 0 && action == "turn_on" {
		act["data"] = values
	}

	doc := automation{
		ID:          uuid.NewString(),
		Alias:       automationName(query),
		Description: "Generated from: " + query,
		Triggers:    []map[string]any{trigger},
		Actions:     []map[string]any{act},
		Mode:        "single",
	}

	rendered, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render automation: %w", err)
	}

	s.logger.Debug("generated automation",
		zap.String("domain", domain),
		zap.String("action", action))

	return &Suggestion{
		YAML:   string(rendered),
		Domain: domain,
		Entity: entity,
	}, nil
}

// CheckYAML validates syntax and returns generic remediation hints on
// failure.
func (s *Service) CheckYAML(content string) *CheckResult {
	var parsed any
	if err := yaml.Unmarshal([]byte(content), &parsed); err != nil {
		return &CheckResult{
			Valid: false,
			Error: err.Error(),
			Suggestions: []string{
				"Check for proper indentation (use 2 spaces, not tabs)",
				"Ensure all quotes are properly closed",
				"Verify that list items start with '-' followed by a space",
				"Check for special characters that need quoting",
			},
		}
	}

	return &CheckResult{Valid: true}
}
