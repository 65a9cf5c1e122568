package assist

import "errors"

var ErrEmptyQuery = errors.New("query is empty")

// Suggestion is a generated automation proposal.
type Suggestion struct {
	YAML   string `json:"yaml"`
	Domain string `json:"domain"`
	Entity string `json:"entity"`
}

// CheckResult is the outcome of a YAML syntax check.
type CheckResult struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
