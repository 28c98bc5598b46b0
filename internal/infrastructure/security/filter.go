// Package security screens terminal commands before execution.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"codehelper/assets"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// Filter implements the SafetyFilter port. Commands are screened against a
// substring deny list so dangerous tokens are caught anywhere in the command
// line, not just in the program name.
type Filter struct {
	deny         []string
	alternatives []AlternativeRule
}

// AlternativeRule maps a dangerous command to safer suggestions.
type AlternativeRule struct {
	Command     string   `yaml:"command"`
	Suggestions []string `yaml:"suggestions"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		Deny         []string          `yaml:"deny"`
		Alternatives []AlternativeRule `yaml:"alternatives"`
	} `yaml:"rules"`
}

// NewFilter loads filter rules from disk, falling back to the embedded
// defaults when the file is missing or a section is empty.
func NewFilter(path string) (*Filter, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	deny := make([]string, 0, len(rules.Rules.Deny))
	for _, entry := range rules.Rules.Deny {
		if entry == "" {
			continue
		}
		deny = append(deny, strings.ToLower(entry))
	}
	return &Filter{deny: deny, alternatives: rules.Rules.Alternatives}, nil
}

// IsSafe reports whether the command may be executed. Commands that cannot be
// tokenized are rejected outright.
func (f *Filter) IsSafe(command string) bool {
	if _, err := splitWords(command); err != nil {
		return false
	}
	lower := strings.ToLower(command)
	for _, entry := range f.deny {
		if strings.Contains(lower, entry) {
			return false
		}
	}
	return true
}

// DenyEntries returns a copy of the active deny list for display.
func (f *Filter) DenyEntries() []string {
	entries := make([]string, len(f.deny))
	copy(entries, f.deny)
	return entries
}

// Alternatives returns safer suggestions for a blocked command. Matches
// accumulate in rule order; a generic hint is returned when nothing matches.
func (f *Filter) Alternatives(command string) []string {
	lower := strings.ToLower(command)
	var suggestions []string
	for _, rule := range f.alternatives {
		if rule.Command == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Command)) {
			suggestions = append(suggestions, rule.Suggestions...)
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Consider reviewing the command manually before execution")
	}
	return suggestions
}

func loadRules(path string) (RulesFile, error) {
	defaults, err := parseRules(assets.DefaultSafetyYAML)
	if err != nil {
		return RulesFile{}, fmt.Errorf("parse embedded safety rules: %w", err)
	}
	data, err := os.ReadFile(resolveRulesPath(path))
	if err != nil {
		return defaults, nil
	}
	rules, err := parseRules(data)
	if err != nil {
		return RulesFile{}, fmt.Errorf("parse safety rules: %w", err)
	}
	if len(rules.Rules.Deny) == 0 {
		rules.Rules.Deny = defaults.Rules.Deny
	}
	if len(rules.Rules.Alternatives) == 0 {
		rules.Rules.Alternatives = defaults.Rules.Alternatives
	}
	return rules, nil
}

func parseRules(data []byte) (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	return rules, nil
}

func resolveRulesPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.AppDir(), "safety.yaml")
	}
	return filesystem.ExpandPath(path)
}

var _ ports.SafetyFilter = (*Filter)(nil)
