package router

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleFile is the YAML document shape accepted by LoadFile.
type RuleFile struct {
	Rules   []Rule            `yaml:"rules"`
	Replies map[string]string `yaml:"replies"`
}

// LoadFile reads a rule table and reply strings from a YAML file. Replies
// missing from the file fall back to the built-in defaults so a deployment
// can override only the rules it cares about.
func LoadFile(path string) (*Router, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s declares no rules", path)
	}

	for i, rule := range file.Rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
	}

	replies := DefaultReplies()
	for k, v := range file.Replies {
		replies[k] = v
	}

	return New(file.Rules, replies), nil
}

func validateRule(rule Rule) error {
	if rule.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(rule.Keywords) == 0 {
		return fmt.Errorf("missing keywords")
	}
	routed := 0
	if rule.ReplyKey != "" {
		routed++
	}
	if rule.Agent != "" {
		routed++
	}
	if rule.Advanced {
		routed++
	}
	if routed != 1 {
		return fmt.Errorf("exactly one of reply, agent or advanced must be set")
	}
	if rule.Agent != "" && rule.Task == "" {
		return fmt.Errorf("agent rules require a task")
	}
	return nil
}
