package ruleconfig

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the embedded rules
func Default() (*Rules, error) {
	rules, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded rules: %w", err)
	}
	return rules, nil
}

// Load reads a rules file; an empty path returns the embedded defaults.
// Unknown fields fail the load so typos never pass silently.
func Load(path string) (*Rules, []byte, error) {
	if path == "" {
		rules, err := Default()
		return rules, defaultYAML, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rules file: %w", err)
	}

	rules, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return rules, data, nil
}

// Parse decodes and validates rules YAML
func Parse(data []byte) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rules.normalize()

	if err := Validate(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Hash generates a SHA256 hash from canonical JSON
func Hash(rules *Rules) (string, error) {
	jsonBytes, err := json.Marshal(rules)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// normalize lowercases every matching key so lookups can compare lowercase input
func (r *Rules) normalize() {
	for i := range r.Risk.SectorPenalties {
		r.Risk.SectorPenalties[i].Keyword = lower(r.Risk.SectorPenalties[i].Keyword)
	}
	for i := range r.Resolution.Abbreviations {
		r.Resolution.Abbreviations[i].Key = lower(r.Resolution.Abbreviations[i].Key)
	}
	for i := range r.Resolution.Aliases {
		r.Resolution.Aliases[i].Key = lower(r.Resolution.Aliases[i].Key)
	}
	lowerAll(r.Resolution.StopWords)
	lowerAll(r.Forensic.AuditorKeywords)
	lowerAll(r.Forensic.CashFlowKeywords)
	lowerAll(r.Forensic.RelatedPartyKeywords)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(items []string) {
	for i := range items {
		items[i] = lower(items[i])
	}
}
