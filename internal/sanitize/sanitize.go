// Package sanitize applies regex-based redaction to result record values
// before they are handed to an AI agent. Rules come from configuration; a
// typical deployment masks user emails and phone numbers.
package sanitize

import (
	"fmt"
	"regexp"

	"github.com/rickchristie/shop-mcp/internal/rowmap"
)

// Rule is the sanitizer's own rule type.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Sanitizer applies regex-based sanitization to record field values.
type Sanitizer struct {
	rules []compiledRule
}

// NewSanitizer creates a new Sanitizer. Returns an error on invalid regex patterns.
func NewSanitizer(rules []Rule) (*Sanitizer, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("sanitize: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, replacement: r.Replacement}
	}
	return &Sanitizer{rules: compiled}, nil
}

// HasRules returns true if the sanitizer has any rules configured.
func (s *Sanitizer) HasRules() bool {
	return len(s.rules) > 0
}

// SanitizeRecords applies sanitization to each field value of every record,
// recursing into JSONB object and array values. Mutates in place.
func (s *Sanitizer) SanitizeRecords(records []rowmap.Record) []rowmap.Record {
	for _, rec := range records {
		s.SanitizeRecord(rec)
	}
	return records
}

// SanitizeRecord applies sanitization to each field value of one record.
func (s *Sanitizer) SanitizeRecord(rec rowmap.Record) rowmap.Record {
	if len(s.rules) == 0 {
		return rec
	}
	for i, v := range rec.Values {
		rec.Values[i] = s.sanitizeValue(v)
	}
	return rec
}

func (s *Sanitizer) sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		result := val
		for _, rule := range s.rules {
			result = rule.pattern.ReplaceAllString(result, rule.replacement)
		}
		return result
	case map[string]any:
		for k, v := range val {
			val[k] = s.sanitizeValue(v)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = s.sanitizeValue(item)
		}
		return val
	default:
		// Numeric, bool, nil — return as-is.
		return v
	}
}
