package sanitize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rickchristie/shop-mcp/internal/rowmap"
)

var phoneRule = Rule{
	Pattern:     `(\+\d{2})\d+(\d{3})`,
	Replacement: "${1}xxx${2}",
}

var emailRule = Rule{
	Pattern:     `([a-zA-Z0-9._%+-])[a-zA-Z0-9._%+-]*@`,
	Replacement: "${1}***@",
}

func TestSanitizePhoneNumber(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue("+62821233447")
	if result != "+62xxx447" {
		t.Fatalf("expected +62xxx447, got %v", result)
	}
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{emailRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue("alice.johnson@example.com")
	if result != "a***@example.com" {
		t.Fatalf("expected a***@example.com, got %v", result)
	}
}

func TestNoMatch(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue("hello world")
	if result != "hello world" {
		t.Fatalf("expected hello world, got %v", result)
	}
}

func TestMultipleRulesOrdering(t *testing.T) {
	t.Parallel()
	// First rule masks phone number, second rule replaces "xxx" with "***".
	rules := []Rule{
		phoneRule,
		{Pattern: `xxx`, Replacement: "***"},
	}
	s, err := NewSanitizer(rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue("+62821233447")
	// After phone rule: "+62xxx447"
	// After second rule: "+62***447"
	if result != "+62***447" {
		t.Fatalf("expected +62***447, got %v", result)
	}
}

func TestSanitizeNestedJSONB(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := map[string]interface{}{
		"contact": map[string]interface{}{
			"phone": "+62821233447",
		},
	}
	result := s.sanitizeValue(input)
	m := result.(map[string]interface{})
	contact := m["contact"].(map[string]interface{})
	if contact["phone"] != "+62xxx447" {
		t.Fatalf("expected +62xxx447, got %v", contact["phone"])
	}
}

func TestSanitizeArrayField(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := []interface{}{"+62821233447", "+62899887766"}
	result := s.sanitizeValue(input)
	arr := result.([]interface{})
	if arr[0] != "+62xxx447" {
		t.Fatalf("expected +62xxx447 for first element, got %v", arr[0])
	}
	if arr[1] != "+62xxx766" {
		t.Fatalf("expected +62xxx766 for second element, got %v", arr[1])
	}
}

func TestSanitizeNullField(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue(nil)
	if result != nil {
		t.Fatalf("expected nil, got %v", result)
	}
}

func TestSanitizeNonStringFields(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result := s.sanitizeValue(int64(12345)); result != int64(12345) {
		t.Fatalf("expected 12345, got %v", result)
	}
	if result := s.sanitizeValue(true); result != true {
		t.Fatalf("expected true, got %v", result)
	}
	input := json.Number("9007199254740993")
	result := s.sanitizeValue(input)
	jn, ok := result.(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", result)
	}
	if jn.String() != "9007199254740993" {
		t.Fatalf("expected 9007199254740993, got %v", jn)
	}
}

func TestSanitizeEmptyRules(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := s.sanitizeValue("+62821233447")
	if result != "+62821233447" {
		t.Fatalf("expected unchanged value, got %v", result)
	}
	if s.HasRules() {
		t.Fatal("expected HasRules to be false")
	}
}

func TestSanitizeRecord(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule, emailRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := rowmap.Record{
		Columns: []string{"user_id", "email", "phone", "age"},
		Values:  []any{"usr_1a2b3c4d", "alice.johnson@example.com", "+62821233447", int64(30)},
	}
	got := s.SanitizeRecord(rec)
	if got.Values[0] != "usr_1a2b3c4d" {
		t.Fatalf("expected usr_1a2b3c4d, got %v", got.Values[0])
	}
	if got.Values[1] != "a***@example.com" {
		t.Fatalf("expected a***@example.com, got %v", got.Values[1])
	}
	if got.Values[2] != "+62xxx447" {
		t.Fatalf("expected +62xxx447, got %v", got.Values[2])
	}
	if got.Values[3] != int64(30) {
		t.Fatalf("expected 30, got %v", got.Values[3])
	}
}

func TestSanitizeRecords(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer([]Rule{phoneRule})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records := []rowmap.Record{
		{
			Columns: []string{"name", "phone"},
			Values:  []any{"Alice", "+62821233447"},
		},
		{
			Columns: []string{"name", "phone"},
			Values:  []any{"Bob", "+62899887766"},
		},
	}

	result := s.SanitizeRecords(records)
	if len(result) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result))
	}
	if result[0].Values[0] != "Alice" {
		t.Fatalf("expected Alice, got %v", result[0].Values[0])
	}
	if result[0].Values[1] != "+62xxx447" {
		t.Fatalf("expected +62xxx447, got %v", result[0].Values[1])
	}
	if result[1].Values[1] != "+62xxx766" {
		t.Fatalf("expected +62xxx766, got %v", result[1].Values[1])
	}
}

func TestNewSanitizerErrorsOnInvalidRegex(t *testing.T) {
	t.Parallel()
	_, err := NewSanitizer([]Rule{
		{Pattern: `[invalid`, Replacement: "x"},
	})
	if err == nil {
		t.Fatal("expected error for invalid regex pattern")
	}
	if !strings.Contains(err.Error(), "invalid regex pattern") {
		t.Fatalf("expected error to contain 'invalid regex pattern', got: %s", err)
	}
	if !strings.Contains(err.Error(), "[invalid") {
		t.Fatalf("expected error to contain the invalid pattern, got: %s", err)
	}
}
