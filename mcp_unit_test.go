package shopmcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestRequestLength(t *testing.T) {
	t.Parallel()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"data_detail": "data://users"}
	got := requestLength(req)
	// {"data_detail":"data://users"}
	if got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
}

func TestRequestLengthEmpty(t *testing.T) {
	t.Parallel()
	if got := requestLength(mcp.CallToolRequest{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestResultLength(t *testing.T) {
	t.Parallel()
	result := mcp.NewToolResultText(`{"status":"success"}`)
	if got := resultLength(result); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}

func TestResultLengthNil(t *testing.T) {
	t.Parallel()
	if got := resultLength(nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestToolResultMarshalsFailureAsValue(t *testing.T) {
	t.Parallel()
	result, err := toolResult(&Failure{
		Status:       StatusFailure,
		ErrorType:    "RejectedError",
		ErrorMessage: "insufficient stock for product prod_001",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("failures are values, not protocol errors")
	}
	if got := resultLength(result); got == 0 {
		t.Fatal("expected non-empty text content")
	}
}
