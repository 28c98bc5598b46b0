package helpers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopUsage(t *testing.T) {
	frequency := map[string]int{
		"freeform":      5,
		"generate_code": 9,
		"explain_code":  5,
		"fix_bug":       1,
	}

	want := []UsageStat{
		{Label: "generate_code", Count: 9},
		{Label: "explain_code", Count: 5},
		{Label: "freeform", Count: 5},
		{Label: "fix_bug", Count: 1},
	}
	if diff := cmp.Diff(want, TopUsage(frequency, 0)); diff != "" {
		t.Fatalf("TopUsage mismatch (-want +got):\n%s", diff)
	}

	limited := TopUsage(frequency, 2)
	if len(limited) != 2 {
		t.Fatalf("limited length = %d, want 2", len(limited))
	}
	if limited[0].Label != "generate_code" {
		t.Fatalf("top entry = %q", limited[0].Label)
	}
}

func TestCalculateSuccessRate(t *testing.T) {
	if got := CalculateSuccessRate(3, 4); got != 75.0 {
		t.Fatalf("CalculateSuccessRate(3, 4) = %v, want 75", got)
	}
	if got := CalculateSuccessRate(0, 0); got != 0.0 {
		t.Fatalf("CalculateSuccessRate(0, 0) = %v, want 0", got)
	}
}

func TestTraverseNestedMap(t *testing.T) {
	data := map[string]interface{}{
		"preferences": map[string]interface{}{
			"default_model": "gpt-4",
		},
	}

	value, found := TraverseNestedMap(data, []string{"preferences", "default_model"})
	if !found {
		t.Fatal("expected key to be found")
	}
	if value != "gpt-4" {
		t.Fatalf("value = %v, want gpt-4", value)
	}

	if _, found := TraverseNestedMap(data, []string{"preferences", "missing"}); found {
		t.Fatal("expected missing key to report not found")
	}
	if _, found := TraverseNestedMap(data, []string{"preferences", "default_model", "deeper"}); found {
		t.Fatal("expected traversal into a scalar to fail")
	}
}
