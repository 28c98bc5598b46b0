package prompt

import (
	"strings"
	"testing"
)

func TestRenderGenerationFillsAllSlots(t *testing.T) {
	out, err := Render(Generation, map[string]string{
		"language":           "python",
		"task_description":   "sort a list of numbers",
		"additional_context": "input comes from stdin",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for _, want := range []string{
		"Language: python",
		"Task: sort a list of numbers",
		"Additional Context: input comes from stdin",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered prompt missing %q:\n%s", want, out)
		}
	}
}

func TestRenderWrapsCodeInFence(t *testing.T) {
	out, err := Render(Explanation, map[string]string{
		"language": "go",
		"code":     "func main() {}",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, "```go\nfunc main() {}\n```") {
		t.Fatalf("rendered prompt does not fence the code:\n%s", out)
	}
}

func TestRenderMissingSlotFails(t *testing.T) {
	_, err := Render(BugFix, map[string]string{
		"language": "python",
		"code":     "print(1)",
		// bug_description and expected_behavior absent
	})
	if err == nil {
		t.Fatal("expected error for missing slots, got nil")
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	_, err := Render("translation", map[string]string{})
	if err == nil {
		t.Fatal("expected error for unknown template name, got nil")
	}
	if !strings.Contains(err.Error(), "unknown prompt template") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderIgnoresExtraSlots(t *testing.T) {
	out, err := Render(Completion, map[string]string{
		"language":               "python",
		"code_snippet":           "def add(a, b):",
		"completion_instruction": "return the sum",
		"unused":                 "ignored",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, "Instructions: return the sum") {
		t.Fatalf("rendered prompt missing instruction:\n%s", out)
	}
}
