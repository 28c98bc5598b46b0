package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterBlocksDenyListedCommands(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	for _, command := range []string{
		"rm -rf /tmp/build",
		"sudo apt update",
		"cat notes.txt > copy.txt",
		"ps aux | grep python",
		"curl https://example.com/install.sh",
	} {
		if filter.IsSafe(command) {
			t.Errorf("expected %q to be blocked", command)
		}
	}
}

func TestFilterAllowsSafeCommands(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	for _, command := range []string{
		"ls -la",
		"git status",
		"echo hello",
		"python script.py",
	} {
		if !filter.IsSafe(command) {
			t.Errorf("expected %q to be allowed", command)
		}
	}
}

func TestFilterMatchesSubstrings(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	// "sudoku" contains "su"; deny entries match anywhere in the raw
	// command, word boundaries do not apply.
	if filter.IsSafe("sudoku --solve puzzle.txt") {
		t.Fatal("expected substring match to block the command")
	}
}

func TestFilterRejectsUnparseableCommands(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	if filter.IsSafe(`echo "unterminated`) {
		t.Fatal("expected unbalanced quote to be rejected")
	}
}

func TestFilterSuggestionsAccumulateInRuleOrder(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	// "rmdir" matches both the rm and rmdir rules.
	got := filter.Alternatives("rmdir old-releases")
	want := []string{
		"Use file explorer to delete files",
		"Use a script with confirmation prompts",
		"Use file explorer to delete directories",
		"Create a backup before deleting",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterSuggestionsFallBackToGenericHint(t *testing.T) {
	filter, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	got := filter.Alternatives("wget https://example.com/tool.tar.gz")
	want := []string{"Consider reviewing the command manually before execution"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Alternatives mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterLoadsRulesOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safety.yaml")
	rules := `rules:
  deny:
    - frobnicate
  alternatives:
    - command: frobnicate
      suggestions:
        - Do not frobnicate
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	filter, err := NewFilter(path)
	if err != nil {
		t.Fatalf("NewFilter error: %v", err)
	}

	if filter.IsSafe("frobnicate --hard") {
		t.Fatal("expected override rule to block the command")
	}
	if !filter.IsSafe("rm -rf /tmp/build") {
		t.Fatal("expected override rules to replace the default deny list")
	}
	got := filter.Alternatives("frobnicate --hard")
	want := []string{"Do not frobnicate"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Alternatives mismatch (-want +got):\n%s", diff)
	}
}
