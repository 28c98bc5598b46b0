package code

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMetadataPythonWithFramework(t *testing.T) {
	source := "import os\nfrom django.http import HttpResponse\n\ndef view(request):\n    return HttpResponse(\"ok\")\n"

	meta := Metadata(source)

	if meta.Language != "python" {
		t.Fatalf("language = %q, want python", meta.Language)
	}
	if diff := cmp.Diff([]string{"os", "django.http"}, meta.Imports); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"django"}, meta.Frameworks); diff != "" {
		t.Fatalf("frameworks mismatch (-want +got):\n%s", diff)
	}
	if meta.LineCount != 6 {
		t.Fatalf("line count = %d, want 6", meta.LineCount)
	}
}

func TestMetadataUnknownLanguageSkipsImports(t *testing.T) {
	meta := Metadata("just words")

	if meta.Language != "" {
		t.Fatalf("language = %q, want empty", meta.Language)
	}
	if meta.Imports != nil || meta.Frameworks != nil {
		t.Fatalf("expected no imports/frameworks, got %+v", meta)
	}
	if meta.LineCount != 1 {
		t.Fatalf("line count = %d, want 1", meta.LineCount)
	}
}

func TestImportsCFamily(t *testing.T) {
	source := "#include <stdio.h>\n#include \"local.h\"\nint main() { return 0; }\n"

	got := Imports(source, "c")

	if diff := cmp.Diff([]string{"stdio.h", "local.h"}, got); diff != "" {
		t.Fatalf("includes mismatch (-want +got):\n%s", diff)
	}
}
