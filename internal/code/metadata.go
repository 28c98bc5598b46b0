package code

import (
	"regexp"
	"strings"

	"codehelper/internal/domain"
)

var (
	pythonImports = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*import\s+([\w\.]+)`),
		regexp.MustCompile(`(?m)^\s*from\s+([\w\.]+)\s+import`),
	}
	scriptImports = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*import\s+.*\s+from\s+['"](.+)['"]`),
		regexp.MustCompile(`(?m)^\s*const\s+\w+\s+=\s+require\(['"](.+)['"]\)`),
	}
	jvmImports = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*import\s+([\w\.]+);`),
	}
	cIncludes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*#include\s+[<"]([\w\.\/]+)[>"]`),
	}
)

// Imports lists the modules a snippet pulls in, for the language families
// the analyzer understands. Other languages yield nil.
func Imports(source, language string) []string {
	var patterns []*regexp.Regexp
	switch language {
	case "python":
		patterns = pythonImports
	case "javascript", "typescript":
		patterns = scriptImports
	case "java", "kotlin":
		patterns = jvmImports
	case "c", "cpp":
		patterns = cIncludes
	default:
		return nil
	}

	var imports []string
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(source, -1) {
			imports = append(imports, match[1])
		}
	}
	return imports
}

// frameworkMarkers maps a framework name to the import substrings that
// betray it.
var frameworkMarkers = []struct {
	name    string
	markers []string
}{
	{name: "django", markers: []string{"django"}},
	{name: "flask", markers: []string{"flask"}},
	{name: "react", markers: []string{"react"}},
	{name: "angular", markers: []string{"@angular"}},
	{name: "vue", markers: []string{"vue"}},
	{name: "express", markers: []string{"express"}},
	{name: "spring", markers: []string{"org.springframework"}},
}

// Metadata analyzes a snippet locally: detected language, imports,
// frameworks hinted by those imports, and size counters. No network.
func Metadata(source string) domain.CodeMetadata {
	language := Detect(source)
	meta := domain.CodeMetadata{
		Language:  language,
		Length:    len(source),
		LineCount: len(strings.Split(source, "\n")),
	}
	if language == "" {
		return meta
	}

	meta.Imports = Imports(source, language)
	for _, framework := range frameworkMarkers {
		for _, marker := range framework.markers {
			if importsContain(meta.Imports, marker) {
				meta.Frameworks = append(meta.Frameworks, framework.name)
				break
			}
		}
	}
	return meta
}

func importsContain(imports []string, marker string) bool {
	marker = strings.ToLower(marker)
	for _, imp := range imports {
		if strings.Contains(strings.ToLower(imp), marker) {
			return true
		}
	}
	return false
}
