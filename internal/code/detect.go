package code

import (
	"regexp"
	"strings"
)

// languageCue pairs a language name with the source patterns that identify
// it. Table order is part of the contract: the first language with any
// matching cue wins, so Python's import cue shadows lookalikes further
// down and "c" claims #include before "cpp" is consulted.
type languageCue struct {
	name string
	cues []*regexp.Regexp
}

func compileCues(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile("(?im)"+pattern))
	}
	return compiled
}

var languageCues = []languageCue{
	{name: "python", cues: compileCues(`^\s*import\s+`, `^\s*from\s+.+\s+import`, `^\s*def\s+`, `^\s*class\s+`)},
	{name: "javascript", cues: compileCues(`^\s*const\s+`, `^\s*let\s+`, `^\s*function\s+`, `^\s*import\s+.+\s+from`)},
	{name: "typescript", cues: compileCues(`^\s*interface\s+`, `^\s*type\s+`, `:\s*[A-Za-z]+`)},
	{name: "java", cues: compileCues(`^\s*public\s+class`, `^\s*private\s+`, `^\s*protected\s+`, `^\s*import\s+java\.`)},
	{name: "c", cues: compileCues(`#include\s+<`, `^\s*int\s+main\s*\(`)},
	{name: "cpp", cues: compileCues(`#include\s+<`, `std::`, `namespace\s+`, `template\s*<`)},
	{name: "csharp", cues: compileCues(`^\s*using\s+System`, `namespace\s+`, `public\s+class`)},
	{name: "php", cues: compileCues(`<\?php`, `\$[a-zA-Z_\x7f-\xff][a-zA-Z0-9_\x7f-\xff]*`)},
	{name: "go", cues: compileCues(`package\s+`, `func\s+`, `import\s+\(`)},
	{name: "ruby", cues: compileCues(`^\s*require\s+`, `^\s*class\s+`, `^\s*def\s+`, `^\s*end`)},
	{name: "rust", cues: compileCues(`fn\s+`, `let\s+mut`, `struct\s+`, `impl\s+`)},
	{name: "kotlin", cues: compileCues(`fun\s+`, `val\s+`, `var\s+`, `class\s+`)},
	{name: "swift", cues: compileCues(`func\s+`, `var\s+`, `let\s+`, `class\s+`)},
	{name: "html", cues: compileCues(`<!DOCTYPE\s+html>`, `<html`, `<head`, `<body`)},
	{name: "css", cues: compileCues(`^\s*\.[a-zA-Z]`, `^\s*#[a-zA-Z]`, `\{\s*[a-zA-Z-]+\s*:`)},
	{name: "sql", cues: compileCues(`^\s*SELECT\s+`, `^\s*INSERT\s+INTO`, `^\s*UPDATE\s+`, `^\s*CREATE\s+TABLE`)},
}

// Detect guesses the programming language of a snippet. It returns ""
// when no cue matches.
func Detect(source string) string {
	for _, lang := range languageCues {
		for _, cue := range lang.cues {
			if cue.MatchString(source) {
				return lang.name
			}
		}
	}
	return ""
}

// requestKeyword maps prose vocabulary to the language it implies.
// Checked in order; the first hit wins.
type requestKeyword struct {
	name     string
	keywords []string
}

var requestKeywords = []requestKeyword{
	{name: "python", keywords: []string{"python", "py", "django", "flask", "pandas", "numpy"}},
	{name: "javascript", keywords: []string{"javascript", "js", "node", "express", "react", "angular", "vue"}},
	{name: "typescript", keywords: []string{"typescript", "ts", "angular", "react", "vue"}},
	{name: "java", keywords: []string{"java", "spring", "android"}},
	{name: "c#", keywords: []string{"c#", "csharp", ".net", "dotnet", "asp.net"}},
	{name: "c++", keywords: []string{"c++", "cpp"}},
	{name: "go", keywords: []string{"go", "golang"}},
	{name: "ruby", keywords: []string{"ruby", "rails"}},
	{name: "php", keywords: []string{"php", "laravel", "symfony"}},
	{name: "rust", keywords: []string{"rust", "cargo"}},
	{name: "swift", keywords: []string{"swift", "ios"}},
	{name: "kotlin", keywords: []string{"kotlin", "android"}},
	{name: "html", keywords: []string{"html", "web"}},
	{name: "css", keywords: []string{"css", "style", "stylesheet"}},
	{name: "sql", keywords: []string{"sql", "database", "query"}},
}

// RequestLanguage infers the language a prose request is talking about.
// Returns "" when nothing in the vocabulary matches.
func RequestLanguage(request string) string {
	lower := strings.ToLower(request)
	for _, entry := range requestKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.name
			}
		}
	}
	return ""
}

// generationLanguages is the candidate list scanned by the code
// generation intent, in priority order.
var generationLanguages = []string{"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust"}

// GenerationLanguage picks the language for a generation request,
// defaulting to python.
func GenerationLanguage(request string) string {
	lower := strings.ToLower(request)
	for _, lang := range generationLanguages {
		if strings.Contains(lower, lang) {
			return lang
		}
	}
	return "python"
}

var extensions = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"java":       "java",
	"c":          "c",
	"cpp":        "cpp",
	"csharp":     "cs",
	"php":        "php",
	"go":         "go",
	"ruby":       "rb",
	"rust":       "rs",
	"kotlin":     "kt",
	"swift":      "swift",
	"html":       "html",
	"css":        "css",
	"sql":        "sql",
	"txt":        "txt",
}

// Extension maps a language name to its file extension, falling back
// to txt for anything outside the table.
func Extension(language string) string {
	if ext, ok := extensions[language]; ok {
		return ext
	}
	return "txt"
}
