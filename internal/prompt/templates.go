// Package prompt holds the fixed template set sent to chat models.
//
// Every template declares named slots; rendering with a missing slot is a
// hard error so a broken call site can never reach a provider with a
// half-filled prompt.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names accepted by Render.
const (
	Generation  = "generation"
	Explanation = "explanation"
	Review      = "review"
	Refactoring = "refactoring"
	BugFix      = "bugfix"
	Completion  = "completion"
)

const generationText = `You are an expert software developer. Write code to solve the following task.

Language: {{.language}}
Task: {{.task_description}}
Additional Context: {{.additional_context}}

Provide well-documented, efficient, and readable code that follows best practices for the specified language.
Include comments to explain your approach and any important considerations.`

const explanationText = `Explain the following code in detail:

` + "```{{.language}}\n{{.code}}\n```" + `

Your explanation should include:
1. A high-level overview of what the code does
2. Explanation of key functions and their purposes
3. Any notable design patterns or algorithms used
4. Potential improvements or issues with the code`

const reviewText = `Review the following code and provide constructive feedback:

` + "```{{.language}}\n{{.code}}\n```" + `

Your review should include:
1. Code quality assessment
2. Potential bugs or edge cases
3. Performance considerations
4. Adherence to best practices
5. Suggestions for improvement

Be specific and provide examples where possible.`

const refactoringText = `Refactor the following code according to the specified goals:

` + "```{{.language}}\n{{.code}}\n```" + `

Refactoring Goals: {{.refactoring_goals}}

Provide the refactored code along with an explanation of the changes you made and how they address the refactoring goals.
Focus on improving code quality while maintaining functionality.`

const bugFixText = `Fix the bug in the following code:

` + "```{{.language}}\n{{.code}}\n```" + `

Bug Description: {{.bug_description}}
Expected Behavior: {{.expected_behavior}}

Provide the corrected code and explain the cause of the bug and how your solution fixes it.`

const completionText = `Complete the following code according to the instructions:

` + "```{{.language}}\n{{.code_snippet}}\n```" + `

Instructions: {{.completion_instruction}}

Provide the completed code that satisfies the instructions. Ensure the code is consistent with the existing code style and functionality.`

var templates = map[string]*template.Template{
	Generation:  mustParse(Generation, generationText),
	Explanation: mustParse(Explanation, explanationText),
	Review:      mustParse(Review, reviewText),
	Refactoring: mustParse(Refactoring, refactoringText),
	BugFix:      mustParse(BugFix, bugFixText),
	Completion:  mustParse(Completion, completionText),
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Render fills the named template with the given slots. Unknown template
// names and absent slots are errors; extra slots are ignored.
func Render(name string, slots map[string]string) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, slots); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
