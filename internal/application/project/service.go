// Package project drives the automated project workflow: the model
// produces a requirements list and a script, then the installer and
// runner bring them to life inside the data directory.
package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codehelper/internal/code"
	"codehelper/internal/domain"
	"codehelper/internal/ports"
)

const requirementsPrompt = `Return the Python libraries required for the following request in requirements.txt format.
Write ONLY the library names, nothing else.

IMPORTANT RULES:
1. Only library names
2. One library per line
3. Do NOT use command phrases such as pip install or !pip install
4. Do NOT add any explanation or extra text
5. Only valid PyPI package names
6. Use scikit-learn instead of sklearn

Example format:
xgboost
pandas
scikit-learn
numpy

Request: %s`

const scriptPrompt = `Produce working Python code for the following request as a single code block only.
Do not add explanations before or after the code. File name: model.py

Request: %s`

const installPrompt = `Detect the Python libraries required for the following request and return only the library names in requirements.txt format.
Write the library names inside a code block only, with no extra explanation.

Request: %s`

// Service orchestrates the end-to-end project workflow. All dependencies
// are injected so the workflow can be exercised without a live model or
// package index.
type Service struct {
	Chat     ports.ChatClient
	Executor ports.CommandExecutor
	Writer   ports.ArtifactWriter
	Logger   ports.Logger

	Settings domain.InstallerSettings
	// WorkDir is the working directory for installer and runner commands,
	// normally the data directory holding the generated artifacts.
	WorkDir string

	// Sleep separates install retries; tests inject a recording stub.
	Sleep func(time.Duration)
}

// Generate runs the full workflow for a request: derive requirements,
// write them, generate the script, install the requirements with retries,
// and finally run the script. Installer and runner failures are reported
// through the result outputs rather than as errors, so callers always get
// the artifact paths that were produced.
func (s *Service) Generate(ctx context.Context, request string) (domain.ProjectResult, error) {
	if err := s.checkDependencies(); err != nil {
		return domain.ProjectResult{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reply, err := s.complete(ctx, fmt.Sprintf(requirementsPrompt, request))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("detect requirements: %w", err)
	}
	packages := sanitizeRequirements(blockOrWhole(reply))
	requirementsPath, err := s.Writer.WriteArtifact("requirements", "txt", strings.Join(packages, "\n"))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("write requirements: %w", err)
	}
	s.Logger.Info("requirements written", map[string]interface{}{
		"path":     requirementsPath,
		"packages": len(packages),
	})

	reply, err = s.complete(ctx, fmt.Sprintf(scriptPrompt, request))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("generate script: %w", err)
	}
	scriptPath, err := s.Writer.WriteArtifact("model", "py", blockOrWhole(reply))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("write script: %w", err)
	}

	install, attempts := s.installWithRetries(ctx, requirementsPath)
	if install.Status != domain.StatusSuccess {
		s.installOneByOne(ctx, packages)
	}

	runCommand := fmt.Sprintf("%s %s", s.Settings.Runner, scriptPath)
	s.Logger.Info("running generated script", map[string]interface{}{"command": runCommand})
	run := s.Executor.Execute(ctx, runCommand, s.execOptions(s.Settings.RunTimeoutSeconds))

	return domain.ProjectResult{
		Status:           domain.StatusSuccess,
		RequirementsPath: requirementsPath,
		ScriptPath:       scriptPath,
		InstallStdout:    install.Stdout,
		InstallStderr:    install.Stderr,
		RunStdout:        run.Stdout,
		RunStderr:        run.Stderr,
		Attempts:         attempts,
		Message: fmt.Sprintf(
			"Created requirements.txt and model.py, then ran the install and run steps.\n\nrequirements.txt: %s\nmodel.py: %s",
			requirementsPath, scriptPath,
		),
	}, nil
}

// InstallLibraries derives the package list for a request and installs it
// in a single attempt. It backs the library installation intent, where the
// user asked for packages rather than a whole project.
func (s *Service) InstallLibraries(ctx context.Context, request string) (domain.ProjectResult, error) {
	if err := s.checkDependencies(); err != nil {
		return domain.ProjectResult{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reply, err := s.complete(ctx, fmt.Sprintf(installPrompt, request))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("detect requirements: %w", err)
	}
	packages := sanitizeRequirements(blockOrWhole(reply))
	requirementsPath, err := s.Writer.WriteArtifact("requirements", "txt", strings.Join(packages, "\n"))
	if err != nil {
		return domain.ProjectResult{}, fmt.Errorf("write requirements: %w", err)
	}

	installCommand := fmt.Sprintf("%s install -r %s", s.Settings.Command, requirementsPath)
	s.Logger.Info("installing requirements", map[string]interface{}{"command": installCommand})
	install := s.Executor.Execute(ctx, installCommand, s.execOptions(s.Settings.FallbackTimeoutSeconds))

	return domain.ProjectResult{
		Status:           domain.StatusSuccess,
		RequirementsPath: requirementsPath,
		InstallStdout:    install.Stdout,
		InstallStderr:    install.Stderr,
		Attempts:         1,
		Message: fmt.Sprintf(
			"Required libraries were detected and installed.\n\nInstalled packages:\n%s",
			strings.Join(packages, "\n"),
		),
	}, nil
}

// installWithRetries installs the requirements file, retrying up to the
// configured attempt cap with a delay between attempts. It returns the
// last command result and the number of attempts made.
func (s *Service) installWithRetries(ctx context.Context, requirementsPath string) (domain.CommandResult, int) {
	installCommand := fmt.Sprintf("%s install -r %s", s.Settings.Command, requirementsPath)
	maxAttempts := s.Settings.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result domain.CommandResult
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		s.Logger.Info("installing requirements", map[string]interface{}{
			"command": installCommand,
			"attempt": attempt,
		})
		result = s.Executor.Execute(ctx, installCommand, s.execOptions(s.Settings.InstallTimeoutSeconds))
		if result.Status == domain.StatusSuccess {
			break
		}
		if attempt < maxAttempts {
			s.Logger.Warn("install attempt failed", map[string]interface{}{
				"attempt":       attempt,
				"delay_seconds": s.Settings.RetryDelaySeconds,
				"stderr":        result.Stderr,
			})
			s.sleep(time.Duration(s.Settings.RetryDelaySeconds) * time.Second)
		}
	}
	return result, attempts
}

// installOneByOne installs each package individually after the combined
// install has exhausted its retries. Individual failures are logged and
// skipped so one broken package does not block the rest.
func (s *Service) installOneByOne(ctx context.Context, packages []string) {
	s.Logger.Info("falling back to per-package installs", map[string]interface{}{
		"packages": len(packages),
	})
	for _, pkg := range packages {
		result := s.Executor.Execute(ctx,
			fmt.Sprintf("%s install %s", s.Settings.Command, pkg),
			s.execOptions(s.Settings.FallbackTimeoutSeconds),
		)
		if result.Status != domain.StatusSuccess {
			s.Logger.Warn("package install failed", map[string]interface{}{
				"package": pkg,
				"stderr":  result.Stderr,
			})
		}
	}
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	response, err := s.Chat.Complete(ctx, ports.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

func (s *Service) execOptions(seconds int) domain.ExecOptions {
	return domain.ExecOptions{
		WorkDir: s.WorkDir,
		Timeout: time.Duration(seconds) * time.Second,
	}
}

func (s *Service) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (s *Service) checkDependencies() error {
	if s.Chat == nil || s.Executor == nil || s.Writer == nil || s.Logger == nil {
		return errors.New("project.Service dependencies not satisfied")
	}
	return nil
}

// blockOrWhole returns the first fenced block body, or the whole trimmed
// reply when the model answered without a fence.
func blockOrWhole(text string) string {
	if block, ok := code.FirstBlock(text); ok {
		return block.Body
	}
	return strings.TrimSpace(text)
}

// renames maps names the model tends to emit to the PyPI names pip needs.
var renames = map[string]string{
	"sklearn": "scikit-learn",
}

// sanitizeRequirements turns a model reply into a clean package list:
// command phrasing is dropped, version pins are stripped, known aliases
// are renamed and duplicates are removed while preserving order.
func sanitizeRequirements(raw string) []string {
	seen := make(map[string]struct{})
	var packages []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "pip install") || strings.Contains(lower, "!pip") || strings.Contains(lower, "install") {
			continue
		}
		pkg := line
		for _, sep := range []string{"==", ">=", "<="} {
			pkg = strings.TrimSpace(strings.SplitN(pkg, sep, 2)[0])
		}
		if renamed, ok := renames[pkg]; ok {
			pkg = renamed
		}
		if pkg == "" {
			continue
		}
		if _, dup := seen[pkg]; dup {
			continue
		}
		seen[pkg] = struct{}{}
		packages = append(packages, pkg)
	}
	return packages
}
