// Package doctor diagnoses the local environment: configuration,
// credentials, tooling on PATH, and the directories the assistant
// writes to.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"codehelper/internal/domain"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Safety         ports.SafetyFilter
}

// Run executes checks and returns a report. The report is always usable
// even when a check fails; only a config load failure is returned as an
// error because nothing else can be checked without it.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded (format %s)", cfg.ConfigFormatVersion)))

	checks = append(checks, modelCheck(cfg))
	checks = append(checks, credentialCheck(cfg))
	checks = append(checks, safetyCheck(s.Safety, cfg.Safety.Enabled))
	checks = append(checks, writableCheck("Data directory", filesystem.AbsPath(cfg.Workspace.DataDir)))
	checks = append(checks, lookPathCheck("Installer", cfg.Installer.Command))
	checks = append(checks, lookPathCheck("Runner", cfg.Installer.Runner))
	checks = append(checks, writableCheck("History directory", filepath.Join(filesystem.AppDir(), "history")))

	return domain.HealthReport{Checks: checks}, nil
}

// modelCheck reports whether the default model is declared in the table.
// Unknown names still work through the fallback definition, so this is a
// warning rather than a failure.
func modelCheck(cfg domain.Config) domain.HealthCheck {
	name := cfg.Preferences.DefaultModel
	model, err := cfg.ResolveModel(name)
	if err != nil {
		return fail("Default model", err.Error())
	}
	for _, declared := range cfg.Models {
		if declared.Name == name {
			return ok("Default model", fmt.Sprintf("%s (%s %s)", model.Name, model.Provider, model.ModelID))
		}
	}
	return warn("Default model", fmt.Sprintf("%s not in model table; falling back to the %s definition", name, domain.FallbackModelName))
}

// credentialCheck verifies the API key environment variable for the
// default model. Local providers need no key.
func credentialCheck(cfg domain.Config) domain.HealthCheck {
	model, err := cfg.ResolveModel("")
	if err != nil {
		return warn("API key", err.Error())
	}
	switch strings.ToLower(model.Provider) {
	case "ollama":
		return ok("API key", "not required for ollama")
	case "anthropic":
		if envMissing(model.AuthEnvVar, "ANTHROPIC_API_KEY") {
			return warn("API key", "ANTHROPIC_API_KEY not set")
		}
	default:
		if envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
			return warn("API key", "OPENAI_API_KEY not set")
		}
	}
	return ok("API key", "detected for the default model")
}

// safetyCheck probes the filter with a harmless command. A deny list that
// blocks plain ls means the rules file is broken.
func safetyCheck(filter ports.SafetyFilter, enabled bool) domain.HealthCheck {
	if filter == nil {
		return warn("Safety filter", "not initialized")
	}
	if !enabled {
		return warn("Safety filter", "disabled in config; terminal commands run unchecked")
	}
	if !filter.IsSafe("ls") {
		return fail("Safety filter", "deny list blocks plain 'ls'; check the rules file")
	}
	return ok("Safety filter", "rules loaded")
}

func writableCheck(name, dir string) domain.HealthCheck {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail(name, fmt.Sprintf("cannot create %s: %v", dir, err))
	}
	probe := filepath.Join(dir, ".doctor_probe")
	if err := os.WriteFile(probe, []byte("ok"), domain.ArtifactFilePermissions); err != nil {
		return fail(name, fmt.Sprintf("cannot write in %s: %v", dir, err))
	}
	_ = os.Remove(probe)
	return ok(name, dir)
}

func lookPathCheck(name, command string) domain.HealthCheck {
	if command == "" {
		return warn(name, "not configured")
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return warn(name, fmt.Sprintf("%s not found on PATH", command))
	}
	return ok(name, path)
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
