package tools

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// LookPathFunc resolves a binary name to a path.
type LookPathFunc func(name string) (string, error)

// ExternalTool represents a dependency on an external system tool.
type ExternalTool struct {
	Name     string
	Required bool
	Note     string // why it's needed
}

// ToolStatus holds the result of a dependency check.
type ToolStatus struct {
	Name      string
	Available bool
	Path      string
	Version   string
	Required  bool
	Note      string
}

var versionRe = regexp.MustCompile(`(\d+\.\d+[\.\d]*)`)

// DependencyChecker manages the link management tools.
type DependencyChecker struct {
	tools    []ExternalTool
	lookPath LookPathFunc
	runner   Runner
	paths    map[string]string
}

func NewDependencyChecker(runner Runner) *DependencyChecker {
	return NewDependencyCheckerWith(runner, exec.LookPath)
}

// NewDependencyCheckerWith uses lookPath instead of the PATH search.
func NewDependencyCheckerWith(runner Runner, lookPath LookPathFunc) *DependencyChecker {
	return &DependencyChecker{
		tools:    platformTools(),
		lookPath: lookPath,
		runner:   runner,
		paths:    make(map[string]string),
	}
}

// InstallHint returns a platform-appropriate install message.
func InstallHint() string {
	return platformInstallHint()
}

// IsAvailable checks if a tool is on PATH. Results are cached.
func (dc *DependencyChecker) IsAvailable(name string) bool {
	return dc.path(name) != ""
}

func (dc *DependencyChecker) path(name string) string {
	if p, ok := dc.paths[name]; ok {
		return p
	}
	p, err := dc.lookPath(name)
	if err != nil {
		p = ""
	}
	dc.paths[name] = p
	return p
}

// CheckAll verifies all dependencies, probing versions of installed ones.
func (dc *DependencyChecker) CheckAll(ctx context.Context) []ToolStatus {
	results := make([]ToolStatus, len(dc.tools))
	for i, t := range dc.tools {
		s := ToolStatus{Name: t.Name, Required: t.Required, Note: t.Note}
		if p := dc.path(t.Name); p != "" {
			s.Available = true
			s.Path = p
			s.Version = dc.version(ctx, t.Name)
		}
		results[i] = s
	}
	return results
}

// MissingRequired returns required tools that are not installed.
func (dc *DependencyChecker) MissingRequired() []string {
	var missing []string
	for _, t := range dc.tools {
		if t.Required && !dc.IsAvailable(t.Name) {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

func (dc *DependencyChecker) version(ctx context.Context, name string) string {
	for _, flag := range []string{"-V", "--version", "version"} {
		res, err := dc.runner.Run(ctx, name, flag)
		if err == nil && res.Output != "" {
			if match := versionRe.FindString(res.Output); match != "" {
				return match
			}
		}
	}
	return ""
}

// FormatStatus returns a formatted dependency report.
func FormatStatus(statuses []ToolStatus) string {
	var sb strings.Builder
	for _, s := range statuses {
		if s.Available {
			ver := s.Version
			if ver == "" {
				ver = "ok"
			}
			fmt.Fprintf(&sb, " [+] %-12s %-10s %s\n", s.Name, ver, s.Path)
		} else {
			label := "(optional)"
			if s.Required {
				label = "(REQUIRED)"
			}
			note := ""
			if s.Note != "" {
				note = " -- " + s.Note
			}
			fmt.Fprintf(&sb, " [-] %-12s %-10s %s%s\n", s.Name, "--", label, note)
		}
	}
	return sb.String()
}
