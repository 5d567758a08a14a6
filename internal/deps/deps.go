package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"lameta/internal/config"
)

// Requirement defines an external program lameta can call.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external programs referenced by cfg. Both are
// optional: large copies fall back to in-process copying without rsync and
// validation runs only the built-in checks without a collector binary.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "rsync",
			Command:     cfg.Copy.RsyncBinary,
			Description: "Copies large media files into export packages",
			Optional:    true,
		},
	}
	if strings.TrimSpace(cfg.Validator.Binary) != "" {
		reqs = append(reqs, Requirement{
			Name:        "Repository validator",
			Command:     cfg.Validator.Binary,
			Description: "Loads exported crates into an OCFL repository",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Available reports whether command resolves on PATH.
func Available(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}
