package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency soundrip relies on.
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
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckFFmpeg verifies the configured ffmpeg binary is present and runnable.
// Presence is checked via PATH lookup; runnability by executing the binary
// with -version, which exits zero on any working build.
func CheckFFmpeg(binary string) Status {
	status := Status{
		Name:        "FFmpeg",
		Command:     strings.TrimSpace(binary),
		Description: "Extracts audio tracks from received videos",
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}

	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved

	if err := probeVersion(resolved); err != nil {
		status.Detail = fmt.Sprintf("%s -version failed: %v", resolved, err)
		return status
	}

	status.Available = true
	return status
}

// probeVersion is a variable so tests can stub the subprocess execution.
var probeVersion = func(binary string) error {
	return exec.Command(binary, "-version").Run()
}
