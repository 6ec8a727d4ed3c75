// Package deps checks that the external binaries muxkit shells out to can
// actually be invoked. Binaries are collaborators here, never downloads.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names one external binary and the command used to invoke it.
// Optional requirements do not fail preflight when missing.
type Requirement struct {
	Name     string
	Command  string
	Optional bool
}

// Status is the resolved availability of one requirement. Detail is empty
// when the binary was found.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// CheckBinaries resolves each requirement's command against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	statuses := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
		} else if _, err := exec.LookPath(req.Command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		} else {
			status.Available = true
		}
		statuses = append(statuses, status)
	}
	return statuses
}
