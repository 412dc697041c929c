package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external executable the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the result of resolving one Requirement. Path is set only when
// Available is true; Detail explains why it is not.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool

	Available bool
	Path      string
	Detail    string
}

// CheckBinaries resolves each requirement on PATH, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	st := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if st.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(st.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", st.Command)
		return st
	}
	st.Path, st.Available = path, true
	return st
}

// MissingRequired filters statuses down to unavailable, non-optional ones.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, st := range statuses {
		if !st.Available && !st.Optional {
			missing = append(missing, st)
		}
	}
	return missing
}
