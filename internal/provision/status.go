package provision

import (
	"fmt"
	"sort"
	"strings"
)

// RunStatus prints the declared-versus-running view of the stack in the
// working directory.
func RunStatus(run Runner) error {
	declared, err := DeclaredServices(ManifestName)
	if err != nil {
		return err
	}
	sort.Strings(declared)

	orch := NewOrchestrator(run)
	statuses, err := orch.Services(ManifestName)
	if err != nil {
		return err
	}

	states := map[string]string{}
	for _, s := range statuses {
		states[s.Name] = s.State
	}

	fmt.Printf("manifest: %s\n", ManifestName)
	fmt.Printf("declared services: %s\n", strings.Join(declared, ", "))
	for _, name := range declared {
		state := states[name]
		if state == "" {
			state = "not created"
		}
		fmt.Printf("  %-12s %s\n", name, state)
	}
	return nil
}
