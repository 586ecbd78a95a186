package provision

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. The package/firewall/orchestration
// implementations all go through it so tests can substitute a fake without
// touching real host state.
type Runner interface {
	// Capture runs the command and returns its combined output.
	Capture(name string, args ...string) (string, error)
	// Stream runs the command with stdout/stderr attached to the process.
	Stream(name string, args ...string) error
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner { return execRunner{} }

func (execRunner) Capture(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		if text != "" {
			return text, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, text)
		}
		return text, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return text, nil
}

func (execRunner) Stream(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
