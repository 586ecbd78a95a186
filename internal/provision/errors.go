package provision

import (
	"fmt"
	"strings"
)

// ConfigError reports problems with the environment file. Missing collects
// every absent or empty required key so the operator can fix the file in one
// pass instead of replaying the run key by key.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config: missing or empty required keys: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PreflightError reports an environmental prerequisite that is not met.
// These are never transient; the operator has to fix the host.
type PreflightError struct {
	Check string
	Err   error
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight: %s: %v", e.Check, e.Err)
}

func (e *PreflightError) Unwrap() error { return e.Err }

// InstallError reports a package or runtime-service installation failure.
type InstallError struct {
	Step string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install: %s: %v", e.Step, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// FilesystemError reports a failed directory creation or ownership change.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem: %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// FirewallError reports a failed firewall query or mutation.
type FirewallError struct {
	Op  string
	Err error
}

func (e *FirewallError) Error() string {
	return fmt.Sprintf("firewall: %s: %v", e.Op, e.Err)
}

func (e *FirewallError) Unwrap() error { return e.Err }

// OrchestrationError reports a manifest validation or stack bring-up failure.
type OrchestrationError struct {
	Op  string
	Err error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("orchestration: %s: %v", e.Op, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
