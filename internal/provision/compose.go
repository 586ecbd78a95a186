package provision

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the compose manifest expected in the working directory.
// The file is externally authored; this tool never edits it and delegates
// semantic validation to the compose tool itself.
const ManifestName = "docker-compose.yml"

// GracePeriod is the fixed wait between bring-up and the single status
// read. It is not a readiness poll; services may still be starting.
const GracePeriod = 15 * time.Second

// ServiceStatus is one row of the post-launch report.
type ServiceStatus struct {
	Name  string
	State string
}

// Orchestrator is the narrow capability over the external compose tool.
type Orchestrator interface {
	Validate(manifest string) error
	Up(manifest string) error
	Services(manifest string) ([]ServiceStatus, error)
}

// dockerCompose drives the docker compose plugin.
type dockerCompose struct {
	run Runner
}

// NewOrchestrator returns the docker-compose-backed Orchestrator.
func NewOrchestrator(run Runner) Orchestrator {
	return dockerCompose{run: run}
}

func composeBaseArgs(manifest string) []string {
	return []string{
		"compose",
		"-f", manifest,
		"--env-file", EnvFileName,
	}
}

func (c dockerCompose) Validate(manifest string) error {
	args := append(composeBaseArgs(manifest), "config", "-q")
	if out, err := c.run.Capture("docker", args...); err != nil {
		if out != "" {
			return &OrchestrationError{Op: "validate manifest", Err: fmt.Errorf("%s", out)}
		}
		return &OrchestrationError{Op: "validate manifest", Err: err}
	}
	return nil
}

func (c dockerCompose) Up(manifest string) error {
	args := append(composeBaseArgs(manifest), "up", "-d", "--remove-orphans")
	if err := c.run.Stream("docker", args...); err != nil {
		return &OrchestrationError{Op: "up", Err: err}
	}
	return nil
}

func (c dockerCompose) Services(manifest string) ([]ServiceStatus, error) {
	args := append(composeBaseArgs(manifest), "ps", "--all", "--format", "{{.Service}}\t{{.State}}")
	out, err := c.run.Capture("docker", args...)
	if err != nil {
		return nil, &OrchestrationError{Op: "status", Err: err}
	}

	var list []ServiceStatus
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 2)
		if len(parts) != 2 {
			continue
		}
		list = append(list, ServiceStatus{Name: parts[0], State: parts[1]})
	}
	return list, nil
}

// DeclaredServices reads the top-level service names out of the manifest so
// the summary can name declared services that never produced a container.
// Anything deeper than the service keys is left to the compose tool.
func DeclaredServices(manifest string) ([]string, error) {
	b, err := os.ReadFile(manifest)
	if err != nil {
		return nil, &OrchestrationError{Op: "read manifest", Err: err}
	}
	var doc struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &OrchestrationError{Op: "parse manifest", Err: err}
	}
	names := make([]string, 0, len(doc.Services))
	for name := range doc.Services {
		names = append(names, name)
	}
	return names, nil
}
