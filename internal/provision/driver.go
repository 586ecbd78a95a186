// Package provision turns a desired-state description (.env file plus an
// externally authored compose manifest) into a running host configuration.
// Every stage is idempotent: re-running against unchanged host state
// produces no additional side effects and no error. One run at a time;
// there is no locking against concurrent invocations.
package provision

import (
	"fmt"
	"time"
)

// State names the progress of one provisioning run.
type State string

const (
	StateInit            State = "Init"
	StateConfigLoaded    State = "ConfigLoaded"
	StatePreflightOk     State = "PreflightOk"
	StatePackagesReady   State = "PackagesReady"
	StateFilesystemReady State = "FilesystemReady"
	StateFirewallReady   State = "FirewallReady"
	StateStackUp         State = "StackUp"
	StateDone            State = "Done"
	StateFailed          State = "Failed"
)

// Status is the outcome of one stage.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the per-stage outcome record kept for the final report.
type Result struct {
	Stage  string
	Status Status
	Detail string
}

// StageNames lists the stages in execution order, for progress display.
var StageNames = []string{
	"load configuration",
	"preflight checks",
	"runtime packages",
	"directory tree",
	"firewall rules",
	"stack bring-up",
}

// Driver sequences one provisioning run: load, preflight, packages,
// filesystem, firewall, stack. It proceeds only on success, halts on the
// first failure, and never rolls back completed stages. A Driver serves a
// single run; two runs against the same base directory must not overlap
// (there is no file locking).
type Driver struct {
	EnvPath      string
	ManifestPath string

	Installer *Installer
	Firewall  Firewall
	Orch      Orchestrator

	// Host gathers host facts for preflight. Overridable for tests.
	Host func(manifestPath string) HostInfo
	// Sleep implements the post-launch grace period. Overridable for tests.
	Sleep func(d time.Duration)
	// Notify, when set, receives each stage result as it is produced.
	Notify func(r Result)

	state    State
	results  []Result
	cfg      Config
	host     HostInfo
	services []ServiceStatus
}

// NewDriver wires a driver against the real host tools.
func NewDriver(run Runner) *Driver {
	return &Driver{
		EnvPath:      EnvFileName,
		ManifestPath: ManifestName,
		Installer:    NewInstaller(run),
		Firewall:     NewFirewall(run),
		Orch:         NewOrchestrator(run),
		Host:         CollectHostInfo,
		Sleep:        time.Sleep,
		state:        StateInit,
	}
}

// State returns the driver's current state.
func (d *Driver) State() State { return d.state }

// Results returns the accumulated stage records.
func (d *Driver) Results() []Result { return d.results }

// Config returns the loaded configuration; valid once the run passed
// ConfigLoaded.
func (d *Driver) Config() Config { return d.cfg }

// Services returns the post-launch status list; valid in StateDone.
func (d *Driver) Services() []ServiceStatus { return d.services }

func (d *Driver) record(stage string, status Status, detail string) {
	r := Result{Stage: stage, Status: status, Detail: detail}
	d.results = append(d.results, r)
	if d.Notify != nil {
		d.Notify(r)
	}
}

func (d *Driver) fail(stage string, err error) error {
	d.record(stage, StatusFailed, err.Error())
	d.state = StateFailed
	return err
}

// Run executes the whole workflow. It returns the first error encountered;
// the per-stage records remain available either way.
func (d *Driver) Run() error {
	stage := StageNames[0]
	cfg, err := LoadConfig(d.EnvPath)
	if err != nil {
		return d.fail(stage, err)
	}
	d.cfg = cfg
	d.state = StateConfigLoaded
	d.record(stage, StatusSuccess, fmt.Sprintf("%d variables", len(cfg.Vars)))

	stage = StageNames[1]
	d.host = d.Host(d.ManifestPath)
	if err := Preflight(d.host, d.ManifestPath); err != nil {
		return d.fail(stage, err)
	}
	d.state = StatePreflightOk
	d.record(stage, StatusSuccess, "running as root, apt-get and manifest present")

	stage = StageNames[2]
	report, err := d.Installer.EnsureInstalled(d.host.SudoUser)
	if err != nil {
		return d.fail(stage, err)
	}
	d.state = StatePackagesReady
	switch {
	case report.RuntimePresent && !report.GroupAdded && !report.ServiceEnabled:
		d.record(stage, StatusSkipped, "runtime already installed and enabled")
	case report.RuntimePresent:
		d.record(stage, StatusSuccess, "runtime present, membership/service reconciled")
	default:
		d.record(stage, StatusSuccess, fmt.Sprintf("installed %d packages", len(report.Installed)))
	}

	stage = StageNames[3]
	if err := EnsureDirs(cfg.BaseDir, StackDirs, cfg.UID, cfg.GID); err != nil {
		return d.fail(stage, err)
	}
	d.state = StateFilesystemReady
	d.record(stage, StatusSuccess, fmt.Sprintf("%d directories under %s", len(StackDirs), cfg.BaseDir))

	stage = StageNames[4]
	fwReport, err := EnsureRules(d.Firewall, StackRules)
	if err != nil {
		return d.fail(stage, err)
	}
	d.state = StateFirewallReady
	if len(fwReport.Added) == 0 && !fwReport.Enabled {
		d.record(stage, StatusSkipped, "all rules present, firewall active")
	} else {
		d.record(stage, StatusSuccess, fmt.Sprintf("added %d rules", len(fwReport.Added)))
	}

	stage = StageNames[5]
	if err := d.Orch.Validate(d.ManifestPath); err != nil {
		return d.fail(stage, err)
	}
	if err := d.Orch.Up(d.ManifestPath); err != nil {
		return d.fail(stage, err)
	}
	d.state = StateStackUp
	d.Sleep(GracePeriod)
	services, err := d.Orch.Services(d.ManifestPath)
	if err != nil {
		return d.fail(stage, err)
	}
	d.services = services
	d.record(stage, StatusSuccess, fmt.Sprintf("%d services reported", len(services)))

	d.state = StateDone
	return nil
}
