package provision

import (
	"os/exec"
	"strings"
)

// RuntimePackages are the OS packages that provide the container runtime
// and its compose plugin, plus the tools the rest of the workflow needs.
var RuntimePackages = []string{
	"ca-certificates",
	"curl",
	"ufw",
	"docker.io",
	"docker-compose-v2",
}

const (
	runtimeBinary  = "docker"
	runtimeService = "docker"
	runtimeGroup   = "docker"
)

// PackageManager is the narrow capability the installer needs from the host
// package tooling.
type PackageManager interface {
	Installed(pkg string) (bool, error)
	Install(pkgs []string) error
}

// SystemAdmin wraps the non-package host mutations: group membership and
// service enablement.
type SystemAdmin interface {
	UserInGroup(user, group string) (bool, error)
	AddUserToGroup(user, group string) error
	ServiceActive(unit string) (bool, error)
	EnableService(unit string) error
}

// InstallReport summarizes what EnsureInstalled actually did.
type InstallReport struct {
	RuntimePresent bool
	Installed      []string
	GroupAdded     bool
	ServiceEnabled bool
}

// Installer ensures the runtime stack is present and usable by the
// unprivileged operator.
type Installer struct {
	Pkgs     PackageManager
	Admin    SystemAdmin
	LookPath func(file string) (string, error)
}

// NewInstaller wires the apt/systemctl-backed installer.
func NewInstaller(run Runner) *Installer {
	return &Installer{
		Pkgs:     aptManager{run: run},
		Admin:    systemctlAdmin{run: run},
		LookPath: exec.LookPath,
	}
}

// EnsureInstalled brings the host to "runtime installed, enabled, and usable
// by user". When the runtime binary is already present the whole install
// sequence is skipped and only group membership and service state are
// reconciled.
func (in *Installer) EnsureInstalled(user string) (InstallReport, error) {
	var report InstallReport

	if _, err := in.LookPath(runtimeBinary); err == nil {
		report.RuntimePresent = true
	} else {
		for _, pkg := range RuntimePackages {
			present, err := in.Pkgs.Installed(pkg)
			if err != nil {
				return report, &InstallError{Step: "query " + pkg, Err: err}
			}
			if present {
				continue
			}
			report.Installed = append(report.Installed, pkg)
		}
		if len(report.Installed) > 0 {
			if err := in.Pkgs.Install(report.Installed); err != nil {
				return report, &InstallError{Step: "install packages", Err: err}
			}
		}
	}

	member, err := in.Admin.UserInGroup(user, runtimeGroup)
	if err != nil {
		return report, &InstallError{Step: "check group membership", Err: err}
	}
	if !member {
		if err := in.Admin.AddUserToGroup(user, runtimeGroup); err != nil {
			return report, &InstallError{Step: "add " + user + " to " + runtimeGroup, Err: err}
		}
		report.GroupAdded = true
	}

	active, err := in.Admin.ServiceActive(runtimeService)
	if err != nil {
		return report, &InstallError{Step: "check runtime service", Err: err}
	}
	if !active {
		if err := in.Admin.EnableService(runtimeService); err != nil {
			return report, &InstallError{Step: "enable runtime service", Err: err}
		}
		report.ServiceEnabled = true
	}

	return report, nil
}

// aptManager shells out to dpkg-query/apt-get.
type aptManager struct {
	run Runner
}

func (m aptManager) Installed(pkg string) (bool, error) {
	out, err := m.run.Capture("dpkg-query", "-W", "-f=${Status}", pkg)
	if err != nil {
		// dpkg-query exits non-zero for unknown packages.
		return false, nil
	}
	return strings.Contains(out, "install ok installed"), nil
}

func (m aptManager) Install(pkgs []string) error {
	args := append([]string{"install", "-y"}, pkgs...)
	return m.run.Stream("apt-get", args...)
}

// systemctlAdmin shells out to id/usermod/systemctl.
type systemctlAdmin struct {
	run Runner
}

func (a systemctlAdmin) UserInGroup(user, group string) (bool, error) {
	out, err := a.run.Capture("id", "-nG", user)
	if err != nil {
		return false, err
	}
	for _, g := range strings.Fields(out) {
		if g == group {
			return true, nil
		}
	}
	return false, nil
}

func (a systemctlAdmin) AddUserToGroup(user, group string) error {
	_, err := a.run.Capture("usermod", "-aG", group, user)
	return err
}

func (a systemctlAdmin) ServiceActive(unit string) (bool, error) {
	out, err := a.run.Capture("systemctl", "is-active", unit)
	if err != nil {
		// is-active exits non-zero when inactive; that is an answer,
		// not a failure.
		return false, nil
	}
	return strings.TrimSpace(out) == "active", nil
}

func (a systemctlAdmin) EnableService(unit string) error {
	_, err := a.run.Capture("systemctl", "enable", "--now", unit)
	return err
}
