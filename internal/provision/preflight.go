package provision

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// HostInfo captures the host facts preflight judges. CollectHostInfo fills
// it from the live system; tests build it by hand.
type HostInfo struct {
	Euid        int
	SudoUser    string
	HasAptGet   bool
	HasManifest bool
}

// CollectHostInfo inspects the running host.
func CollectHostInfo(manifestPath string) HostInfo {
	info := HostInfo{
		Euid:     os.Geteuid(),
		SudoUser: os.Getenv("SUDO_USER"),
	}
	if _, err := exec.LookPath("apt-get"); err == nil {
		info.HasAptGet = true
	}
	if _, err := os.Stat(manifestPath); err == nil {
		info.HasManifest = true
	}
	return info
}

// Preflight verifies the environmental prerequisites before any mutation.
// Each condition gets its own message; operators fix one concrete thing at
// a time.
func Preflight(info HostInfo, manifestPath string) error {
	if info.Euid != 0 {
		return &PreflightError{
			Check: "privilege",
			Err:   errors.New("must run as root (use sudo): package, ownership and firewall changes need it"),
		}
	}
	if info.SudoUser == "" || info.SudoUser == "root" {
		return &PreflightError{
			Check: "user resolution",
			Err:   errors.New("cannot resolve the unprivileged user; invoke through sudo from a normal account"),
		}
	}
	if !info.HasAptGet {
		return &PreflightError{
			Check: "package manager",
			Err:   errors.New("apt-get not found in PATH; this tool supports Debian/Ubuntu hosts only"),
		}
	}
	if !info.HasManifest {
		return &PreflightError{
			Check: "manifest",
			Err:   fmt.Errorf("%s not found in the working directory", manifestPath),
		}
	}
	return nil
}
