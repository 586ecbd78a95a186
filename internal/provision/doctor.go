package provision

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

// RunDoctor prints non-mutating host diagnostics. Failures are warnings,
// not errors: doctor reports, provisioning enforces.
func RunDoctor(run Runner) error {
	fmt.Println("homelab doctor")
	fmt.Printf("runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	baseDir := ""
	if vars, err := ParseEnvFile(EnvFileName); err == nil {
		baseDir = vars["BASE_DIR"]
	}

	checks := []struct {
		name string
		fn   func() error
	}{
		{"docker binary", func() error {
			_, err := exec.LookPath("docker")
			return err
		}},
		{"docker compose", func() error {
			_, err := run.Capture("docker", "compose", "version")
			return err
		}},
		{"docker daemon", func() error {
			_, err := run.Capture("docker", "info")
			return err
		}},
		{"apt-get available", func() error {
			_, err := exec.LookPath("apt-get")
			return err
		}},
		{"ufw available", func() error {
			_, err := exec.LookPath("ufw")
			return err
		}},
		{"environment file", func() error {
			vars, err := ParseEnvFile(EnvFileName)
			if err != nil {
				return err
			}
			return Validate(vars, RequiredKeys)
		}},
		{"compose manifest", func() error {
			_, err := os.Stat(ManifestName)
			return err
		}},
		{"base dir writable", func() error {
			if baseDir == "" {
				return fmt.Errorf("BASE_DIR not set")
			}
			return writableCheck(baseDir)
		}},
		{"disk space >= 5GiB", func() error {
			path := baseDir
			if path == "" {
				path = "/"
			}
			return diskCheck(path, 5)
		}},
		{"ports 80/443 status", func() error {
			out, err := run.Capture("ss", "-ltn")
			if err != nil {
				return err
			}
			if strings.Contains(out, ":80 ") || strings.Contains(out, ":443 ") {
				return fmt.Errorf("ports 80/443 already in use")
			}
			return nil
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			fmt.Printf("[WARN] %s: %v\n", check.name, err)
		} else {
			fmt.Printf("[ OK ] %s\n", check.name)
		}
	}
	return nil
}

func writableCheck(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "homelab-write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

func diskCheck(path string, minGiB uint64) error {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return err
	}
	free := (stat.Bavail * uint64(stat.Bsize)) / (1024 * 1024 * 1024)
	if free < minGiB {
		return fmt.Errorf("free space %dGiB < %dGiB", free, minGiB)
	}
	return nil
}
