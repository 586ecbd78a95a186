package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Hassan-ach/homelab/internal/provision"
	"github.com/Hassan-ach/homelab/internal/tui"
)

func main() {
	var err error
	if len(os.Args) < 2 {
		err = runProvision()
	} else {
		switch cmd := os.Args[1]; cmd {
		case "status":
			err = provision.RunStatus(provision.NewRunner())
		case "doctor":
			err = provision.RunDoctor(provision.NewRunner())
		case "help", "--help", "-h":
			usage()
		default:
			err = fmt.Errorf("unknown command: %s", cmd)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runProvision executes one full provisioning run against the .env file and
// compose manifest in the working directory. With a terminal attached it
// renders the interactive progress view, otherwise plain line output.
func runProvision() error {
	driver := provision.NewDriver(provision.NewRunner())

	if isatty.IsTerminal(os.Stdout.Fd()) {
		return tui.RunProvision(driver)
	}

	driver.Notify = func(r provision.Result) {
		provision.PrintResult(os.Stdout, r)
	}
	err := driver.Run()
	provision.PrintSummary(os.Stdout, driver)
	return err
}

func usage() {
	fmt.Println(`homelab - provision a single-host Docker Compose stack

Usage:
  sudo homelab           # full provisioning run (.env + docker-compose.yml in cwd)
  homelab status         # declared vs running services
  homelab doctor         # host diagnostics, read-only
  homelab help

Stack services:`)

	for _, name := range provision.SortedServiceNames() {
		s := provision.ServiceCatalog[name]
		ports := strings.Join(s.Ports, ",")
		if ports == "" {
			ports = "-"
		}
		fmt.Printf("  - %-10s %-50s ports: %s\n", s.Name, s.Description, ports)
	}
}
