package provision

import (
	"fmt"
	"strings"
)

// Rule is one (port, protocol) pair that must be allowed.
type Rule struct {
	Port  int
	Proto string
}

func (r Rule) String() string {
	return fmt.Sprintf("%d/%s", r.Port, r.Proto)
}

// SSHRule is the administrative access rule. It must be allowed before the
// firewall is enabled: enabling a default-deny firewall without it locks the
// operator out of the host.
var SSHRule = Rule{Port: 22, Proto: "tcp"}

// StackRules is the allow-list for the stack: HTTP/HTTPS for the reverse
// proxy and the media server's direct port for clients that bypass it.
var StackRules = []Rule{
	{Port: 80, Proto: "tcp"},
	{Port: 443, Proto: "tcp"},
	{Port: 8096, Proto: "tcp"},
}

// Firewall is the narrow capability over the host firewall tool.
type Firewall interface {
	Active() (bool, error)
	Rules() ([]Rule, error)
	Allow(r Rule) error
	Enable() error
}

// FirewallReport summarizes what EnsureRules changed.
type FirewallReport struct {
	Added   []Rule
	Enabled bool
}

// EnsureRules converges the firewall on the desired allow-list. Current
// state is read once; only absent rules are added and the firewall is
// enabled only when inactive. The SSH rule is always ensured first so a
// fresh enable cannot cut off the session driving the run.
func EnsureRules(fw Firewall, rules []Rule) (FirewallReport, error) {
	var report FirewallReport

	current, err := fw.Rules()
	if err != nil {
		return report, &FirewallError{Op: "query rules", Err: err}
	}
	present := map[Rule]bool{}
	for _, r := range current {
		present[r] = true
	}

	want := append([]Rule{SSHRule}, rules...)
	for _, r := range want {
		if present[r] {
			continue
		}
		if err := fw.Allow(r); err != nil {
			return report, &FirewallError{Op: "allow " + r.String(), Err: err}
		}
		present[r] = true
		report.Added = append(report.Added, r)
	}

	active, err := fw.Active()
	if err != nil {
		return report, &FirewallError{Op: "query status", Err: err}
	}
	if !active {
		if err := fw.Enable(); err != nil {
			return report, &FirewallError{Op: "enable", Err: err}
		}
		report.Enabled = true
	}
	return report, nil
}

// ufwFirewall drives the ufw command line.
type ufwFirewall struct {
	run Runner
}

// NewFirewall returns the ufw-backed Firewall.
func NewFirewall(run Runner) Firewall {
	return ufwFirewall{run: run}
}

func (f ufwFirewall) Active() (bool, error) {
	out, err := f.run.Capture("ufw", "status")
	if err != nil {
		return false, err
	}
	return strings.Contains(out, "Status: active"), nil
}

// Rules parses `ufw status` output lines of the form
// "80/tcp  ALLOW  Anywhere" into the subset of rules this tool manages.
func (f ufwFirewall) Rules() ([]Rule, error) {
	out, err := f.run.Capture("ufw", "status")
	if err != nil {
		return nil, err
	}
	var rules []Rule
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.Contains(fields[1], "ALLOW") {
			continue
		}
		var port int
		var proto string
		if n, _ := fmt.Sscanf(fields[0], "%d/%s", &port, &proto); n != 2 {
			continue
		}
		rules = append(rules, Rule{Port: port, Proto: proto})
	}
	return rules, nil
}

func (f ufwFirewall) Allow(r Rule) error {
	_, err := f.run.Capture("ufw", "allow", r.String())
	return err
}

func (f ufwFirewall) Enable() error {
	// --force skips the interactive "may disrupt connections" prompt.
	_, err := f.run.Capture("ufw", "--force", "enable")
	return err
}
