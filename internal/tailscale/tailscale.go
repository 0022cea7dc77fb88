// Package tailscale does best-effort discovery of the local node's
// Tailscale DNS name by shelling out to the tailscale CLI, the same way the
// Startup Orchestrator discovers a shareable hostname without linking
// tsnet.
package tailscale

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

type statusSelf struct {
	Self struct {
		DNSName string `json:"DNSName"`
	} `json:"Self"`
}

// ParseDNSName extracts and trims Self.DNSName from the JSON output of
// `tailscale status --json`. Returns an error describing why no usable
// name was found; callers treat every error as "not available".
func ParseDNSName(output []byte) (string, error) {
	var status statusSelf
	if err := json.Unmarshal(output, &status); err != nil {
		return "", fmt.Errorf("json-parse: %w", err)
	}
	trimmed := strings.TrimRight(status.Self.DNSName, ".")
	if trimmed == "" {
		return "", fmt.Errorf("empty-DNSName")
	}
	return trimmed, nil
}

// DiscoverDNSName runs `tailscale status --json` and returns the node's DNS
// name, or "" when Tailscale isn't installed, isn't running, or reports no
// name. Every failure is swallowed; verbose logs the reason at debug level.
func DiscoverDNSName(verbose bool) string {
	output, err := exec.Command("tailscale", "status", "--json").Output()
	if err != nil {
		if verbose {
			slog.Debug("tailscale: skipped", "reason", "subprocess-error", "err", err)
		}
		return ""
	}
	name, err := ParseDNSName(output)
	if err != nil {
		if verbose {
			slog.Debug("tailscale: skipped", "reason", err.Error())
		}
		return ""
	}
	return name
}
