package startup

import "runtime"

// envSnapshot is the subset of environment variables the headed-detection
// predicate consults, captured once so the predicate itself stays pure and
// testable.
type envSnapshot struct {
	SSHConnection  string
	SSHTTY         string
	Display        string
	WaylandDisplay string
	CI             string
	GitHubActions  string
}

// isHeaded reports whether the environment looks like an interactive
// desktop session worth auto-opening a browser in.
func isHeaded(goos string, env envSnapshot) bool {
	switch goos {
	case "darwin":
		return env.SSHConnection == "" && env.SSHTTY == ""
	case "linux":
		hasDisplay := env.Display != "" || env.WaylandDisplay != ""
		remoteOrCI := env.SSHConnection != "" || env.SSHTTY != "" || env.CI != "" || env.GitHubActions != ""
		return hasDisplay && !remoteOrCI
	default:
		return false
	}
}

// currentGOOS lets tests override runtime.GOOS without a build tag per case.
var currentGOOS = runtime.GOOS
