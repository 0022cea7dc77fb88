// Package config resolves the server's runtime Options from command-line
// flags with environment-variable fallbacks, following the same
// flag > env > default precedence the wider tool family uses for its TOML
// configs, reduced here to flags+env since mdmd has no config file.
package config

import (
	"flag"
	"os"
	"strconv"
)

// Options holds every knob the Startup Orchestrator needs.
type Options struct {
	EntryPath string
	BindAddr  string
	StartPort int
	NoOpen    bool
	Verbose   bool
}

// Parse builds Options from args (typically os.Args[1:]), applying
// MDMD_BIND/MDMD_PORT environment overrides to the flag defaults before
// parsing so an explicit flag always wins.
func Parse(args []string) (Options, error) {
	fs := flag.NewFlagSet("mdmd", flag.ContinueOnError)

	bindDefault := "127.0.0.1"
	strDefault(&bindDefault, "MDMD_BIND")
	portDefault := 3333
	intDefault(&portDefault, "MDMD_PORT")

	bind := fs.String("bind", bindDefault, "address to bind")
	port := fs.Int("port", portDefault, "starting port; increments on address-in-use")
	noOpen := fs.Bool("no-open", false, "do not open a browser on startup")
	verbose := fs.Bool("verbose", false, "enable diagnostic logging")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	entry := "."
	if rest := fs.Args(); len(rest) > 0 {
		entry = rest[0]
	}

	return Options{
		EntryPath: entry,
		BindAddr:  *bind,
		StartPort: *port,
		NoOpen:    *noOpen,
		Verbose:   *verbose,
	}, nil
}

func strDefault(dst *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*dst = v
	}
}

func intDefault(dst *int, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
