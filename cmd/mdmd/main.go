package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"mdmd/internal/config"
	"mdmd/internal/startup"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Println(version)
			return
		case "serve":
			run(os.Args[2:])
			return
		}
	}
	run(os.Args[1:])
}

func run(args []string) {
	opts, err := config.Parse(args)
	if err != nil {
		log.Fatalf("parsing flags: %v", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := startup.Run(opts); err != nil {
		log.Fatalf("mdmd: %v", err)
	}
}
