// liuctl is the control CLI for liuimed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"liuime/internal/config"
	"liuime/internal/ipc"
)

var (
	configPath = flag.String("config", "", "path to config file")
	socketPath = flag.String("socket", "", "daemon socket (overrides config)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "status":
		cmdStatus()
	case "mode":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: liuctl mode <intercept|passthrough|toggle>")
			os.Exit(1)
		}
		cmdMode(flag.Arg(1))
	case "reload":
		cmdReload()
	case "stats":
		cmdStats()
	case "ping":
		cmdPing()
	case "shutdown":
		cmdShutdown()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `liuctl - Control utility for liuimed

Usage: liuctl [options] <command> [args]

Commands:
  status          Show daemon status
  mode <name>     Set the engine mode: intercept, passthrough, or toggle
  reload          Reload the dictionary from disk
  stats           Show commit-journal statistics
  ping            Check the daemon is alive
  shutdown        Ask the daemon to exit
  help            Show this help message

Options:
  -config <path>  Path to config file (default: ~/.config/liuime/config.toml)
  -socket <path>  Daemon socket path (overrides config)`)
}

// dial resolves the socket path from the flags or the config file and
// connects to the daemon.
func dial() *ipc.Client {
	path := *socketPath
	if path == "" {
		cfgPath := *configPath
		if cfgPath == "" {
			cfgPath = config.ConfigPath()
		}
		cfg, err := config.NewLoader(cfgPath).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		path = cfg.IPC.SocketPath
	}

	client, err := ipc.Dial(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot reach daemon: %v\n", err)
		fmt.Fprintln(os.Stderr, "Is liuimed running?")
		os.Exit(1)
	}
	return client
}

func cmdStatus() {
	client := dial()
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Version:     %s\n", status.Version)
	fmt.Printf("Mode:        %s\n", status.Mode)
	fmt.Printf("Uptime:      %s\n", (time.Duration(status.UptimeSec) * time.Second).String())
	fmt.Printf("Dictionary:  %s (%d entries)\n", status.DictPath, status.DictEntries)
	if status.DictChecksum != "" {
		fmt.Printf("Checksum:    %s\n", status.DictChecksum)
	}
	fmt.Printf("Buffer:      %d chars composed\n", status.BufferLen)
	if status.StatsEnabled {
		fmt.Printf("Stats:       enabled\n")
	} else {
		fmt.Printf("Stats:       disabled\n")
	}
}

func cmdMode(name string) {
	client := dial()
	defer client.Close()

	resp, err := client.SetMode(name)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Mode: %s\n", resp.Mode)
}

func cmdReload() {
	client := dial()
	defer client.Close()

	resp, err := client.ReloadDict()
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Dictionary reloaded: %d entries (checksum %s)\n", resp.Entries, resp.Checksum)
}

func cmdStats() {
	client := dial()
	defer client.Close()

	stats, err := client.Stats()
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Total commits:   %d\n", stats.TotalCommits)
	fmt.Printf("Distinct codes:  %d\n", stats.DistinctCodes)
	fmt.Printf("Total chars:     %d\n", stats.TotalChars)
	if len(stats.TopCodes) > 0 {
		fmt.Println("Top codes:")
		for _, c := range stats.TopCodes {
			fmt.Printf("  %-8s %d\n", c.Code, c.Count)
		}
	}
}

func cmdPing() {
	client := dial()
	defer client.Close()

	if err := client.Ping(); err != nil {
		fatal(err)
	}
	fmt.Println("Daemon is alive.")
}

func cmdShutdown() {
	client := dial()
	defer client.Close()

	if err := client.Shutdown(); err != nil {
		fatal(err)
	}
	fmt.Println("Shutdown requested.")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
