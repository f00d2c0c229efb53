// Command yomail-mcp runs the yomail extraction pipeline as a Model
// Context Protocol server over stdio.
package main

import (
	"fmt"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/yomail"
	"github.com/hurttlocker/yomail/internal/mcp"
)

func main() {
	var (
		modelPath string
		threshold = yomail.DefaultConfidenceThreshold
		cacheTTL  = 10 * time.Minute
	)

	for i := 1; i < len(os.Args); i++ {
		switch arg := os.Args[i]; {
		case arg == "--model" && i+1 < len(os.Args):
			i++
			modelPath = os.Args[i]
		case arg == "--threshold" && i+1 < len(os.Args):
			i++
			if _, err := fmt.Sscanf(os.Args[i], "%g", &threshold); err != nil {
				fmt.Fprintf(os.Stderr, "invalid --threshold value %q\n", os.Args[i])
				os.Exit(1)
			}
		case arg == "--cache-ttl" && i+1 < len(os.Args):
			i++
			d, err := time.ParseDuration(os.Args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --cache-ttl value %q\n", os.Args[i])
				os.Exit(1)
			}
			cacheTTL = d
		case arg == "--help" || arg == "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n\n", arg)
			printUsage()
			os.Exit(1)
		}
	}

	s, err := mcp.NewServer(mcp.ServerConfig{
		ModelPath:           modelPath,
		ConfidenceThreshold: threshold,
		Version:             "0.1.0-dev",
		CacheTTL:            cacheTTL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := mcpserver.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`yomail-mcp — serve yomail extraction tools over the Model Context Protocol (stdio)

Usage:
  yomail-mcp [flags]

Flags:
  --model <path>       Load a custom model instead of the bundled default
  --threshold <float>  Confidence threshold
  --cache-ttl <dur>     Result cache TTL (e.g. "10m", "30s"; default 10m)
  -h, --help            Show this help message`)
}
