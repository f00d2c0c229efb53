// Command yomail is a small CLI wrapper around the yomail library:
// extract a body from a file or stdin and print it, optionally as a JSON
// summary of the ExtractionResult (success, body, confidence, signature
// and inline-quote detection, error, elapsed time).
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"

	"github.com/hurttlocker/yomail"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "extract":
		if err := runExtract(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, colorize("[red]Error:[reset] "+err.Error()))
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("yomail %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runExtract(args []string) error {
	var (
		path      string
		modelPath string
		threshold = yomail.DefaultConfidenceThreshold
		asJSON    bool
		safe      bool
	)

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--json":
			asJSON = true
		case arg == "--safe":
			safe = true
		case arg == "--model" && i+1 < len(args):
			i++
			modelPath = args[i]
		case arg == "--threshold" && i+1 < len(args):
			i++
			if _, err := fmt.Sscanf(args[i], "%g", &threshold); err != nil {
				return fmt.Errorf("invalid --threshold value %q", args[i])
			}
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			path = arg
		}
	}

	text, err := readInput(path)
	if err != nil {
		return err
	}

	extractor, err := yomail.NewExtractor(modelPath, threshold)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	start := time.Now()

	if asJSON {
		result := extractor.ExtractWithMetadata(text)
		elapsed := time.Since(start)
		return printJSONResult(result, elapsed)
	}

	if safe {
		body := extractor.ExtractSafe(text)
		if body == nil {
			fmt.Println(colorize("[yellow]No body detected.[reset]"))
			return nil
		}
		fmt.Println(*body)
		return nil
	}

	body, err := extractor.Extract(text)
	if err != nil {
		return err
	}
	fmt.Println(body)
	fmt.Fprintln(os.Stderr, colorize(fmt.Sprintf("[green]extracted %s in %s[reset]", humanize.Bytes(uint64(len(body))), time.Since(start).Round(time.Millisecond))))
	return nil
}

type jsonResult struct {
	Success              bool    `json:"success"`
	BodyText             string  `json:"body_text,omitempty"`
	Confidence           float64 `json:"confidence"`
	SignatureDetected    bool    `json:"signature_detected"`
	InlineQuotesIncluded int     `json:"inline_quotes_included"`
	Error                string  `json:"error,omitempty"`
	ElapsedMS            int64   `json:"elapsed_ms"`
}

func printJSONResult(result yomail.ExtractionResult, elapsed time.Duration) error {
	out := jsonResult{
		Success:              result.Success,
		BodyText:             result.BodyText,
		Confidence:           result.Confidence,
		SignatureDetected:    result.SignatureDetected,
		InlineQuotesIncluded: result.InlineQuotesIncluded,
		ElapsedMS:            elapsed.Milliseconds(),
	}
	if result.Err != nil {
		out.Error = result.Err.Error()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// colorize applies colorstring tags only when stdout is a real terminal,
// so piped output stays free of escape codes.
func colorize(s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return colorstring.Color(strings.NewReplacer("[red]", "", "[green]", "", "[yellow]", "", "[reset]", "").Replace(s))
	}
	return colorstring.Color(s)
}

func printUsage() {
	fmt.Printf(`yomail %s — extract the human-authored body from a Japanese business email

Usage:
  yomail <command> [arguments]

Commands:
  extract [path]      Extract the body from a file (or stdin if omitted/"-")
  version             Print version

Extract Flags:
  --json               Print a JSON summary of the ExtractionResult
  --safe               Print nothing but the body, or "No body detected." on failure
  --model <path>       Load a custom model instead of the bundled default
  --threshold <float>  Confidence threshold (default: %.2f)

Flags:
  -h, --help          Show this help message
  -v, --version       Print version
`, version, yomail.DefaultConfidenceThreshold)
}
