// Command yomail-train stages JSONL training records into a corpus
// database and fits a CRF model from everything staged.
//
// Each JSONL record has the shape:
//
//	{"email_text": "...", "lines": [{"text": "...", "label": "GREETING"}, ...], "metadata": {...}}
//
// Blank lines are never listed in "lines"; labels come from the six-symbol
// set GREETING, BODY, CLOSING, SIGNATURE, QUOTE, OTHER.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/invopop/jsonschema"
	"github.com/schollz/progressbar/v2"

	"github.com/hurttlocker/yomail/internal/corpus"
	"github.com/hurttlocker/yomail/internal/crf"
	"github.com/hurttlocker/yomail/internal/crfmodel"
	"github.com/hurttlocker/yomail/internal/train"
	"github.com/hurttlocker/yomail/internal/traincfg"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "ingest":
		err = runIngest(os.Args[2:])
	case "run":
		err = runTrain(os.Args[2:])
	case "schema":
		err = runSchema()
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// trainingRecord documents the JSONL record shape for schema publication;
// it's never unmarshaled directly since ingestion reads fields with
// jsonparser to tolerate malformed individual records without aborting
// the whole file.
type trainingRecord struct {
	EmailText string            `json:"email_text" jsonschema_description:"Raw email text, pre-normalization."`
	Lines     []trainingLine    `json:"lines" jsonschema_description:"Every non-blank line of email_text, in order, with its gold label."`
	Metadata  map[string]string `json:"metadata,omitempty" jsonschema_description:"Free-form provenance: source, annotator, collection date, etc."`
}

type trainingLine struct {
	Text  string `json:"text"`
	Label string `json:"label" jsonschema:"enum=GREETING,enum=BODY,enum=CLOSING,enum=SIGNATURE,enum=QUOTE,enum=OTHER"`
}

func runSchema() error {
	schema := jsonschema.Reflect(&trainingRecord{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runIngest(args []string) error {
	var corpusPath, inPath string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--corpus" && i+1 < len(args):
			i++
			corpusPath = args[i]
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			inPath = arg
		}
	}
	if inPath == "" {
		return fmt.Errorf("usage: yomail-train ingest <file.jsonl> [--corpus path]")
	}
	if corpusPath == "" {
		corpusPath = corpus.DefaultDBPath
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer f.Close()

	store, err := corpus.Open(corpusPath)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	staged, skipped := 0, 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		emailText, lines, metadata, err := parseRecord([]byte(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: skipping (%v)\n", lineNo, err)
			skipped++
			continue
		}

		if _, err := store.Add(ctx, emailText, lines, metadata); err != nil {
			fmt.Fprintf(os.Stderr, "line %d: staging failed (%v)\n", lineNo, err)
			skipped++
			continue
		}
		staged++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	fmt.Printf("Staged %d record(s), skipped %d\n", staged, skipped)
	return nil
}

// parseRecord reads one JSONL record's fields with jsonparser rather than
// unmarshaling into trainingRecord, so a record with an unexpected extra
// field or slightly different metadata shape doesn't fail the whole line.
func parseRecord(raw []byte) (string, []train.LineLabel, map[string]string, error) {
	emailText, err := jsonparser.GetString(raw, "email_text")
	if err != nil {
		return "", nil, nil, fmt.Errorf("missing email_text: %w", err)
	}

	var lines []train.LineLabel
	var arrErr error
	_, err = jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if arrErr != nil {
			return
		}
		text, terr := jsonparser.GetString(value, "text")
		if terr != nil {
			arrErr = fmt.Errorf("line entry missing text: %w", terr)
			return
		}
		label, lerr := jsonparser.GetString(value, "label")
		if lerr != nil {
			arrErr = fmt.Errorf("line entry missing label: %w", lerr)
			return
		}
		lines = append(lines, train.LineLabel{Text: text, Label: crf.Label(label)})
	}, "lines")
	if err != nil {
		return "", nil, nil, fmt.Errorf("reading lines array: %w", err)
	}
	if arrErr != nil {
		return "", nil, nil, arrErr
	}

	metadata := map[string]string{}
	_ = jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
		metadata[string(key)] = string(value)
		return nil
	}, "metadata")

	return emailText, lines, metadata, nil
}

func runTrain(args []string) error {
	opts := traincfg.Options{}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--config" && i+1 < len(args):
			i++
			opts.ConfigPath = args[i]
		case arg == "--algorithm" && i+1 < len(args):
			i++
			opts.CLIAlgorithm = args[i]
		case arg == "--max-iterations" && i+1 < len(args):
			i++
			opts.CLIMaxIterations = args[i]
		case arg == "--corpus" && i+1 < len(args):
			i++
			opts.CLICorpusPath = args[i]
		case arg == "--out" && i+1 < len(args):
			i++
			opts.CLIModelOutPath = args[i]
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	resolved, err := traincfg.ResolveConfig(opts)
	if err != nil {
		return fmt.Errorf("resolving config: %w", err)
	}
	if strings.TrimSpace(resolved.ModelOutPath.Value) == "" {
		return fmt.Errorf("no model output path given (--out or model_out_path in config)")
	}

	store, err := corpus.Open(resolved.CorpusPath.Value)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("corpus at %s has no staged training examples", resolved.CorpusPath.Value)
	}

	trainer := train.NewCRFTrainer(resolved.TrainConfig())

	bar := progressbar.New(len(records))
	skipped := 0
	for _, rec := range records {
		if err := trainer.AddDocument(rec.EmailText, rec.Lines); err != nil {
			fmt.Fprintf(os.Stderr, "record %s: skipping (%v)\n", rec.ID, err)
			skipped++
		}
		bar.Add(1)
	}
	fmt.Println()

	model, err := trainer.Train()
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	if err := crfmodel.Save(resolved.ModelOutPath.Value, model, resolved.Algorithm.Value, time.Now()); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}

	fmt.Printf("Trained on %d document(s) (%d skipped), wrote model to %s\n", trainer.NumSequences(), skipped, resolved.ModelOutPath.Value)
	return nil
}

func printUsage() {
	fmt.Println(`yomail-train — stage JSONL training records and fit a CRF model

Usage:
  yomail-train <command> [arguments]

Commands:
  ingest <file.jsonl>   Stage JSONL training records into the corpus db
                         Flags: --corpus <path>
  run                    Fit a model from everything staged in the corpus
                         Flags: --config <path> --algorithm <name>
                                --max-iterations <n> --corpus <path> --out <path>
  schema                 Print the JSON schema for a training record`)
}
