// Package mcp exposes the yomail extraction pipeline as a Model Context
// Protocol server: three tools over the same Extractor
// (extract, extract_safe, extract_with_metadata) and a resource
// describing the loaded model.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hurttlocker/yomail"
	"github.com/hurttlocker/yomail/internal/resultcache"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	ModelPath           string
	ConfidenceThreshold float64
	Version             string
	CacheTTL            time.Duration
}

// extractMu serializes tool calls against the extractor. mcp-go dispatches
// handlers concurrently via goroutines; Extractor reads are already safe
// for concurrent use, but the shared resultcache benefits from one writer
// at a time to avoid duplicate work on identical concurrent requests.
var extractMu sync.Mutex

// NewServer creates a configured MCP server exposing extraction tools and
// a model-metadata resource.
func NewServer(cfg ServerConfig) (*server.MCPServer, error) {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	extractor, err := yomail.NewExtractor(cfg.ModelPath, cfg.ConfidenceThreshold)
	if err != nil {
		return nil, fmt.Errorf("loading extractor: %w", err)
	}

	cache := resultcache.New[yomail.ExtractionResult](cfg.CacheTTL)

	s := server.NewMCPServer(
		"yomail",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerExtractTool(s, extractor, cache)
	registerExtractSafeTool(s, extractor, cache)
	registerExtractWithMetadataTool(s, extractor, cache)
	registerModelResource(s, extractor, cfg.ModelPath)

	return s, nil
}

func cachedExtract(extractor *yomail.Extractor, cache *resultcache.Cache[yomail.ExtractionResult], text string, threshold float64) yomail.ExtractionResult {
	extractMu.Lock()
	defer extractMu.Unlock()

	if cached, ok := cache.Get(text, threshold); ok {
		return cached
	}
	result := extractor.ExtractWithMetadata(text)
	cache.Set(text, threshold, result)
	return result
}

func registerExtractTool(s *server.MCPServer, extractor *yomail.Extractor, cache *resultcache.Cache[yomail.ExtractionResult]) {
	tool := mcp.NewTool("yomail_extract",
		mcp.WithDescription("Extract the human-authored message (greeting, body, closing, and inline quotes) from a Japanese business email, discarding signatures and leading/trailing quoted history. Fails on invalid input, no detectable body, or low confidence."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The raw email text to extract a body from"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		result := cachedExtract(extractor, cache, text, extractor.ConfidenceThreshold())
		if !result.Success {
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", result.Err)), nil
		}
		return mcp.NewToolResultText(result.BodyText), nil
	})
}

func registerExtractSafeTool(s *server.MCPServer, extractor *yomail.Extractor, cache *resultcache.Cache[yomail.ExtractionResult]) {
	tool := mcp.NewTool("yomail_extract_safe",
		mcp.WithDescription("Extract the email body like yomail_extract, but never errors: returns an empty result on failure instead."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The raw email text to extract a body from"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		result := cachedExtract(extractor, cache, text, extractor.ConfidenceThreshold())
		if !result.Success {
			return mcp.NewToolResultText(""), nil
		}
		return mcp.NewToolResultText(result.BodyText), nil
	})
}

func registerExtractWithMetadataTool(s *server.MCPServer, extractor *yomail.Extractor, cache *resultcache.Cache[yomail.ExtractionResult]) {
	tool := mcp.NewTool("yomail_extract_with_metadata",
		mcp.WithDescription("Extract the email body and return the full result as JSON: success flag, confidence, signature/quote detection, and diagnostics."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The raw email text to extract a body from"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		result := cachedExtract(extractor, cache, text, extractor.ConfidenceThreshold())

		out := map[string]interface{}{
			"success":                result.Success,
			"body_text":              result.BodyText,
			"confidence":             result.Confidence,
			"signature_detected":     result.SignatureDetected,
			"inline_quotes_included": result.InlineQuotesIncluded,
			"diagnostics": map[string]interface{}{
				"base_confidence":     result.Diagnostics.BaseConfidence,
				"ambiguity_penalty":   result.Diagnostics.AmbiguityPenalty,
				"excluded_body_count": result.Diagnostics.ExcludedBodyCount,
				"adjusted_confidence": result.Diagnostics.AdjustedConfidence,
			},
		}
		if result.Err != nil {
			out["error"] = result.Err.Error()
		}

		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
