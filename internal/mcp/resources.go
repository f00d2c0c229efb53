package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yosida95/uritemplate/v3"

	"github.com/hurttlocker/yomail"
)

// modelResourceTemplate names the loaded model "default" unless a custom
// model path was given, in which case its base filename (without
// extension) fills the {variant} slot.
var modelResourceTemplate = uritemplate.MustNew("yomail://model{/variant}")

func modelResourceURI(modelPath string) string {
	variant := "default"
	if trimmed := strings.TrimSpace(modelPath); trimmed != "" {
		base := filepath.Base(trimmed)
		variant = strings.TrimSuffix(base, filepath.Ext(base))
	}

	values := uritemplate.Values{}
	values.Set("variant", uritemplate.String(variant))
	expanded, _ := modelResourceTemplate.Expand(values)
	return expanded
}

func registerModelResource(s *server.MCPServer, extractor *yomail.Extractor, modelPath string) {
	uri := modelResourceURI(modelPath)

	resource := mcp.NewResource(
		uri,
		"yomail model metadata",
		mcp.WithResourceDescription("Label set, feature template version, training algorithm, training timestamp, and confidence threshold of the currently loaded model."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		meta := extractor.ModelMetadata()
		out := map[string]interface{}{
			"label_set":                meta.LabelSet,
			"feature_template_version": meta.FeatureTemplateVersion,
			"algorithm":                meta.Algorithm,
			"trained_at":               meta.TrainedAt,
			"confidence_threshold":     extractor.ConfidenceThreshold(),
			"model_loaded":             extractor.IsModelLoaded(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding model metadata: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
