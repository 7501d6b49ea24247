// resources.go implements MCP resource handlers for guide access.
//
// MCP resources provide read-only access via URI schemes, enabling LLM
// clients to load documentation into context without using tools.
//
// Design: Resource URIs follow the pattern relate://guide/{name}. An empty
// or missing name returns the main guide, mirroring the CLI's "guide"
// command behaviour.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/relate-io/relate/guide"
)

// ErrInvalidURI indicates a malformed resource URI, helping clients
// debug URI construction issues.
var ErrInvalidURI = errors.New("invalid URI")

// readGuideResource handles relate://guide/{name} resource requests.
func (h *handlers) readGuideResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name, err := parseGuideURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	content, err := guide.Get(name)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}

// parseGuideURI extracts the page name from a guide URI.
// Supports: relate://guide and relate://guide/{name}
func parseGuideURI(uri string) (string, error) {
	const prefix = "relate://guide"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, prefix)
	rest = strings.TrimPrefix(rest, "/")
	return rest, nil
}
