package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/coverly/advisor/internal/composer"
	"github.com/coverly/advisor/internal/profile"
)

// NewMCPServer exposes the advisory operation over MCP so agent clients
// can ask on a user's behalf. The tool mirrors the /chat contract: a
// message, an optional profile snapshot, and optional policy document
// names, never document bytes.
func NewMCPServer(completer Completer) *server.MCPServer {
	s := server.NewMCPServer(
		"advisor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("advisor: insurance advisory assistant producing profile-aware recommendations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_advisor",
			mcp.WithDescription("Ask the insurance advisory assistant a question, optionally with a client profile snapshot and the names of uploaded policy documents."),
			mcp.WithString("message", mcp.Description("The question for the advisor"), mcp.Required()),
			mcp.WithString("profile", mcp.Description("Client profile snapshot as a JSON object (fixed field set; unknown keys ignored)")),
			mcp.WithArray("documents", mcp.Description("Names of the client's policy documents, in selection order")),
		),
		mcpAskAdvisor(completer),
	)

	s.AddResource(
		mcp.NewResource(
			"advisor://profile-schema",
			"Profile Schema",
			mcp.WithResourceDescription("Ordered list of client profile field names"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfileSchema(),
	)

	return s
}

func mcpAskAdvisor(completer Completer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		profileJSON := req.GetString("profile", "{}")
		if profileJSON == "" {
			profileJSON = "{}"
		}
		prof, perr := profile.Parse(profileJSON)
		if perr != nil {
			slog.Warn("invalid profile snapshot from MCP client, continuing without profile context", "error", perr)
		}

		documents := req.GetStringSlice("documents", nil)

		prompt := composer.Compose(message, prof, documents)
		content, err := completer.Complete(ctx, composer.SystemInstruction, prompt.Text)
		if err != nil {
			slog.Error("advisory completion failed", "transport", "mcp", "error", err)
			return mcpError(GenericErrorMessage), nil
		}

		b, err := json.Marshal(ChatResponse{
			Response:        content,
			ProfileReceived: prompt.ProfileReceived,
			FilesReceived:   prompt.FilesReceived,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfileSchema() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(map[string][]string{"fields": profile.FieldNames()})
		if err != nil {
			return nil, fmt.Errorf("marshaling profile schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
