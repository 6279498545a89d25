package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	web "github.com/leonardcser/redis-basic/internal/web"
)

// GetPageHandler returns the MCP tool handler for the "get-page" tool.
func GetPageHandler(fetcher *web.Fetcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		url, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := fetcher.GetPage(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.GetBool("markdown", false) {
			if body, err = web.ToMarkdown(body); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		return mcp.NewToolResultText(body), nil
	}
}
