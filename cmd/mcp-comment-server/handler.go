package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

// UpdateCommentParams defines the input parameters for the tool
type UpdateCommentParams struct {
	Body string `json:"body" jsonschema:"The updated comment content"`
}

// HandleUpdateComment handles the update_tracking_comment tool call
func HandleUpdateComment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params UpdateCommentParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Comment Server] Received update_tracking_comment request")

	owner := os.Getenv("REPO_OWNER")
	repo := os.Getenv("REPO_NAME")
	commentIDStr := os.Getenv("TRACKING_COMMENT_ID")
	token := os.Getenv("GITHUB_TOKEN")

	if params.Body == "" {
		return nil, nil, fmt.Errorf("body parameter is required")
	}

	commentID, err := strconv.ParseInt(commentIDStr, 10, 64)
	if err != nil {
		log.Printf("[MCP Comment Server] Invalid TRACKING_COMMENT_ID: %v", err)
		return nil, nil, fmt.Errorf("invalid TRACKING_COMMENT_ID: %w", err)
	}

	client := github.NewTokenClient(token)
	if err := github.UpdateIssueComment(ctx, client, owner, repo, commentID, params.Body); err != nil {
		log.Printf("[MCP Comment Server] Failed to update comment: %v", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: fmt.Sprintf("Error: %v", err),
				},
			},
			IsError: true,
		}, nil, nil
	}

	resultText := fmt.Sprintf(`{
  "success": true,
  "owner": %q,
  "repo": %q,
  "comment_id": %d,
  "body_length": %d
}`, owner, repo, commentID, len(params.Body))

	log.Printf("[MCP Comment Server] Successfully updated comment #%d", commentID)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resultText},
		},
	}, nil, nil
}
