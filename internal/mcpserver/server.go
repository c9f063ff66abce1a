// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the photo catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/photoservice"
)

const contractURI = "shashin://manifest-format"

// Server wraps the MCP server with gallery tools.
type Server struct {
	mcp *server.MCPServer
	svc *photoservice.Service
}

// New creates a new MCP server with all gallery tools registered.
func New(svc *photoservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Shashin",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_photos",
		mcp.WithDescription("Search photos by title, description and subject (case-insensitive substring). "+
			"An empty query lists every photo. Tags, when given, replace the query."),
		mcp.WithString("query", mcp.Description("Search text")),
		mcp.WithString("tags", mcp.Description("Space-separated filter tags from list_tags")),
	), s.searchPhotos)

	s.mcp.AddTool(mcp.NewTool("get_photo",
		mcp.WithDescription("Get one photo by its catalog index, with its neighbours' availability."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Catalog index (0-based)")),
	), s.getPhoto)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List the filter tags derived from photo subjects, in first-seen order."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("catalog_info",
		mcp.WithDescription("Describe the loaded catalog: version, photo count, encoding and skipped rows."),
	), s.catalogInfo)

	s.mcp.AddTool(mcp.NewTool("reload_catalog",
		mcp.WithDescription("Re-read the manifest. The previous catalog stays loaded if the new one is unusable."),
	), s.reloadCatalog)

	s.mcp.AddTool(mcp.NewTool("get_manifest_contract",
		mcp.WithDescription("Returns the manifest format contract. "+
			"Read it before writing or checking a manifest file."),
	), s.getManifestContract)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Manifest Format Contract",
			mcp.WithResourceDescription("Delimited text manifest format the gallery reads."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readManifestFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchPhotos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	var tags []string
	if raw, ok := args["tags"].(string); ok {
		tags = strings.Fields(raw)
	}
	list, err := s.svc.Photos(ctx, query, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}

func (s *Server) getPhoto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := indexArg(req.GetArguments()["index"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := s.svc.Photo(ctx, i)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no photo at index %d", i)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(f)
}

// indexArg accepts a JSON number or a numeric string.
func indexArg(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, fmt.Errorf("index %v: %w", n, apperr.ErrInvalidInput)
		}
		return int(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("index %d: %w", n, apperr.ErrInvalidInput)
		}
		return n, nil
	case string:
		return photoservice.ParseIndex(n)
	case nil:
		return 0, fmt.Errorf("index is required: %w", apperr.ErrInvalidInput)
	}
	return 0, fmt.Errorf("index %v: %w", v, apperr.ErrInvalidInput)
}

func (s *Server) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.Tags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) catalogInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.svc.Info(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(info)
}

func (s *Server) reloadCatalog(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.svc.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("reloaded: " + strconv.Itoa(c.Len()) + " photos"), nil
}

func (s *Server) getManifestContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ManifestFormatContract), nil
}

func (s *Server) readManifestFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     ManifestFormatContract,
		},
	}, nil
}
