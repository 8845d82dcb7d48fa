package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/registry"
	"github.com/ziadkadry99/api-portal/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV(), "", nil, nil)
	b := catalog.NewBuilder(catalog.Builtin(), st, nil, nil)
	return NewServer(registry.NewMutator(st, b, nil, nil), nil), st
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolDefinitions(t *testing.T) {
	// Verify tool names and required properties.
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_catalog", listCatalogTool, "list_catalog"},
		{"get_api", getAPITool, "get_api"},
		{"add_api", addAPITool, "add_api"},
		{"remove_api", removeAPITool, "remove_api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleListCatalog(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("all domains", func(t *testing.T) {
		result, err := srv.handleListCatalog(ctx, callRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := extractText(result)
		for _, want := range []string{"## Core Services", "## Payment Services", "- Petstore API: https://petstore.swagger.io/v2/swagger.json?1"} {
			if !strings.Contains(text, want) {
				t.Errorf("listing missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("one domain", func(t *testing.T) {
		result, _ := srv.handleListCatalog(ctx, callRequest(map[string]any{"domain": "Payment Services"}))
		text := extractText(result)
		if strings.Contains(text, "Core Services") || !strings.Contains(text, "Payment API") {
			t.Errorf("unexpected listing:\n%s", text)
		}
	})

	t.Run("unknown domain", func(t *testing.T) {
		result, _ := srv.handleListCatalog(ctx, callRequest(map[string]any{"domain": "Nope"}))
		if !result.IsError {
			t.Error("expected error for unknown domain")
		}
	})
}

func TestHandleAddAndGetAPI(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	doc := `{"openapi":"3.0.0","info":{"title":"Inline","version":"2"},"paths":{"/ping":{"get":{"summary":"Ping"}}}}`
	result, err := srv.handleAddAPI(ctx, callRequest(map[string]any{
		"api_name": "Inline",
		"mode":     "document",
		"document": doc,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}
	if !strings.Contains(extractText(result), "local-api-SW5saW5l") {
		t.Errorf("expected identifier in result: %s", extractText(result))
	}
	if got := st.Read(ctx); len(got) != 1 || got[0].Name != catalog.DefaultDomainName {
		t.Fatalf("unexpected stored domains: %+v", got)
	}

	result, _ = srv.handleGetAPI(ctx, callRequest(map[string]any{"location": "local-api-SW5saW5l"}))
	text := extractText(result)
	for _, want := range []string{"# Inline", "Origin: local", "| GET | `/ping` | Ping |"} {
		if !strings.Contains(text, want) {
			t.Errorf("get_api output missing %q:\n%s", want, text)
		}
	}

	result, _ = srv.handleGetAPI(ctx, callRequest(map[string]any{"name": "User Service"}))
	text = extractText(result)
	if !strings.Contains(text, "Domain: Core Services") || !strings.Contains(text, "Origin: remote") {
		t.Errorf("unexpected get_api output:\n%s", text)
	}

	result, _ = srv.handleGetAPI(ctx, callRequest(map[string]any{}))
	if !result.IsError {
		t.Error("expected error without location or name")
	}
}

func TestHandleAddAPI_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	result, _ := srv.handleAddAPI(ctx, callRequest(map[string]any{"api_name": "A"}))
	if !result.IsError || extractText(result) != "Please provide a valid URL" {
		t.Errorf("expected URL validation error, got %q", extractText(result))
	}

	result, _ = srv.handleAddAPI(ctx, callRequest(map[string]any{}))
	if !result.IsError {
		t.Error("expected error for missing api_name")
	}
}

func TestHandleRemoveAPI(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	srv.handleAddAPI(ctx, callRequest(map[string]any{"api_name": "A", "domain_name": "Mine", "url": "https://a"}))

	result, _ := srv.handleRemoveAPI(ctx, callRequest(map[string]any{"domain_name": "Mine", "api_name": "A", "confirm": false}))
	if !result.IsError {
		t.Error("expected error without confirmation")
	}
	if len(st.Read(ctx)) != 1 {
		t.Fatal("unconfirmed removal changed the store")
	}

	result, _ = srv.handleRemoveAPI(ctx, callRequest(map[string]any{"domain_name": "Core Services", "api_name": "Petstore API", "confirm": true}))
	if result.IsError || !strings.HasPrefix(extractText(result), "Nothing removed") {
		t.Errorf("unexpected result for built-in domain: %s", extractText(result))
	}

	result, _ = srv.handleRemoveAPI(ctx, callRequest(map[string]any{"domain_name": "Mine", "api_name": "A", "confirm": true}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}
	if len(st.Read(ctx)) != 0 {
		t.Error("expected the emptied domain to be deleted")
	}
}
