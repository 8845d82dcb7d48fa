package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/importers"
	"github.com/ziadkadry99/api-portal/internal/registry"
)

// handleListCatalog lists domains and their APIs.
func (s *Server) handleListCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat := s.catalog.Catalog(ctx)
	if only := request.GetString("domain", ""); only != "" {
		d, ok := cat.Domain(only)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("domain %q not found", only)), nil
		}
		cat = catalog.Catalog{d}
	}
	return mcp.NewToolResultText(formatCatalog(cat)), nil
}

// handleGetAPI describes one API.
func (s *Server) handleGetAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location := request.GetString("location", "")
	name := request.GetString("name", "")
	if location == "" && name == "" {
		return mcp.NewToolResultError("one of location or name is required"), nil
	}

	cat := s.catalog.Catalog(ctx)
	var (
		api    catalog.API
		domain string
		ok     bool
	)
	if location != "" {
		api, domain, ok = cat.FindByLocation(location)
	} else {
		api, domain, ok = findByName(cat, name)
	}
	if !ok {
		return mcp.NewToolResultError("API not found in the catalog"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", api.Name)
	fmt.Fprintf(&sb, "Domain: %s\n", domain)
	fmt.Fprintf(&sb, "Location: %s\n", api.Location)
	fmt.Fprintf(&sb, "Origin: %s\n", api.Origin())

	if api.IsLocal() {
		summary, err := importers.Summarize(api.Document)
		if err != nil {
			fmt.Fprintf(&sb, "\nThe stored document could not be parsed: %v\n", err)
		} else {
			sb.WriteString("\n")
			sb.WriteString(importers.FormatMarkdown(summary))
			sb.WriteString("\n")
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleAddAPI registers a new API.
func (s *Server) handleAddAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiName, err := request.RequireString("api_name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: api_name"), nil
	}

	req := registry.AddRequest{
		DomainName: request.GetString("domain_name", ""),
		APIName:    apiName,
		Mode:       registry.Mode(request.GetString("mode", string(registry.ModeURL))),
		URL:        request.GetString("url", ""),
		Document:   request.GetString("document", ""),
	}
	cat, err := s.catalog.Add(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	domain := req.DomainName
	if domain == "" {
		domain = catalog.DefaultDomainName
	}
	d, _ := cat.Domain(domain)
	for _, a := range d.APIs {
		if a.Name == apiName {
			return mcp.NewToolResultText(fmt.Sprintf("Added %q to %q at %s", apiName, domain, a.Location)), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added %q to %q", apiName, domain)), nil
}

// handleRemoveAPI removes an API once confirmed.
func (s *Server) handleRemoveAPI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := request.RequireString("domain_name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: domain_name"), nil
	}
	apiName, err := request.RequireString("api_name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: api_name"), nil
	}

	confirmed := request.GetBool("confirm", false)
	confirm := registry.ConfirmFunc(func(string) bool { return confirmed })
	_, removed, err := s.catalog.Remove(ctx, domain, apiName, confirm)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove failed: %v", err)), nil
	}
	if !confirmed {
		return mcp.NewToolResultError("Removal not confirmed. Call again with confirm=true."), nil
	}
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("Nothing removed: %q is not an API of the user-defined domain %q.", apiName, domain)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed %q from %q", apiName, domain)), nil
}

func findByName(cat catalog.Catalog, name string) (catalog.API, string, bool) {
	for _, d := range cat {
		if a, ok := d.API(name); ok {
			return a, d.Name, true
		}
	}
	return catalog.API{}, "", false
}

// formatCatalog converts the catalog into a text listing for agents.
func formatCatalog(cat catalog.Catalog) string {
	if len(cat) == 0 {
		return "The catalog is empty."
	}
	var sb strings.Builder
	for _, d := range cat {
		fmt.Fprintf(&sb, "## %s\n", d.Name)
		if len(d.APIs) == 0 {
			sb.WriteString("(no APIs)\n")
		}
		for _, a := range d.APIs {
			fmt.Fprintf(&sb, "- %s: %s", a.Name, a.Location)
			if a.IsLocal() {
				sb.WriteString(" (pasted document)")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
