package importers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/api-portal/internal/catalog"
)

var methods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Summarize parses a document (JSON or YAML) and extracts its title,
// version and endpoints. A structured document without paths yields an
// empty endpoint list.
func Summarize(content string) (*Summary, error) {
	doc, err := catalog.ParseDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parsing api document: %w", err)
	}
	spec, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("api document is not an object")
	}

	s := &Summary{Endpoints: []Endpoint{}}
	if info, ok := spec["info"].(map[string]any); ok {
		s.Title, _ = info["title"].(string)
		s.Version = scalar(info["version"])
	}
	switch {
	case spec["openapi"] != nil:
		s.Format = "openapi " + scalar(spec["openapi"])
	case spec["swagger"] != nil:
		s.Format = "swagger " + scalar(spec["swagger"])
	}

	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return s, nil
	}

	// Sort paths for deterministic output.
	pathKeys := make([]string, 0, len(paths))
	for k := range paths {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range methods {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			s.Endpoints = append(s.Endpoints, endpoint(path, method, op))
		}
	}
	return s, nil
}

func endpoint(path, method string, op map[string]any) Endpoint {
	ep := Endpoint{Path: path, Method: strings.ToUpper(method)}
	ep.Summary, _ = op["summary"].(string)
	ep.Description, _ = op["description"].(string)

	if params, ok := op["parameters"].([]any); ok {
		for _, p := range params {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			name, _ := pm["name"].(string)
			in, _ := pm["in"].(string)
			if name != "" {
				ep.Parameters = append(ep.Parameters, fmt.Sprintf("%s (in %s)", name, in))
			}
		}
	}

	if responses, ok := op["responses"].(map[string]any); ok {
		ep.Responses = make(map[string]string, len(responses))
		for code, resp := range responses {
			if rm, ok := resp.(map[string]any); ok {
				desc, _ := rm["description"].(string)
				ep.Responses[code] = desc
			}
		}
	}
	return ep
}

// scalar renders version fields, which YAML may decode as numbers.
func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// FormatMarkdown renders a summary as a heading and a markdown table.
func FormatMarkdown(s *Summary) string {
	var sb strings.Builder
	if s.Title != "" {
		fmt.Fprintf(&sb, "## %s", s.Title)
		if s.Version != "" {
			fmt.Fprintf(&sb, " (%s)", s.Version)
		}
		sb.WriteString("\n\n")
	}
	if s.Format != "" {
		fmt.Fprintf(&sb, "Format: %s\n\n", s.Format)
	}
	if len(s.Endpoints) == 0 {
		sb.WriteString("No endpoints found.")
		return sb.String()
	}

	sb.WriteString("| Method | Path | Summary |\n")
	sb.WriteString("|--------|------|---------|\n")
	for _, ep := range s.Endpoints {
		summary := ep.Summary
		if summary == "" {
			summary = ep.Description
		}
		if len(summary) > 80 {
			summary = summary[:77] + "..."
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", ep.Method, ep.Path, summary)
	}
	return sb.String()
}
