package importers

// Endpoint is one operation found in an OpenAPI or Swagger document.
type Endpoint struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	Parameters  []string          `json:"parameters,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

// Summary is what the portal can tell about a document without rendering it.
type Summary struct {
	Title     string     `json:"title,omitempty"`
	Version   string     `json:"version,omitempty"`
	Format    string     `json:"format,omitempty"` // e.g. "openapi 3.0.0", "swagger 2.0"
	Endpoints []Endpoint `json:"endpoints"`
}

// FileResult records the outcome for one imported file.
type FileResult struct {
	Path    string `json:"path"`
	APIName string `json:"api_name,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportResult contains the results of a bulk import.
type ImportResult struct {
	Domain   string       `json:"domain"`
	Found    int          `json:"found"`
	Imported int          `json:"imported"`
	Files    []FileResult `json:"files"`
}
