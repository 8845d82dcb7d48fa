package importers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/progress"
	"github.com/ziadkadry99/api-portal/internal/registry"
)

// Adder registers a new API. *registry.Mutator and the portal implement it.
type Adder interface {
	Add(ctx context.Context, req registry.AddRequest) (catalog.Catalog, error)
}

// Importer adds spec files from disk as local APIs.
type Importer struct {
	adder    Adder
	reporter progress.Reporter
	logger   *zap.Logger
}

// NewImporter creates an Importer. A nil reporter discards progress.
func NewImporter(adder Adder, reporter progress.Reporter, logger *zap.Logger) *Importer {
	if reporter == nil {
		reporter = &progress.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{adder: adder, reporter: reporter, logger: logger}
}

// Import adds every file matching pattern (doublestar syntax, e.g.
// "specs/**/*.{json,yaml,yml}") to domain as a pasted document. The API is
// named after the document's info.title, falling back to the file name.
// Files that are rejected are reported in the result and do not stop the
// import.
func (im *Importer) Import(ctx context.Context, pattern, domain string) (*ImportResult, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	if domain == "" {
		domain = catalog.DefaultDomainName
	}
	res := &ImportResult{Domain: domain, Found: len(matches)}

	im.reporter.Begin(len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			im.reporter.Done()
			return res, err
		}
		fr := im.importFile(ctx, path, domain)
		if fr.Error == "" {
			res.Imported++
		} else {
			im.logger.Warn("spec not imported", zap.String("path", path), zap.String("reason", fr.Error))
		}
		res.Files = append(res.Files, fr)
		im.reporter.File(progress.Outcome{File: filepath.Base(path), API: fr.APIName, Reason: fr.Error})
	}
	tally := im.reporter.Done()
	im.logger.Info("import finished", zap.String("domain", domain),
		zap.Int("imported", tally.Imported), zap.Int("skipped", tally.Skipped))
	return res, nil
}

func (im *Importer) importFile(ctx context.Context, path, domain string) FileResult {
	fr := FileResult{Path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	fr.APIName = apiName(path, string(content))
	_, err = im.adder.Add(ctx, registry.AddRequest{
		DomainName: domain,
		APIName:    fr.APIName,
		Mode:       registry.ModeDocument,
		Document:   string(content),
	})
	if err != nil {
		fr.Error = err.Error()
	}
	return fr
}

func apiName(path, content string) string {
	if s, err := Summarize(content); err == nil && s.Title != "" {
		return s.Title
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
