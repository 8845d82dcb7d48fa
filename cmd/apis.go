package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/importers"
	"github.com/ziadkadry99/api-portal/internal/progress"
	"github.com/ziadkadry99/api-portal/internal/registry"
)

var apisCmd = &cobra.Command{
	Use:   "apis",
	Short: "List and manage the APIs in the catalog",
}

var apisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every domain and API in the catalog",
	RunE:  runAPIsList,
}

var apisAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an API by URL (--url) or from a document file (--file, - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIsAdd,
}

var apisRemoveCmd = &cobra.Command{
	Use:   "remove <domain> <name>",
	Short: "Remove an API from a user-defined domain",
	Args:  cobra.ExactArgs(2),
	RunE:  runAPIsRemove,
}

var apisImportCmd = &cobra.Command{
	Use:   "import <glob>",
	Short: "Add every spec file matching a glob (e.g. 'specs/**/*.{json,yaml}')",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIsImport,
}

func init() {
	apisAddCmd.Flags().String("domain", "", "Domain to add to (default \"Custom APIs\")")
	apisAddCmd.Flags().String("url", "", "URL of the specification")
	apisAddCmd.Flags().String("file", "", "Path of a JSON or YAML document to paste, - for stdin")

	apisRemoveCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	apisImportCmd.Flags().String("domain", "", "Domain to import into (default \"Custom APIs\")")

	apisCmd.AddCommand(apisListCmd)
	apisCmd.AddCommand(apisAddCmd)
	apisCmd.AddCommand(apisRemoveCmd)
	apisCmd.AddCommand(apisImportCmd)
	rootCmd.AddCommand(apisCmd)
}

func runAPIsList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	writeCatalog(cmd.OutOrStdout(), a.builder.Build(context.Background()), len(a.builder.Builtin()))
	return nil
}

// writeCatalog prints one row per API; user domains are marked custom.
func writeCatalog(out io.Writer, cat catalog.Catalog, builtin int) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tAPI\tORIGIN\tLOCATION")
	for i, d := range cat {
		domain := d.Name
		if i >= builtin {
			domain += " (custom)"
		}
		if len(d.APIs) == 0 {
			fmt.Fprintf(w, "%s\t-\t-\t-\n", domain)
		}
		for _, api := range d.APIs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", domain, api.Name, api.Origin(), api.Location)
		}
	}
	w.Flush()
}

func runAPIsAdd(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")
	url, _ := cmd.Flags().GetString("url")
	file, _ := cmd.Flags().GetString("file")

	if url == "" && file == "" {
		return fmt.Errorf("either --url or --file is required")
	}
	if url != "" && file != "" {
		return fmt.Errorf("specify either --url or --file, not both")
	}

	req := registry.AddRequest{DomainName: domain, APIName: args[0], Mode: registry.ModeURL, URL: url}
	if file != "" {
		doc, err := readDocument(cmd.InOrStdin(), file)
		if err != nil {
			return err
		}
		req.Mode = registry.ModeDocument
		req.Document = doc
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cat, err := a.mutator.Add(context.Background(), req)
	if err != nil {
		return err
	}
	if req.DomainName == "" {
		req.DomainName = catalog.DefaultDomainName
	}
	d, _ := cat.Domain(req.DomainName)
	api, _ := d.API(req.APIName)
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %q (%s)\n", api.Name, req.DomainName, api.Location)
	return nil
}

func readDocument(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

func runAPIsRemove(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if !a.mutator.IsCustomDomain(ctx, args[0]) {
		return fmt.Errorf("%q is not a user-defined domain", args[0])
	}

	confirm := registry.Confirmed
	if !yes {
		confirm = registry.ConfirmFunc(promptConfirm)
	}
	_, removed, err := a.mutator.Remove(ctx, args[0], args[1], confirm)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing removed.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %q\n", args[1], args[0])
	return nil
}

// promptConfirm asks a yes/no question; anything but yes declines.
func promptConfirm(label string) bool {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if !errors.Is(err, promptui.ErrAbort) {
			fmt.Fprintf(os.Stderr, "prompt: %v\n", err)
		}
		return false
	}
	return true
}

func runAPIsImport(cmd *cobra.Command, args []string) error {
	domain, _ := cmd.Flags().GetString("domain")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	im := importers.NewImporter(a.mutator, progress.NewReporter(), a.logger.Named("import"))
	res, err := im.Import(context.Background(), args[0], domain)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d files into %q\n", res.Imported, res.Found, res.Domain)
	return nil
}
