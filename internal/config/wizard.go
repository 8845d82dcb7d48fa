package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to the API portal! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Branding.
	name, err := (&promptui.Prompt{
		Label:    "Site name",
		Default:  cfg.SiteName,
		Validate: required("site name"),
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("site name: %w", err)
	}
	cfg.SiteName = name

	support, err := (&promptui.Prompt{
		Label:   "Support URL",
		Default: cfg.SupportURL,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("support url: %w", err)
	}
	cfg.SupportURL = support

	primary, err := (&promptui.Prompt{
		Label:    "Primary color",
		Default:  cfg.PrimaryColor,
		Validate: color,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("primary color: %w", err)
	}
	cfg.PrimaryColor = primary

	secondary, err := (&promptui.Prompt{
		Label:    "Secondary color",
		Default:  cfg.SecondaryColor,
		Validate: color,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("secondary color: %w", err)
	}
	cfg.SecondaryColor = secondary

	// 2. Storage backend.
	backendPrompt := promptui.Select{
		Label: "Where should user-added APIs be stored",
		Items: []string{
			"sqlite - single database file",
			"file   - one JSON file per key",
			"memory - nothing survives a restart",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	backends := []StorageBackend{BackendSQLite, BackendFile, BackendMemory}
	cfg.Storage.Backend = backends[backendIdx]

	// 3. Port.
	portStr, err := (&promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: port,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func required(what string) promptui.ValidateFunc {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func color(s string) error {
	if !hexColor.MatchString(s) {
		return errors.New("use a hex color such as #1e2939")
	}
	return nil
}

func port(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return errors.New("port must be a number between 0 and 65535")
	}
	return nil
}
