package config

// StorageBackend selects where the user catalog is persisted.
type StorageBackend string

const (
	BackendSQLite StorageBackend = "sqlite"
	BackendFile   StorageBackend = "file"
	BackendMemory StorageBackend = "memory"
)

// Config is the top-level portal configuration, corresponding to .apiportal.yml.
type Config struct {
	SiteName       string        `yaml:"site_name" koanf:"site_name"`
	SupportURL     string        `yaml:"support_url" koanf:"support_url"`
	PrimaryColor   string        `yaml:"primary_color" koanf:"primary_color"`
	SecondaryColor string        `yaml:"secondary_color" koanf:"secondary_color"`
	Description    string        `yaml:"description,omitempty" koanf:"description"`
	CatalogFile    string        `yaml:"catalog_file,omitempty" koanf:"catalog_file"` // replaces the built-in catalog
	Storage        StorageConfig `yaml:"storage" koanf:"storage"`
	Server         ServerConfig  `yaml:"server" koanf:"server"`
}

// StorageConfig holds persistent store settings.
type StorageConfig struct {
	Backend StorageBackend `yaml:"backend" koanf:"backend"`
	Path    string         `yaml:"path,omitempty" koanf:"path"` // db file for sqlite, directory for file
	Key     string         `yaml:"key" koanf:"key"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
