package config

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = ".apiportal.yml"

// Default storage locations, relative to the working directory.
const (
	DefaultSQLitePath = ".apiportal/portal.db"
	DefaultFileDir    = ".apiportal/store"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteName:       "API Portal",
		SupportURL:     "https://github.com/vzsoares/openapi-swagger-portal",
		PrimaryColor:   "#1e2939",
		SecondaryColor: "#193cb8",
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     "api-portal-custom-schemas",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// StoragePath returns the configured storage path, or the default for the
// backend when none is set.
func (s StorageConfig) StoragePath() string {
	if s.Path != "" {
		return s.Path
	}
	switch s.Backend {
	case BackendFile:
		return DefaultFileDir
	case BackendMemory:
		return ""
	default:
		return DefaultSQLitePath
	}
}
