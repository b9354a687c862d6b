package config

// Logger is the logging surface the config service needs
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}

// Service defines the interface for configuration loading
type Service interface {
	Load(path string) (*Config, error)
}
