package config

// Manifestfile is the structure of the precache.yaml configuration file.
// Omitted keys fall back to the built-in defaults.
type Manifestfile struct {
	Version string   `yaml:"version"`
	Origin  string   `yaml:"origin"`
	Listen  string   `yaml:"listen"`
	Assets  []string `yaml:"assets"`
}

// Environment holds PRECACHE_* variables. Set values override both the
// config file and the built-in defaults.
type Environment struct {
	Version string   `env:"PRECACHE_VERSION"`
	Origin  string   `env:"PRECACHE_ORIGIN"`
	Listen  string   `env:"PRECACHE_LISTEN"`
	Assets  []string `env:"PRECACHE_ASSETS" envSeparator:","`
}
