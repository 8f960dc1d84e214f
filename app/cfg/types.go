package cfg

type Cfg struct {
	// HTTP server configuration
	Port string

	// Content API configuration
	APIURL    string
	UserAgent string

	// Application configuration
	ConfigFile string
	Timezone   string
	Debug      bool

	// Application metadata
	Version string
}

// fileCfg is the optional YAML configuration overlay. Values set in the
// file take precedence over environment variables and command-line
// flags; debug is a pointer so an absent key leaves the flag alone.
type fileCfg struct {
	Port      string `yaml:"port"`
	APIURL    string `yaml:"api_url"`
	UserAgent string `yaml:"user_agent"`
	Timezone  string `yaml:"timezone"`
	Debug     *bool  `yaml:"debug"`
}
