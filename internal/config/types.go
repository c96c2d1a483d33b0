package config

// SectionConfig maps a dashboard section to the backend endpoint that feeds it.
// An empty Endpoint marks a section served locally by the dashboard itself.
type SectionConfig struct {
	Name     string `yaml:"name" koanf:"name"`
	Title    string `yaml:"title" koanf:"title"`
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`
}

// Config is the top-level hydradash configuration, corresponding to .hydradash.yml.
type Config struct {
	BackendURL      string          `yaml:"backend_url" koanf:"backend_url"`
	Port            int             `yaml:"port" koanf:"port"`
	DefaultSection  string          `yaml:"default_section" koanf:"default_section"`
	Sections        []SectionConfig `yaml:"sections" koanf:"sections"`
	UploadBase      string          `yaml:"upload_base" koanf:"upload_base"`
	StagesBase      string          `yaml:"stages_base" koanf:"stages_base"`
	ControlBase     string          `yaml:"control_base" koanf:"control_base"`
	ArchivePatterns []string        `yaml:"archive_patterns" koanf:"archive_patterns"`
	DataDir         string          `yaml:"data_dir" koanf:"data_dir"`
	HistoryLimit    int             `yaml:"history_limit" koanf:"history_limit"`
	RequestTimeout  int             `yaml:"request_timeout_sec" koanf:"request_timeout_sec"`
	AllowAllOrigins bool            `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Section returns the configured section with the given name.
func (c *Config) Section(name string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionConfig{}, false
}
