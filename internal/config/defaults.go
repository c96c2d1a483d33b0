package config

// DefaultSections is the route table of the stock Hydra admin service.
var DefaultSections = []SectionConfig{
	{Name: "status", Title: "Status", Endpoint: "/hydra"},
	{Name: "stagegroups", Title: "Stage groups", Endpoint: "/hydra/stagegroups"},
	{Name: "libraries", Title: "Libraries", Endpoint: "/hydra/libraries"},
	{Name: "documents", Title: "Documents", Endpoint: "/hydra/documents"},
	{Name: "history", Title: "History"},
}

// DefaultArchivePatterns are the library archive names accepted for upload.
var DefaultArchivePatterns = []string{
	"*.jar",
	"*.zip",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	sections := make([]SectionConfig, len(DefaultSections))
	copy(sections, DefaultSections)

	return &Config{
		BackendURL:      "http://localhost:12002",
		Port:            8080,
		DefaultSection:  "status",
		Sections:        sections,
		UploadBase:      "/hydra/libraries",
		StagesBase:      "/hydra/stages",
		ControlBase:     "api",
		ArchivePatterns: append([]string(nil), DefaultArchivePatterns...),
		DataDir:         ".hydradash",
		HistoryLimit:    50,
		RequestTimeout:  0,
		AllowAllOrigins: false,
	}
}
