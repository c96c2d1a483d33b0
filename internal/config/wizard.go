package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to hydradash! Let's point it at your Hydra admin service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend URL.
	backendPrompt := promptui.Prompt{
		Label:   "Hydra admin service URL",
		Default: cfg.BackendURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("enter an absolute URL such as http://localhost:12002")
			}
			return nil
		},
	}
	backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.BackendURL = backend

	// 2. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "Dashboard port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Landing section.
	names := make([]string, 0, len(cfg.Sections))
	for _, s := range cfg.Sections {
		names = append(names, s.Name)
	}
	sectionPrompt := promptui.Select{
		Label: "Section shown when no page is selected",
		Items: names,
	}
	_, section, err := sectionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default section: %w", err)
	}
	cfg.DefaultSection = section

	// 4. Extra archive patterns.
	patternPrompt := promptui.Prompt{
		Label:   "Extra library archive patterns (comma-separated, leave blank for *.jar, *.zip)",
		Default: "",
	}
	patterns, err := patternPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("archive patterns: %w", err)
	}
	if patterns != "" {
		cfg.ArchivePatterns = append(cfg.ArchivePatterns, splitAndTrim(patterns)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			token := trimSpace(s[start:i])
			if token != "" {
				result = append(result, token)
			}
			start = i + 1
		}
	}
	return result
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}
