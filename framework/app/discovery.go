package app

import (
	"os"
	"path/filepath"
	"strings"
)

// Config file discovery order, relative to the working directory.
var configSearchPaths = []string{
	filepath.Join("config", "application.yaml"),
	filepath.Join("config", "application.yml"),
	"application.yaml",
	"application.yml",
}

func discoverConfigFile() (string, bool) {
	for _, path := range configSearchPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// profileOverlayPaths derives the overlay candidates for a profile from the
// base file paths: config/application.yaml with profile "dev" yields
// config/application-dev.yaml. With no base file the default names are
// tried in the working directory.
func profileOverlayPaths(baseFiles []string, profile string) []string {
	if len(baseFiles) == 0 {
		return []string{
			filepath.Join("config", "application-"+profile+".yaml"),
			"application-" + profile + ".yaml",
		}
	}
	out := make([]string, 0, len(baseFiles))
	for _, base := range baseFiles {
		dir := filepath.Dir(base)
		name := filepath.Base(base)
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		out = append(out, filepath.Join(dir, stem+"-"+profile+ext))
	}
	return out
}

func splitProfiles(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
