package main

import (
	"os"
	"path/filepath"
	"strings"
)

// appName is the single source of truth for the application name. Derived
// identifiers (env var names, default paths) are computed from it.
const appName = "recipeflow"

// Derived env var names, computed once at init from appName.
var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envLogDir    = strings.ToUpper(appName) + "_LOG_DIR"
)

// resolveLogDir returns the directory run writes its log file into.
// Priority: --log-dir flag > $RECIPEFLOW_LOG_DIR > "logs".
func resolveLogDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envLogDir); v != "" {
		return v
	}
	return "logs"
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $RECIPEFLOW_CONFIG_DIR > $XDG_CONFIG_HOME/recipeflow > ~/.config/recipeflow.
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// envConfig materializes a config dictionary from the process environment:
// every variable named in envVars, if set, becomes a config entry keyed by
// its own name. This is the external "config loader" core spec §6.4
// treats as opaque to the executor.
func envConfig(envVars []string) map[string]any {
	config := make(map[string]any, len(envVars))
	for _, name := range envVars {
		if v, ok := os.LookupEnv(name); ok {
			config[name] = v
		}
	}
	return config
}

// parseKeyValue splits a repeatable --context/--config KEY=VALUE flag.
func parseKeyValue(s string) (key, value string, ok bool) {
	idx := strings.IndexByte(s, '=')
	if idx <= 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
