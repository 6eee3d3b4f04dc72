package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Settings configures where the verifier looks for things. Paths are
// relative to the application directory.
type Settings struct {
	SrcDir         string `json:"srcDir,omitempty" yaml:"src_dir"`
	TSConfig       string `json:"tsconfig,omitempty" yaml:"tsconfig"`
	Declarations   string `json:"declarations,omitempty" yaml:"declarations"`
	TypesReference string `json:"typesReference,omitempty" yaml:"types_reference"`
	Compiler       string `json:"compiler,omitempty" yaml:"compiler"`
	NodeModules    string `json:"nodeModules,omitempty" yaml:"node_modules"`
	// DebounceMS is the quiet period watch mode waits for before re-running.
	DebounceMS int `json:"debounceMs,omitempty" yaml:"debounce_ms"`
}

// Default returns the settings of a standard React application.
func Default() *Settings {
	return &Settings{
		SrcDir:         "src",
		TSConfig:       "tsconfig.json",
		Declarations:   filepath.Join("src", "react-app-env.d.ts"),
		TypesReference: "react-scripts",
		Compiler:       "typescript",
		NodeModules:    "node_modules",
		DebounceMS:     200,
	}
}

// File names searched for in the application directory, first match wins.
var settingsFiles = []string{"tsverify.json", "tsverify.jsonc", "tsverify.yaml", "tsverify.yml"}

// Load loads settings from multiple sources (priority order):
// 1. Defaults
// 2. The first tsverify.{json,jsonc,yaml,yml} found in directory
// 3. TSVERIFY_* environment variables, including those from .env files
//
// .env and .env.local in directory are loaded into the environment first.
// Variables that are already set are not overridden.
func Load(directory string) (*Settings, error) {
	settings := Default()

	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(directory, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	for _, name := range settingsFiles {
		path := filepath.Join(directory, name)
		loaded, err := loadSettingsFile(path, settings)
		if err != nil {
			return nil, err
		}
		if loaded {
			break
		}
	}

	if err := applyEnvOverrides(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// loadSettingsFile merges the file at path into settings. It reports false
// when the file does not exist.
func loadSettingsFile(path string, settings *Settings) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fileSettings Settings
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileSettings)
	default:
		// Strip JSONC comments using tidwall/jsonc
		err = json.Unmarshal(jsonc.ToJSON(data), &fileSettings)
	}
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	mergeSettings(settings, &fileSettings)
	return true, nil
}

// mergeSettings copies the non-zero fields of source into target.
func mergeSettings(target, source *Settings) {
	if source.SrcDir != "" {
		target.SrcDir = source.SrcDir
	}
	if source.TSConfig != "" {
		target.TSConfig = source.TSConfig
	}
	if source.Declarations != "" {
		target.Declarations = source.Declarations
	}
	if source.TypesReference != "" {
		target.TypesReference = source.TypesReference
	}
	if source.Compiler != "" {
		target.Compiler = source.Compiler
	}
	if source.NodeModules != "" {
		target.NodeModules = source.NodeModules
	}
	if source.DebounceMS > 0 {
		target.DebounceMS = source.DebounceMS
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(settings *Settings) error {
	overrides := map[string]*string{
		"TSVERIFY_SRC_DIR":         &settings.SrcDir,
		"TSVERIFY_TSCONFIG":        &settings.TSConfig,
		"TSVERIFY_DECLARATIONS":    &settings.Declarations,
		"TSVERIFY_TYPES_REFERENCE": &settings.TypesReference,
		"TSVERIFY_COMPILER":        &settings.Compiler,
		"TSVERIFY_NODE_MODULES":    &settings.NodeModules,
	}
	for env, field := range overrides {
		if value := os.Getenv(env); value != "" {
			*field = value
		}
	}

	if value := os.Getenv("TSVERIFY_DEBOUNCE_MS"); value != "" {
		ms, err := strconv.Atoi(value)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid TSVERIFY_DEBOUNCE_MS %q", value)
		}
		settings.DebounceMS = ms
	}
	return nil
}
