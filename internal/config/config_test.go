package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the TSVERIFY_* variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"TSVERIFY_SRC_DIR", "TSVERIFY_TSCONFIG", "TSVERIFY_DECLARATIONS",
		"TSVERIFY_TYPES_REFERENCE", "TSVERIFY_COMPILER", "TSVERIFY_NODE_MODULES",
		"TSVERIFY_DEBOUNCE_MS",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
}

func TestLoad_SettingsFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "jsonc",
			file: "tsverify.jsonc",
			content: `{
				// custom layout
				"srcDir": "app",
				"compiler": "typescript-next",
			}`,
		},
		{
			name:    "yaml",
			file:    "tsverify.yaml",
			content: "src_dir: app\ncompiler: typescript-next\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0644))

			settings, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, "app", settings.SrcDir)
			assert.Equal(t, "typescript-next", settings.Compiler)
			assert.Equal(t, "tsconfig.json", settings.TSConfig)
			assert.Equal(t, 200, settings.DebounceMS)
		})
	}
}

func TestLoad_FirstFileWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsverify.json"), []byte(`{"srcDir": "from-json"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsverify.yml"), []byte("src_dir: from-yaml\n"), 0644))

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-json", settings.SrcDir)
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsverify.json"), []byte(`{"srcDir": `), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsverify.json"), []byte(`{"srcDir": "app"}`), 0644))

	t.Setenv("TSVERIFY_SRC_DIR", "lib")
	t.Setenv("TSVERIFY_TSCONFIG", "tsconfig.app.json")
	t.Setenv("TSVERIFY_DEBOUNCE_MS", "50")

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "lib", settings.SrcDir)
	assert.Equal(t, "tsconfig.app.json", settings.TSConfig)
	assert.Equal(t, 50, settings.DebounceMS)
}

func TestLoad_InvalidDebounce(t *testing.T) {
	clearEnv(t)
	t.Setenv("TSVERIFY_DEBOUNCE_MS", "soon")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TSVERIFY_SRC_DIR=from-env\nTSVERIFY_COMPILER=from-env\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("TSVERIFY_SRC_DIR=from-local\n"), 0644))

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-local", settings.SrcDir)
	assert.Equal(t, "from-env", settings.Compiler)
}

func TestGetPaths(t *testing.T) {
	root := t.TempDir()
	settings := Default()

	paths, err := GetPaths(root, settings)
	require.NoError(t, err)
	assert.Equal(t, root, paths.AppPath)
	assert.Equal(t, filepath.Join(root, "src"), paths.AppSrc)
	assert.Equal(t, filepath.Join(root, "tsconfig.json"), paths.AppTSConfig)
	assert.Equal(t, filepath.Join(root, "src", "react-app-env.d.ts"), paths.AppTypeDeclarations)
	assert.Equal(t, filepath.Join(root, "node_modules"), paths.AppNodeModules)
	assert.Equal(t, filepath.Join(root, "yarn.lock"), paths.YarnLockFile)
	assert.Equal(t, "tsconfig.json", paths.TSConfigName())
	assert.Equal(t, "src", paths.SrcRel())

	settings.TSConfig = filepath.Join("config", "tsconfig.json")
	paths, err = GetPaths(root, settings)
	require.NoError(t, err)
	assert.Equal(t, "../src", paths.SrcRel())
}
