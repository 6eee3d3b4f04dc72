package compiler

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// ErrNotInstalled is returned by Locate when the compiler package cannot be
// found in the dependency directory or any directory above it.
var ErrNotInstalled = errors.New("compiler not installed")

// Locate acquires the compiler package name. It is looked up in nodeModules
// first and then in the node_modules directory of every ancestor, so a
// package hoisted to a workspace root is found. The first package.json found
// decides: it must carry a version, and its main file must exist when one is
// declared.
func Locate(fs afero.Fs, nodeModules, name string) (Compiler, error) {
	for _, dir := range packageDirs(nodeModules, name) {
		data, err := afero.ReadFile(fs, filepath.Join(dir, "package.json"))
		if err != nil {
			continue
		}
		return load(fs, dir, name, data)
	}
	return nil, fmt.Errorf("%w: %s: not found from %s", ErrNotInstalled, name, nodeModules)
}

// packageDirs lists the candidate package directories, nearest first.
// Directories that are themselves named node_modules get no nested lookup.
func packageDirs(nodeModules, name string) []string {
	pkg := filepath.FromSlash(name)
	dirs := []string{filepath.Join(nodeModules, pkg)}
	for d := filepath.Dir(filepath.Dir(nodeModules)); ; {
		if filepath.Base(d) != "node_modules" {
			candidate := filepath.Join(d, "node_modules", pkg)
			if candidate != dirs[0] {
				dirs = append(dirs, candidate)
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return dirs
}

func load(fs afero.Fs, dir, name string, data []byte) (Compiler, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: invalid package.json", ErrNotInstalled, name)
	}

	version := gjson.GetBytes(data, "version").String()
	if version == "" {
		return nil, fmt.Errorf("%w: %s: package.json has no version", ErrNotInstalled, name)
	}

	if main := gjson.GetBytes(data, "main").String(); main != "" {
		if exists, _ := afero.Exists(fs, filepath.Join(dir, filepath.FromSlash(main))); !exists {
			return nil, fmt.Errorf("%w: %s: missing entry point %s", ErrNotInstalled, name, main)
		}
	}

	return NewTypeScript(fs, name, version, dir), nil
}
