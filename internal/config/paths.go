// Package config provides settings loading and path management.
package config

import (
	"path/filepath"
)

// Paths contains the absolute locations the verifier reads and writes.
type Paths struct {
	AppPath             string // application root
	AppSrc              string // <root>/src
	AppTSConfig         string // <root>/tsconfig.json
	AppTypeDeclarations string // <root>/src/react-app-env.d.ts
	AppNodeModules      string // <root>/node_modules
	YarnLockFile        string // <root>/yarn.lock
}

// GetPaths returns the paths of the application in appDir.
func GetPaths(appDir string, settings *Settings) (Paths, error) {
	if settings == nil {
		settings = Default()
	}
	root, err := filepath.Abs(appDir)
	if err != nil {
		return Paths{}, err
	}
	return Paths{
		AppPath:             root,
		AppSrc:              resolve(root, settings.SrcDir),
		AppTSConfig:         resolve(root, settings.TSConfig),
		AppTypeDeclarations: resolve(root, settings.Declarations),
		AppNodeModules:      resolve(root, settings.NodeModules),
		YarnLockFile:        filepath.Join(root, "yarn.lock"),
	}, nil
}

// TSConfigName is the configuration file name used in messages.
func (p Paths) TSConfigName() string {
	return filepath.Base(p.AppTSConfig)
}

// SrcRel is the source directory relative to the directory holding the
// configuration file, slash separated. This is the form include takes.
func (p Paths) SrcRel() string {
	rel, err := filepath.Rel(filepath.Dir(p.AppTSConfig), p.AppSrc)
	if err != nil {
		return filepath.ToSlash(p.AppSrc)
	}
	return filepath.ToSlash(rel)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
