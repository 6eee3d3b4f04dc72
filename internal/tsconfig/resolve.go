package tsconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Resolver follows extends chains on a filesystem.
type Resolver struct {
	Fs afero.Fs
}

// NewResolver creates a resolver backed by fs.
func NewResolver(fs afero.Fs) *Resolver {
	return &Resolver{Fs: fs}
}

// Resolve returns the effective tree for the file at path: every ancestor
// merged under its descendants, with no extends fields left behind.
func (r *Resolver) Resolve(path string) (Tree, error) {
	tree, _, err := r.ResolveChain(path)
	return tree, err
}

// ResolveChain is Resolve that also reports the files of the chain, most
// derived first.
func (r *Resolver) ResolveChain(path string) (Tree, []string, error) {
	abs, err := r.canonical(path)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotFound, Path: path, Offset: -1, Err: err}
	}
	return r.resolve(abs, nil)
}

// ResolveTree resolves an already decoded tree as if it were stored at path.
// The tree is not modified.
func (r *Resolver) ResolveTree(tree Tree, path string) (Tree, []string, error) {
	abs, err := r.canonical(path)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotFound, Path: path, Offset: -1, Err: err}
	}
	return r.resolveTree(Clone(tree), abs, []string{abs})
}

func (r *Resolver) resolve(path string, visiting []string) (Tree, []string, error) {
	for _, seen := range visiting {
		if seen == path {
			chain := append(append([]string(nil), visiting...), path)
			return nil, nil, &Error{Kind: KindCycle, Path: visiting[0], Chain: chain, Offset: -1}
		}
	}
	visiting = append(visiting, path)

	tree, err := Load(r.Fs, path)
	if err != nil {
		return nil, nil, err
	}
	return r.resolveTree(tree, path, visiting)
}

// resolveTree owns tree and may modify it.
func (r *Resolver) resolveTree(tree Tree, path string, visiting []string) (Tree, []string, error) {
	ref, ok := tree[KeyExtends]
	if !ok {
		return tree, []string{path}, nil
	}
	delete(tree, KeyExtends)

	refPath, isString := ref.(string)
	if !isString || strings.TrimSpace(refPath) == "" {
		return nil, nil, &Error{
			Kind:    KindParse,
			Path:    path,
			Message: fmt.Sprintf("%q must be a non-empty string", KeyExtends),
			Offset:  -1,
		}
	}

	parentPath, err := r.locate(filepath.Dir(path), refPath)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotFound, Path: path, Message: err.Error(), Offset: -1, Err: err}
	}
	parentPath, err = r.canonical(parentPath)
	if err != nil {
		return nil, nil, &Error{Kind: KindNotFound, Path: parentPath, Offset: -1, Err: err}
	}

	parent, chain, err := r.resolve(parentPath, visiting)
	if err != nil {
		return nil, nil, err
	}
	return Merge(parent, tree), append([]string{path}, chain...), nil
}

// locate turns an extends reference into a file path. Relative and absolute
// references are anchored at dir. Anything else is tried relative to dir
// first and then as a package under the nearest node_modules directories.
func (r *Resolver) locate(dir, ref string) (string, error) {
	native := filepath.FromSlash(ref)
	if filepath.IsAbs(native) {
		return r.withJSONSuffix(native), nil
	}

	candidate := r.withJSONSuffix(filepath.Join(dir, native))
	if isRelativeRef(ref) || r.isFile(candidate) {
		return candidate, nil
	}

	for d := dir; ; {
		base := filepath.Join(d, "node_modules", native)
		if found, ok := r.packageConfig(base); ok {
			return found, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return "", fmt.Errorf("cannot find base config %q from %s", ref, dir)
}

// packageConfig resolves a node_modules entry to a config file.
func (r *Resolver) packageConfig(base string) (string, bool) {
	if r.isFile(base) {
		return base, true
	}
	if r.isFile(base + ".json") {
		return base + ".json", true
	}
	if !r.isDir(base) {
		return "", false
	}
	if data, err := afero.ReadFile(r.Fs, filepath.Join(base, "package.json")); err == nil {
		if field := gjson.GetBytes(data, "tsconfig"); field.Exists() && field.String() != "" {
			target := filepath.Join(base, filepath.FromSlash(field.String()))
			if r.isFile(target) {
				return target, true
			}
		}
	}
	target := filepath.Join(base, "tsconfig.json")
	return target, r.isFile(target)
}

func (r *Resolver) withJSONSuffix(path string) string {
	if strings.HasSuffix(path, ".json") || r.isFile(path) {
		return path
	}
	return path + ".json"
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.Fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *Resolver) isDir(path string) bool {
	info, err := r.Fs.Stat(path)
	return err == nil && info.IsDir()
}

// canonical returns the absolute, cleaned identity used for cycle checks.
// On the OS filesystem symlinks are resolved as well.
func (r *Resolver) canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, isOS := r.Fs.(*afero.OsFs); isOS {
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			return real, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}
	return abs, nil
}

func isRelativeRef(ref string) bool {
	return ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, `.\`) || strings.HasPrefix(ref, `..\`)
}
