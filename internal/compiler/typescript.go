package compiler

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/afero"

	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// TypeScript is the built-in compiler. It converts configuration trees the
// way the TypeScript package does, without type checking anything.
type TypeScript struct {
	fs       afero.Fs
	name     string
	version  string
	dir      string
	cwd      string
	resolver *tsconfig.Resolver
}

// NewTypeScript creates a compiler reading configuration files from fs.
// dir is the installed package directory, informational only.
func NewTypeScript(fs afero.Fs, name, version, dir string) *TypeScript {
	cwd, _ := os.Getwd()
	return &TypeScript{
		fs:       fs,
		name:     name,
		version:  version,
		dir:      dir,
		cwd:      cwd,
		resolver: tsconfig.NewResolver(fs),
	}
}

// Name implements Compiler.
func (t *TypeScript) Name() string { return t.name }

// Version implements Compiler.
func (t *TypeScript) Version() string { return t.version }

// Dir returns the installed package directory.
func (t *TypeScript) Dir() string { return t.dir }

// ReadConfigFile implements Compiler.
func (t *TypeScript) ReadConfigFile(path string) (tsconfig.Tree, *Diagnostic) {
	data, err := afero.ReadFile(t.fs, path)
	if err != nil {
		return nil, &Diagnostic{
			Code:     CodeCannotRead,
			Category: CategoryError,
			Message:  fmt.Sprintf("Cannot read file '%s'.", path),
			File:     path,
			Cause:    &tsconfig.Error{Kind: tsconfig.KindNotFound, Path: path, Offset: -1, Err: err},
		}
	}

	tree, err := tsconfig.Parse(data, path)
	if err != nil {
		d := t.errorDiagnostic(err, path)
		var cfgErr *tsconfig.Error
		if errors.As(err, &cfgErr) && cfgErr.Offset >= 0 {
			d.Line, d.Column = lineColumn(data, cfgErr.Offset)
		}
		return nil, &d
	}
	return tree, nil
}

// ParseConfig implements Compiler. The extends chain is followed relative to
// configPath; tree itself is never modified.
func (t *TypeScript) ParseConfig(tree tsconfig.Tree, basePath, configPath string) ParseResult {
	result := ParseResult{Options: Options{}, Tree: tsconfig.Clone(tree)}

	if ref, ok := tree[tsconfig.KeyExtends]; ok {
		if s, isString := ref.(string); !isString || strings.TrimSpace(s) == "" {
			result.Errors = append(result.Errors, wrongType(tsconfig.KeyExtends, "string", configPath))
			return result
		}
	}

	resolved, _, err := t.resolver.ResolveTree(tree, configPath)
	if err != nil {
		result.Errors = append(result.Errors, t.errorDiagnostic(err, configPath))
		return result
	}

	// Inherited file lists show up on the returned tree, compiler options
	// do not.
	for _, key := range []string{tsconfig.KeyInclude, tsconfig.KeyExclude, tsconfig.KeyFiles} {
		value, ok := resolved[key]
		if !ok || value == nil {
			continue
		}
		if _, isList := resolved.StringList(key); !isList {
			result.Errors = append(result.Errors, wrongType(key, "Array", configPath))
			continue
		}
		if !result.Tree.Has(key) {
			result.Tree[key] = tsconfig.Normalize(value)
		}
	}

	raw, ok := resolved[tsconfig.KeyCompilerOptions]
	if !ok || raw == nil {
		return result
	}
	opts, isTree := tsconfig.AsTree(raw)
	if !isTree {
		result.Errors = append(result.Errors, wrongType(tsconfig.KeyCompilerOptions, "object", configPath))
		return result
	}

	for _, name := range opts.Keys() {
		value, diag := convertOption(name, opts[name], configPath)
		if diag != nil {
			result.Errors = append(result.Errors, *diag)
			continue
		}
		if value != nil {
			result.Options[name] = value
		}
	}
	return result
}

// FormatDiagnostic implements Compiler.
func (t *TypeScript) FormatDiagnostic(d Diagnostic) string {
	return formatDiagnostic(d, t.cwd, tsconfig.EOL)
}

func (t *TypeScript) errorDiagnostic(err error, path string) Diagnostic {
	d := Diagnostic{Category: CategoryError, File: path, Cause: err}

	var cfgErr *tsconfig.Error
	if !errors.As(err, &cfgErr) {
		d.Code = CodeCannotRead
		d.Message = err.Error()
		return d
	}
	if cfgErr.Path != "" {
		d.File = cfgErr.Path
	}
	switch cfgErr.Kind {
	case tsconfig.KindNotFound:
		d.Code = CodeCannotRead
		d.Message = fmt.Sprintf("Cannot read file '%s'.", cfgErr.Path)
		if cfgErr.Message != "" {
			d.Message = cfgErr.Message
		}
	case tsconfig.KindCycle:
		d.Code = CodeCircularExtends
		d.Message = fmt.Sprintf("Circularity detected while resolving configuration: %s",
			strings.Join(cfgErr.Chain, " -> "))
	default:
		d.Code = CodeSyntax
		d.Message = cfgErr.Error()
	}
	return d
}

// convertOption validates value against the declaration of option name.
// A nil value converts to nil without a diagnostic.
func convertOption(name string, value any, file string) (any, *Diagnostic) {
	decl, ok := lookupOption(name)
	if !ok {
		d := unknownOption(name, file)
		return nil, &d
	}
	if value == nil {
		return nil, nil
	}

	switch decl.kind {
	case kindBoolean:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case kindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case kindNumber:
		if n, ok := value.(float64); ok {
			return n, nil
		}
	case kindObject:
		if obj, ok := tsconfig.AsTree(value); ok {
			return tsconfig.Clone(obj), nil
		}
	case kindAny:
		return tsconfig.Normalize(value), nil
	case kindEnum:
		s, ok := value.(string)
		if !ok {
			break
		}
		if converted, ok := decl.convertEnum(s); ok {
			return converted, nil
		}
		d := invalidEnum(decl, file)
		return nil, &d
	case kindList:
		items, ok := value.([]any)
		if !ok {
			break
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				d := wrongType(name, "Array", file)
				return nil, &d
			}
			if decl.values == nil {
				out = append(out, s)
				continue
			}
			converted, ok := decl.convertEnum(s)
			if !ok {
				d := invalidEnum(decl, file)
				return nil, &d
			}
			out = append(out, converted.(string))
		}
		return out, nil
	}

	d := wrongType(name, decl.kind.String(), file)
	return nil, &d
}

func wrongType(name, typ, file string) Diagnostic {
	return Diagnostic{
		Code:     CodeWrongType,
		Category: CategoryError,
		Message:  fmt.Sprintf("Compiler option '%s' requires a value of type %s.", name, typ),
		File:     file,
	}
}

func invalidEnum(decl optionDecl, file string) Diagnostic {
	return Diagnostic{
		Code:     CodeInvalidEnum,
		Category: CategoryError,
		Message: fmt.Sprintf("Argument for '--%s' option must be: %s.",
			decl.name, strings.Join(decl.enumNames(), ", ")),
		File: file,
	}
}

func unknownOption(name, file string) Diagnostic {
	d := Diagnostic{
		Code:     CodeUnknownOption,
		Category: CategoryError,
		Message:  fmt.Sprintf("Unknown compiler option '%s'.", name),
		File:     file,
	}
	if suggestion := spellingSuggestion(name, optionNames()); suggestion != "" {
		d.Code = CodeUnknownOptionHint
		d.Message = fmt.Sprintf("Unknown compiler option '%s'. Did you mean '%s'?", name, suggestion)
	}
	return d
}

// spellingSuggestion picks the candidate closest to name. A case-insensitive
// match wins outright; otherwise the edit distance must stay below a third of
// the name's length (at least two).
func spellingSuggestion(name string, candidates []string) string {
	lower := strings.ToLower(name)
	maxDistance := int(math.Max(2, math.Floor(float64(len(name))*0.34)))

	best, bestDistance := "", maxDistance+1
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		candidateLower := strings.ToLower(candidate)
		if candidateLower == lower {
			return candidate
		}
		if abs(len(candidate)-len(name)) > maxDistance {
			continue
		}
		if distance := levenshtein.ComputeDistance(lower, candidateLower); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
