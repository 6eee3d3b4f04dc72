package compiler

import (
	"sort"
	"strings"
)

// optionKind is the JSON shape an option accepts.
type optionKind int

const (
	kindBoolean optionKind = iota
	kindString
	kindNumber
	kindObject
	kindList
	kindEnum
	kindAny
)

func (k optionKind) String() string {
	switch k {
	case kindBoolean:
		return "boolean"
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindObject:
		return "object"
	case kindList:
		return "Array"
	default:
		return "string"
	}
}

// optionDecl describes one compiler option.
type optionDecl struct {
	name string
	kind optionKind
	// values holds the accepted spellings of an enum option, or of each
	// element of an enum list. nil means any string.
	values []enumEntry
}

// convertEnum maps s onto decl's enum values, ignoring case.
func (d optionDecl) convertEnum(s string) (any, bool) {
	lower := strings.ToLower(s)
	for _, entry := range d.values {
		if entry.name == lower {
			return entry.value, true
		}
	}
	return nil, false
}

func (d optionDecl) enumNames() []string {
	names := make([]string, len(d.values))
	for i, entry := range d.values {
		names[i] = "'" + entry.name + "'"
	}
	return names
}

var optionDecls = func() map[string]optionDecl {
	decls := map[string]optionDecl{}
	add := func(kind optionKind, names ...string) {
		for _, name := range names {
			decls[name] = optionDecl{name: name, kind: kind}
		}
	}

	add(kindBoolean,
		"allowArbitraryExtensions", "allowImportingTsExtensions", "allowJs",
		"allowSyntheticDefaultImports", "allowUmdGlobalAccess", "allowUnreachableCode",
		"allowUnusedLabels", "alwaysStrict", "checkJs", "composite", "declaration",
		"declarationMap", "disableSizeLimit", "downlevelIteration", "emitDeclarationOnly",
		"emitDecoratorMetadata", "esModuleInterop", "exactOptionalPropertyTypes",
		"experimentalDecorators", "extendedDiagnostics", "forceConsistentCasingInFileNames",
		"importHelpers", "incremental", "inlineSourceMap", "inlineSources",
		"isolatedDeclarations", "isolatedModules", "listEmittedFiles", "listFiles",
		"noEmit", "noEmitHelpers", "noEmitOnError", "noErrorTruncation",
		"noFallthroughCasesInSwitch", "noImplicitAny", "noImplicitOverride",
		"noImplicitReturns", "noImplicitThis", "noLib", "noPropertyAccessFromIndexSignature",
		"noResolve", "noUncheckedIndexedAccess", "noUnusedLocals", "noUnusedParameters",
		"preserveConstEnums", "preserveSymlinks", "preserveWatchOutput", "pretty",
		"removeComments", "resolveJsonModule", "resolvePackageJsonExports",
		"resolvePackageJsonImports", "skipDefaultLibCheck", "skipLibCheck", "sourceMap",
		"strict", "strictBindCallApply", "strictBuiltinIteratorReturn", "strictFunctionTypes",
		"strictNullChecks", "strictPropertyInitialization", "stripInternal",
		"traceResolution", "useDefineForClassFields", "useUnknownInCatchVariables",
		"verbatimModuleSyntax",
	)
	add(kindString,
		"baseUrl", "charset", "declarationDir", "jsxFactory", "jsxFragmentFactory",
		"jsxImportSource", "mapRoot", "moduleDetection", "outDir", "outFile",
		"reactNamespace", "rootDir", "sourceRoot", "tsBuildInfoFile",
	)
	add(kindNumber, "maxNodeModuleJsDepth")
	add(kindObject, "paths")
	add(kindList, "customConditions", "moduleSuffixes", "rootDirs", "typeRoots", "types")
	add(kindAny, "plugins")

	decls["lib"] = optionDecl{name: "lib", kind: kindList, values: libValues}
	decls["target"] = optionDecl{name: "target", kind: kindEnum, values: targetValues}
	decls["module"] = optionDecl{name: "module", kind: kindEnum, values: moduleValues}
	decls["moduleResolution"] = optionDecl{name: "moduleResolution", kind: kindEnum, values: moduleResolutionValues}
	decls["jsx"] = optionDecl{name: "jsx", kind: kindEnum, values: jsxValues}
	decls["newLine"] = optionDecl{name: "newLine", kind: kindEnum, values: newLineValues}
	return decls
}()

// lookupOption finds an option declaration by exact name.
func lookupOption(name string) (optionDecl, bool) {
	decl, ok := optionDecls[name]
	return decl, ok
}

// optionNames returns all declared option names, sorted.
func optionNames() []string {
	names := make([]string, 0, len(optionDecls))
	for name := range optionDecls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
