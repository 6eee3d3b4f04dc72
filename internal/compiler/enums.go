package compiler

// ScriptTarget is the parsed form of the target option.
type ScriptTarget int

const (
	ScriptTargetES3    ScriptTarget = 0
	ScriptTargetES5    ScriptTarget = 1
	ScriptTargetES2015 ScriptTarget = 2
	ScriptTargetES2016 ScriptTarget = 3
	ScriptTargetES2017 ScriptTarget = 4
	ScriptTargetES2018 ScriptTarget = 5
	ScriptTargetES2019 ScriptTarget = 6
	ScriptTargetES2020 ScriptTarget = 7
	ScriptTargetES2021 ScriptTarget = 8
	ScriptTargetES2022 ScriptTarget = 9
	ScriptTargetES2023 ScriptTarget = 10
	ScriptTargetES2024 ScriptTarget = 11
	ScriptTargetESNext ScriptTarget = 99
)

// ModuleKind is the parsed form of the module option.
type ModuleKind int

const (
	ModuleKindNone     ModuleKind = 0
	ModuleKindCommonJS ModuleKind = 1
	ModuleKindAMD      ModuleKind = 2
	ModuleKindUMD      ModuleKind = 3
	ModuleKindSystem   ModuleKind = 4
	ModuleKindES2015   ModuleKind = 5
	ModuleKindES2020   ModuleKind = 6
	ModuleKindES2022   ModuleKind = 7
	ModuleKindESNext   ModuleKind = 99
	ModuleKindNode16   ModuleKind = 100
	ModuleKindNodeNext ModuleKind = 199
	ModuleKindPreserve ModuleKind = 200
)

// ModuleResolutionKind is the parsed form of the moduleResolution option.
type ModuleResolutionKind int

const (
	ModuleResolutionClassic  ModuleResolutionKind = 1
	ModuleResolutionNodeJs   ModuleResolutionKind = 2
	ModuleResolutionNode16   ModuleResolutionKind = 3
	ModuleResolutionNodeNext ModuleResolutionKind = 99
	ModuleResolutionBundler  ModuleResolutionKind = 100
)

// JsxEmit is the parsed form of the jsx option.
type JsxEmit int

const (
	JsxEmitNone        JsxEmit = 0
	JsxEmitPreserve    JsxEmit = 1
	JsxEmitReact       JsxEmit = 2
	JsxEmitReactNative JsxEmit = 3
	JsxEmitReactJSX    JsxEmit = 4
	JsxEmitReactJSXDev JsxEmit = 5
)

// NewLineKind is the parsed form of the newLine option.
type NewLineKind int

const (
	NewLineCRLF NewLineKind = 0
	NewLineLF   NewLineKind = 1
)

// enumEntry pairs an accepted spelling with its constant. Order is the
// order the values are listed in diagnostics.
type enumEntry struct {
	name  string
	value any
}

var targetValues = []enumEntry{
	{"es3", ScriptTargetES3},
	{"es5", ScriptTargetES5},
	{"es6", ScriptTargetES2015},
	{"es2015", ScriptTargetES2015},
	{"es2016", ScriptTargetES2016},
	{"es2017", ScriptTargetES2017},
	{"es2018", ScriptTargetES2018},
	{"es2019", ScriptTargetES2019},
	{"es2020", ScriptTargetES2020},
	{"es2021", ScriptTargetES2021},
	{"es2022", ScriptTargetES2022},
	{"es2023", ScriptTargetES2023},
	{"es2024", ScriptTargetES2024},
	{"esnext", ScriptTargetESNext},
}

var moduleValues = []enumEntry{
	{"none", ModuleKindNone},
	{"commonjs", ModuleKindCommonJS},
	{"amd", ModuleKindAMD},
	{"umd", ModuleKindUMD},
	{"system", ModuleKindSystem},
	{"es6", ModuleKindES2015},
	{"es2015", ModuleKindES2015},
	{"es2020", ModuleKindES2020},
	{"es2022", ModuleKindES2022},
	{"esnext", ModuleKindESNext},
	{"node16", ModuleKindNode16},
	{"nodenext", ModuleKindNodeNext},
	{"preserve", ModuleKindPreserve},
}

var moduleResolutionValues = []enumEntry{
	{"classic", ModuleResolutionClassic},
	{"node", ModuleResolutionNodeJs},
	{"node10", ModuleResolutionNodeJs},
	{"node16", ModuleResolutionNode16},
	{"nodenext", ModuleResolutionNodeNext},
	{"bundler", ModuleResolutionBundler},
}

var jsxValues = []enumEntry{
	{"preserve", JsxEmitPreserve},
	{"react-native", JsxEmitReactNative},
	{"react", JsxEmitReact},
	{"react-jsx", JsxEmitReactJSX},
	{"react-jsxdev", JsxEmitReactJSXDev},
}

var newLineValues = []enumEntry{
	{"crlf", NewLineCRLF},
	{"lf", NewLineLF},
}

// libValues lists the accepted lib names. Each maps to the declaration file
// the compiler loads for it.
var libValues = func() []enumEntry {
	names := []string{
		"es5", "es6", "es2015", "es7", "es2016", "es2017", "es2018", "es2019",
		"es2020", "es2021", "es2022", "es2023", "es2024", "esnext",
		"dom", "dom.iterable", "dom.asynciterable",
		"webworker", "webworker.importscripts", "webworker.iterable", "webworker.asynciterable",
		"scripthost",
		"es2015.core", "es2015.collection", "es2015.generator", "es2015.iterable",
		"es2015.promise", "es2015.proxy", "es2015.reflect", "es2015.symbol",
		"es2015.symbol.wellknown",
		"es2016.array.include", "es2016.intl",
		"es2017.date", "es2017.object", "es2017.sharedmemory", "es2017.string",
		"es2017.intl", "es2017.typedarrays",
		"es2018.asyncgenerator", "es2018.asynciterable", "es2018.intl",
		"es2018.promise", "es2018.regexp",
		"es2019.array", "es2019.object", "es2019.string", "es2019.symbol", "es2019.intl",
		"es2020.bigint", "es2020.date", "es2020.promise", "es2020.sharedmemory",
		"es2020.string", "es2020.symbol.wellknown", "es2020.intl", "es2020.number",
		"es2021.promise", "es2021.string", "es2021.weakref", "es2021.intl",
		"es2022.array", "es2022.error", "es2022.intl", "es2022.object",
		"es2022.string", "es2022.regexp",
		"es2023.array", "es2023.collection",
		"esnext.array", "esnext.symbol", "esnext.asynciterable", "esnext.intl",
		"esnext.disposable", "esnext.bigint", "esnext.string", "esnext.promise",
		"esnext.weakref", "esnext.decorators", "esnext.object", "esnext.collection",
		"decorators", "decorators.legacy",
	}
	aliases := map[string]string{"es6": "es2015", "es7": "es2016"}

	entries := make([]enumEntry, 0, len(names))
	for _, name := range names {
		file := name
		if alias, ok := aliases[name]; ok {
			file = alias
		}
		entries = append(entries, enumEntry{name, "lib." + file + ".d.ts"})
	}
	return entries
}()
