package verify_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/opencode-ai/tsverify/internal/config"
	"github.com/opencode-ai/tsverify/internal/event"
	"github.com/opencode-ai/tsverify/internal/tsconfig"
	"github.com/opencode-ai/tsverify/internal/verify"
)

const compilerPackage = `{"name": "typescript", "version": "5.4.5"}`

func newProject(files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for path, content := range files {
		Expect(fs.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
		Expect(afero.WriteFile(fs, path, []byte(content), 0644)).To(Succeed())
	}
	return fs
}

func newVerifier(fs afero.Fs) *verify.Verifier {
	paths, err := config.GetPaths("/app", config.Default())
	Expect(err).NotTo(HaveOccurred())
	return verify.New(fs, paths, config.Default())
}

func readTree(fs afero.Fs, path string) tsconfig.Tree {
	tree, err := tsconfig.Load(fs, path)
	Expect(err).NotTo(HaveOccurred())
	return tree
}

func abortOf(err error) *verify.AbortError {
	var abort *verify.AbortError
	Expect(errors.As(err, &abort)).To(BeTrue(), "expected *AbortError, got %v", err)
	return abort
}

var _ = Describe("Verifier", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("without a configuration file", func() {
		It("does nothing when there are no TypeScript sources", func() {
			fs := newProject(map[string]string{
				"/app/src/index.js":     "",
				"/app/src/types.d.ts":   "",
				"/app/package.json":     `{}`,
				"/app/src/App.test.jsx": "",
			})

			// Any write attempt on a read-only filesystem fails the run.
			result, err := newVerifier(afero.NewReadOnlyFs(fs)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Skipped).To(BeTrue())
			Expect(result.Changes).To(BeEmpty())

			exists, _ := afero.Exists(fs, "/app/tsconfig.json")
			Expect(exists).To(BeFalse())
			exists, _ = afero.Exists(fs, "/app/src/react-app-env.d.ts")
			Expect(exists).To(BeFalse())
		})

		It("populates a new configuration file with defaults", func() {
			fs := newProject(map[string]string{
				"/app/src/index.tsx":                         "",
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			result, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FirstTimeSetup).To(BeTrue())
			Expect(result.DetectedFile).To(Equal(filepath.Join("src", "index.tsx")))
			Expect(result.Written).To(BeTrue())
			Expect(result.Before).To(BeNil())
			Expect(result.Compiler).To(Equal("typescript@5.4.5"))

			Expect(readTree(fs, "/app/tsconfig.json")).To(Equal(tsconfig.Tree{
				"compilerOptions": tsconfig.Tree{
					"target":                           "es5",
					"lib":                              []any{"dom", "dom.iterable", "esnext"},
					"allowJs":                          true,
					"skipLibCheck":                     true,
					"esModuleInterop":                  true,
					"allowSyntheticDefaultImports":     true,
					"strict":                           true,
					"forceConsistentCasingInFileNames": true,
					"noFallthroughCasesInSwitch":       true,
					"module":                           "esnext",
					"moduleResolution":                 "node",
					"resolveJsonModule":                true,
					"isolatedModules":                  true,
					"noEmit":                           true,
					"jsx":                              "preserve",
				},
				"include": []any{"src"},
			}))

			Expect(result.DeclarationsCreated).To(BeTrue())
			declarations, err := afero.ReadFile(fs, "/app/src/react-app-env.d.ts")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(declarations)).To(Equal(`/// <reference types="react-scripts" />` + tsconfig.EOL))
		})

		It("leaves the empty configuration file behind when the compiler is missing", func() {
			fs := newProject(map[string]string{"/app/src/index.ts": ""})

			_, err := newVerifier(fs).Run(ctx)
			Expect(abortOf(err).Kind).To(Equal(verify.AbortMissingCompiler))

			data, err := afero.ReadFile(fs, "/app/tsconfig.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("{}" + tsconfig.EOL))
		})
	})

	Describe("with an existing configuration file", func() {
		It("is idempotent", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         `{"compilerOptions": {"strict": false, "jsx": "react"}}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			})
			v := newVerifier(fs)

			first, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Changes).NotTo(BeEmpty())
			after, err := afero.ReadFile(fs, "/app/tsconfig.json")
			Expect(err).NotTo(HaveOccurred())

			second, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Changes).To(BeEmpty())
			Expect(second.Written).To(BeFalse())
			Expect(second.DeclarationsCreated).To(BeFalse())

			again, err := afero.ReadFile(fs, "/app/tsconfig.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(after))
		})

		It("overwrites required options and keeps the user's suggested ones", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json": `{
					"compilerOptions": {
						"target": "es2017",
						"strict": false,
						"module": "commonjs",
						"jsx": "preserve",
						"baseUrl": ".",
						"paths": {"@/*": ["src/*"]}
					},
					"include": ["src"]
				}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
				"/app/src/react-app-env.d.ts":               "// custom\n",
			})

			result, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FirstTimeSetup).To(BeFalse())
			Expect(result.Changes.Strings()).To(Equal([]string{
				"compilerOptions.lib to be suggested value: dom,dom.iterable,esnext (this can be changed)",
				"compilerOptions.allowJs to be suggested value: true (this can be changed)",
				"compilerOptions.skipLibCheck to be suggested value: true (this can be changed)",
				"compilerOptions.esModuleInterop to be suggested value: true (this can be changed)",
				"compilerOptions.allowSyntheticDefaultImports to be suggested value: true (this can be changed)",
				"compilerOptions.forceConsistentCasingInFileNames to be suggested value: true (this can be changed)",
				"compilerOptions.noFallthroughCasesInSwitch to be suggested value: true (this can be changed)",
				"compilerOptions.module must be esnext (for import() and import/export)",
				"compilerOptions.moduleResolution must be node (to match webpack resolution)",
				"compilerOptions.resolveJsonModule must be true (to match webpack loader)",
				"compilerOptions.isolatedModules must be true (implementation limitation)",
				"compilerOptions.noEmit must be true",
				"compilerOptions.paths must not be set (aliased imports are not supported)",
			}))

			opts := readTree(fs, "/app/tsconfig.json").CompilerOptions()
			Expect(opts["target"]).To(Equal("es2017"))
			Expect(opts["strict"]).To(Equal(false))
			Expect(opts["module"]).To(Equal("esnext"))
			Expect(opts).NotTo(HaveKey("paths"))
			Expect(opts["baseUrl"]).To(Equal("."))

			Expect(result.DeclarationsCreated).To(BeFalse())
			declarations, _ := afero.ReadFile(fs, "/app/src/react-app-env.d.ts")
			Expect(string(declarations)).To(Equal("// custom\n"))
		})

		It("keeps the user's key order and appends new options", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json": `{
  "include": ["src"],
  "compilerOptions": {"strict": false, "jsx": "react", "target": "es2017"}
}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			_, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			data, err := afero.ReadFile(fs, "/app/tsconfig.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(strings.Join([]string{
				"{",
				`  "include": [`,
				`    "src"`,
				"  ],",
				`  "compilerOptions": {`,
				`    "strict": false,`,
				`    "jsx": "preserve",`,
				`    "target": "es2017",`,
				`    "lib": [`,
				`      "dom",`,
				`      "dom.iterable",`,
				`      "esnext"`,
				"    ],",
				`    "allowJs": true,`,
				`    "skipLibCheck": true,`,
				`    "esModuleInterop": true,`,
				`    "allowSyntheticDefaultImports": true,`,
				`    "forceConsistentCasingInFileNames": true,`,
				`    "noFallthroughCasesInSwitch": true,`,
				`    "module": "esnext",`,
				`    "moduleResolution": "node",`,
				`    "resolveJsonModule": true,`,
				`    "isolatedModules": true,`,
				`    "noEmit": true`,
				"  }",
				"}",
			}, tsconfig.EOL) + tsconfig.EOL))
		})

		It("accepts a file starting with a byte order mark", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         "\xEF\xBB\xBF{\"compilerOptions\": {\"jsx\": \"react\"}}",
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			result, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changes.Strings()).To(ContainElement("compilerOptions.jsx must be preserve (JSX is compiled by Babel)"))
		})

		It("treats a file without compilerOptions as first time setup", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         `{"include": ["src"]}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			result, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FirstTimeSetup).To(BeTrue())
			Expect(result.Written).To(BeTrue())
		})

		It("honours options and include inherited through extends", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json": `{"extends": "./config/base.json"}`,
				"/app/config/base.json": `{
					"compilerOptions": {
						"target": "es5", "lib": ["dom", "esnext"], "allowJs": true, "skipLibCheck": true,
						"esModuleInterop": true, "allowSyntheticDefaultImports": true, "strict": true,
						"forceConsistentCasingInFileNames": true, "noFallthroughCasesInSwitch": true,
						"module": "esnext", "moduleResolution": "node", "resolveJsonModule": true,
						"isolatedModules": true, "noEmit": true, "jsx": "preserve"
					},
					"include": ["../src"]
				}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
				"/app/src/react-app-env.d.ts":               "",
			})

			result, err := newVerifier(afero.NewReadOnlyFs(fs)).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changes).To(BeEmpty())
			Expect(result.Written).To(BeFalse())
		})
	})

	Describe("dry run", func() {
		It("reports the same changes without writing", func() {
			files := map[string]string{
				"/app/tsconfig.json":                         `{"compilerOptions": {"module": "commonjs"}}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			}

			dry := newVerifier(afero.NewReadOnlyFs(newProject(files)))
			dry.DryRun = true
			dryResult, err := dry.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dryResult.Written).To(BeFalse())
			Expect(dryResult.DryRun).To(BeTrue())
			Expect(dryResult.DeclarationsCreated).To(BeTrue())
			Expect(string(dryResult.Before)).To(Equal(files["/app/tsconfig.json"]))

			fs := newProject(files)
			realResult, err := newVerifier(fs).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dryResult.Changes).To(Equal(realResult.Changes))

			written, err := afero.ReadFile(fs, "/app/tsconfig.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(dryResult.After).To(Equal(written))
		})

		It("does not bootstrap", func() {
			fs := newProject(map[string]string{
				"/app/src/index.ts":                          "",
				"/app/node_modules/typescript/package.json": compilerPackage,
			})
			v := newVerifier(afero.NewReadOnlyFs(fs))
			v.DryRun = true

			result, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.FirstTimeSetup).To(BeTrue())
			Expect(result.After).NotTo(BeEmpty())
		})
	})

	Describe("in a workspace", func() {
		It("finds a compiler hoisted to the workspace root", func() {
			fs := newProject(map[string]string{
				"/repo/node_modules/typescript/package.json": `{"name": "typescript", "version": "5.3.3"}`,
				"/repo/packages/app/tsconfig.json":           `{"compilerOptions": {}}`,
			})
			paths, err := config.GetPaths("/repo/packages/app", config.Default())
			Expect(err).NotTo(HaveOccurred())

			result, err := verify.New(fs, paths, config.Default()).Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Compiler).To(Equal("typescript@5.3.3"))
			Expect(result.Written).To(BeTrue())
		})
	})

	Describe("aborts", func() {
		DescribeTable("when the compiler is missing",
			func(lockFile string, install string) {
				files := map[string]string{"/app/tsconfig.json": `{}`}
				if lockFile != "" {
					files[lockFile] = ""
				}

				_, err := newVerifier(newProject(files)).Run(ctx)
				abort := abortOf(err)
				Expect(abort.Kind).To(Equal(verify.AbortMissingCompiler))
				Expect(abort.Message).To(ContainSubstring("do not have typescript installed"))
				Expect(abort.Hints).To(ContainElement(ContainSubstring(install)))
				Expect(abort.Hints).To(ContainElement(ContainSubstring("remove the tsconfig.json file")))
			},
			Entry("with yarn", "/app/yarn.lock", "yarn add typescript"),
			Entry("with npm", "", "npm install typescript"),
		)

		It("flags malformed JSON", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         "{\n  \"compilerOptions\": {\n    \"strict\": true\n    \"jsx\": \"react\"\n  }\n}\n",
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			_, err := newVerifier(fs).Run(ctx)
			abort := abortOf(err)
			Expect(abort.Kind).To(Equal(verify.AbortMalformed))
			Expect(abort.Hints).To(ConsistOf(
				"Could not parse tsconfig.json. Please make sure it contains syntactically correct JSON.",
			))
			Expect(abort.Message).To(ContainSubstring("TS1005"))
		})

		It("forwards compiler diagnostics", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         `{"compilerOptions": {"stict": true}}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			_, err := newVerifier(fs).Run(ctx)
			abort := abortOf(err)
			Expect(abort.Kind).To(Equal(verify.AbortDiagnostic))
			Expect(abort.Hints).To(BeEmpty())
			Expect(abort.Message).To(ContainSubstring("error TS5025: Unknown compiler option 'stict'. Did you mean 'strict'?"))
		})

		It("reports a missing parent configuration", func() {
			fs := newProject(map[string]string{
				"/app/tsconfig.json":                         `{"extends": "./missing.json"}`,
				"/app/node_modules/typescript/package.json": compilerPackage,
			})

			_, err := newVerifier(fs).Run(ctx)
			Expect(abortOf(err).Kind).To(Equal(verify.AbortDiagnostic))
		})
	})

	Describe("events", func() {
		It("publishes the run's progress", func() {
			fs := newProject(map[string]string{
				"/app/src/index.ts":                          "",
				"/app/node_modules/typescript/package.json": compilerPackage,
			})
			bus := event.NewBus()
			DeferCleanup(bus.Close)

			var types []event.EventType
			runIDs := map[string]bool{}
			bus.SubscribeAll(func(e event.Event) {
				types = append(types, e.Type)
				runIDs[e.RunID] = true
			})

			v := newVerifier(fs)
			v.Bus = bus
			result, err := v.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(types[:3]).To(Equal([]event.EventType{event.VerifyStarted, event.VerifyDetected, event.VerifyBootstrapped}))
			Expect(types[len(types)-3:]).To(Equal([]event.EventType{event.ConfigWritten, event.DeclarationsWritten, event.VerifyFinished}))
			Expect(types).To(HaveLen(3 + len(result.Changes) + 3))
			Expect(runIDs).To(HaveLen(1))
		})

		It("publishes aborts", func() {
			fs := newProject(map[string]string{"/app/tsconfig.json": `{}`})
			bus := event.NewBus()
			DeferCleanup(bus.Close)

			var aborted []event.AbortedData
			bus.Subscribe(event.VerifyAborted, func(e event.Event) {
				aborted = append(aborted, e.Data.(event.AbortedData))
			})

			v := newVerifier(fs)
			v.Bus = bus
			_, err := v.Run(ctx)
			Expect(err).To(HaveOccurred())
			Expect(aborted).To(HaveLen(1))
			Expect(aborted[0].Kind).To(Equal("missing-compiler"))
		})
	})
})
