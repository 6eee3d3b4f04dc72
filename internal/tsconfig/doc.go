// Package tsconfig models type-checker configuration files as generic JSON
// trees and resolves their "extends" inheritance chains.
//
// # Trees
//
// A Tree is the decoded content of one configuration file. Values are the
// JSON primitives (string, float64, bool, nil), ordered sequences ([]any)
// and nested Trees. Files are decoded as JSONC, so comments and trailing
// commas are accepted the same way the compiler accepts them.
//
// # Merging
//
// Merge folds an override tree onto a base tree and returns a new tree:
//
//   - keys only in base are kept;
//   - keys only in override are copied structurally;
//   - keys in both whose values are both trees are merged recursively;
//   - every other collision is won by override, including sequences,
//     which are replaced and never concatenated.
//
// # Chain resolution
//
// Resolver.Resolve loads a file, follows its "extends" reference and merges
// the file's own fields over the resolved parent. References are anchored at
// the directory of the file that declares them, not the working directory.
// Bare package specifiers fall back to node_modules lookup. Cycles fail with
// ErrConfigCycle instead of recursing.
//
//	r := tsconfig.NewResolver(afero.NewOsFs())
//	tree, err := r.Resolve("/app/tsconfig.json")
//	if errors.Is(err, tsconfig.ErrConfigNotFound) {
//	    // an ancestor is missing
//	}
package tsconfig
