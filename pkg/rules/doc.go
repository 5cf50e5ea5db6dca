// Package rules loads the rule set that drives a transformation run.
//
// Rules come from named rule sources (property tables) grouped by
// category:
//
//   - renames: package prefix -> replacement package
//     (javax.servlet.* = jakarta.servlet)
//   - versions: package -> version range, with optional per-header keys
//     (jakarta.servlet;Export-Package = 5.0)
//   - bundles: symbolic name -> "newName,version,name,description"
//   - direct: verbatim string replacements inside class files
//   - per-class constants: class name -> table of exact string constants
//   - master text: resource glob -> table of text replacements
//   - selections: resource globs choosing which entries are transformed
//
// # Pattern Conventions
//
// Selection and text patterns are globs:
//
//   - `web.xml` - file name match anywhere
//   - `*.jar` - glob on the file name
//   - `WEB-INF/*.xml` - path pattern (contains /)
//   - `**/config/*` - path pattern at any depth
//   - `!*.tmp` - exclusion (leading !), evaluated before any include
//
// With no include pattern every resource is selected.
//
// A built RuleSet is immutable and may be shared by concurrent runs.
package rules
