// Package signature finds and rewrites qualified Java names.
//
// It works on three kinds of input:
//
//   - free text holding dotted or slashed names (XML, properties, manifest
//     headers, string constants), see Matcher.ReplacePackages
//   - binary type names and JVM descriptors/generic signatures, see
//     Matcher.RenameBinaryType and Matcher.TransformSignature
//   - OSGi manifest header values, see Clauses and ReplaceVersion
//
// Rename rules are keyed by dotted package names. A key ending in ".*"
// also covers every sub-package. Lookups walk the key sequence produced by
// Keys from the most specific key to the least specific one, so an exact
// key always beats a wildcard key and a longer wildcard beats a shorter one.
package signature
