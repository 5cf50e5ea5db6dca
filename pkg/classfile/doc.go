// Package classfile reads JVM class files far enough to rename the names
// they reference.
//
// Only CONSTANT_Utf8 entries of the constant pool are rewritten. Each entry
// gets a role from the places that reference it (class name, package,
// descriptor, signature, string constant, module name); the role decides
// how the entry is transformed. Entry count and indices never change, so
// every byte after the constant pool is copied verbatim.
package classfile
