// Package testutil builds the fixtures shared by package tests: minimal
// class files, in-memory archives and in-memory filesystems.
//
// Fixtures are defined inline by the tests that use them; nothing here
// reads files from disk.
package testutil
