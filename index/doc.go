// Package index stores a loaded package tree in a SQLite database.
//
// Packages and their dependencies are kept in the tables packages and
// dependencies. Synchronizing with a tree only rewrites packages whose unit
// digest changed, and soft-deletes packages that left the tree.
package index
