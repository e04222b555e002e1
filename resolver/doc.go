// Package resolver analyzes the dependency graph of a package tree.
//
// It finds dependency cycles with Tarjan's strongly connected components
// algorithm and computes the transitive dependencies of packages. It does
// not pick versions or solve installation constraints.
package resolver
