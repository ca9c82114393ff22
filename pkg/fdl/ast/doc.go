// Package ast holds the FDL data model: typed props, things with ordered
// props and children, the forest of root things, and the traversal
// protocol used by every consumer of a parsed document.
//
// A tree is built by the parser and then handed off. Nothing in this package
// keeps a reference to it, and no thing holds a pointer to its parent; Walk
// passes the parent to the visitor instead.
package ast
