// Package parser builds an ast.Forest from a lexer token sequence.
//
// The parser reads tokens in a single pass and keeps the things that are
// still open on an explicit stack. A thing is attached to its parent, or to
// the forest, only when its closing brace is read, so a finished tree never
// contains a cycle.
//
//	thing "Server" {
//	    string host = "localhost"
//	    int port = 8080
//	    thing "TLS" {
//	        bool enabled = false
//	    }
//	}
//
// Parsing stops at the first problem and returns it as a *ParseError. Type
// mismatches between a prop's declared type and its literal are fatal.
package parser
