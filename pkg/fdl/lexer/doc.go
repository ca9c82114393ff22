// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     lexer
// Description: Package documentation
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

/*
Package lexer implements the tokenizer of the FDL language.

At every position, after skipping whitespace, the first matching rule wins:

  - an ASCII digit starts a Number; a '.' belongs to the number only if a
    digit follows it
  - a letter starts a Word of letters, digits and underscores
  - '"' starts a String that ends at the first '"' not preceded by '\'
  - any other character is a one-character Symbol

The tokenizer never fails. Tokens are produced lazily through an
iter.Seq2[Token, Position]; the sequence simply ends when the input is
exhausted.
*/
package lexer
