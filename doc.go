// Package ccalc is a deterministic symbolic calculator.
//
// Expressions are parsed from text with Parse, manipulated as an Expr
// tree over exact big.Rat arithmetic, and printed back in the same
// syntax they were read in, so any result can be fed to Parse again.
//
// The Calculator type bundles the string-in, string-out operations used
// by the command-line front ends (simplify, differentiate, integrate,
// factor, expand, solve, limit, series and Newton-Raphson root finding)
// and serves as the expression backend for package rootfind.
package ccalc
