// Package formula compiles the small infix language used inside <value>
// tags of geotext templates into evaluable closures.
//
// A formula is parsed once into an AST and evaluated on demand against an
// [Env] that resolves element names. Nothing is ever turned into executable
// code; evaluation walks the tree.
//
// Grammar, loosest binding first:
//
//	expr    = or [ "?" expr ":" expr ]
//	or      = and { "||" and }
//	and     = cmp { "&&" cmp }
//	cmp     = sum [ ("==" | "!=" | "<" | "<=" | ">" | ">=") sum ]
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/" | "%") unary }
//	unary   = ("-" | "+" | "!") unary | power
//	power   = postfix [ "^" unary ]
//	postfix = primary { "." ident "(" args ")" }
//	primary = number | string | ident [ "(" args ")" ] | "(" expr ")"
//
// Identifiers that are neither built-in constants nor called as built-in
// functions are element references and are reported by
// [Formula.References]. Elements are used through the [Point] and [Valuer]
// interfaces: X(A), Y(A), V(s), Dist(A, B), A.X(), s.Value().
//
// A number formats itself with toFixed(x, n) or x.toFixed(n).
package formula
