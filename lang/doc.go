// Package lang implements konf, a small declarative language for defining
// named integer constants.
//
// # Syntax
//
// A program is a sequence of statements, each terminated by a semicolon:
//
//	(define cores 0o10);
//	(define threads ^(cores * 0o2));
//	(define memory [0o400, 0o1000, 0o2000]);
//
// Values are one of:
//
//   - an octal literal: 0o (or 0O) followed by one or more digits 0-7
//   - an array: [value, ...], possibly empty and possibly nested
//   - a caret expression: ^( operand op operand ... )
//   - a reference to a constant declared earlier
//
// Inside a caret expression the operators +, - and * share one precedence
// level and associate to the left, so ^(0o2 + 0o3 * 0o4) is 20. The calls
// max(a, b) and pow(a, b) take exactly two arguments, each of which may
// itself be an operator chain. Grouping is written with a nested caret
// expression: ^(0o2 + ^(0o3 * 0o4)) is 14.
//
// Identifiers are runs of lowercase ASCII letters. The words define, max
// and pow are recognized by position only, so by default a constant may be
// named max and referenced as ^(max + 0o1). [WithReservedKeywords] rejects
// such names instead.
//
// # Evaluation
//
// Statements are evaluated in order. A reference resolves only to constants
// declared by earlier statements; anything else fails with
// [ErrUndefinedReference]. Integers have arbitrary precision, bounded by
// [WithMaxBits]. Operators require integer operands and fail with [ErrType]
// when given an array.
//
// The result is a [Table] mapping each name to its [Value] in declaration
// order:
//
//	table, err := lang.EvaluateConfig(ctx, src)
//	if err != nil {
//		fmt.Fprint(os.Stderr, lang.Snippet(src, err))
//		return err
//	}
//	table.FormatJSON(ctx, os.Stdout, 2)
//
// # Errors
//
// All errors are [*Error] values derived from the sentinels declared in
// this package and can be matched with [errors.Is]. Lexical, parse and
// evaluation errors carry the source position of the offending token,
// which [Snippet] renders with context.
//
// # Caching
//
// [ParseSource] and [ParseReader] memoize parse results keyed by an xxh3
// hash of the source and the parse options. Only syntax trees are cached;
// every evaluation starts from an empty table.
package lang
