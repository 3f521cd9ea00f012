package cypher

// Parse lexes and parses a query string, then converts it to the clean
// Converted form the rest of the engine consumes. Every error returned is
// either a *SyntaxError or one produced during conversion (also a
// *SyntaxError, e.g. a negative SKIP/LIMIT or a contradictory edge arrow).
func Parse(src string) (Converted, error) {
	ast, err := cypherParser.ParseString("", src)
	if err != nil {
		return Converted{}, wrapParseError(err)
	}
	return Convert(ast)
}
