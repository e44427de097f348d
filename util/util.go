package util

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsIdentifierStart reports whether b can open an identifier. MiniJava identifiers never start with an
// underscore, so generated names like `_0` can't clash with user names.
func IsIdentifierStart(b byte) bool {
	return IsLetter(b)
}

func IsIdentifierPart(b byte) bool {
	return IsLetter(b) || IsDigit(b) || b == '_'
}

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v'
}
