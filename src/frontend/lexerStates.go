package frontend

import "strings"

// lexGlobal serves as the default state. It skips whitespace and comments and emits at most one token per call.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case r == eof:
			// End of file: stop the state machine.
			l.emit(itemEOF)
			return nil
		case isSpace(r):
			// Ignore whitespace, newlines included.
			l.ignore()
		case r == '/' && l.peek() == '/':
			// Ignore line comments.
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.ignore()
		case r == '/' && l.peek() == '*':
			// Ignore block comments.
			l.next()
			if i1 := strings.Index(l.input[l.pos:], "*/"); i1 >= 0 {
				l.pos += i1 + 2
			} else {
				return l.errorf("unclosed comment at line %d:%d", l.line, l.startOnLine)
			}
			l.ignore()
		case isAlpha(r) || r == '_':
			// Keyword or identifier.
			return lexWord
		case isDigit(r):
			// Number.
			return lexNumber
		case r == '.' && isDigit(l.peek()):
			// Number with no integer part.
			return lexNumber
		case r == '"':
			// String.
			return lexString
		case r == '\'':
			// Character constant.
			return lexChar
		default:
			l.backup()
			for _, e1 := range punctuators {
				if strings.HasPrefix(l.input[l.pos:], e1.val) {
					l.pos += len(e1.val)
					l.emit(e1.typ)
					return lexGlobal
				}
			}
			// Let parser use character as is.
			l.next()
			l.emit(itemType(r))
			return lexGlobal
		}
	}
}

// lexWord scans the input string for keywords and identifiers.
func lexWord(l *lexer) stateFunc {
	// We know that the currently scanned rune is an alphabetic character or underscore.
	for {
		r := l.next()

		// Check if character is valid character.
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			_, typ := isKeyword(l.input[l.start:l.pos])
			l.emit(typ)
			return lexGlobal
		}
	}
}

// lexNumber scans the input stream for an integer or floating point number. Integers may be written in decimal,
// octal with a leading zero, or hexadecimal with a leading 0x. We don't scan negative numbers: the parser handles
// unary minus.
func lexNumber(l *lexer) stateFunc {
	l.backup()
	digits := "0123456789"
	if l.accept("0") && l.accept("xX") {
		digits = "0123456789abcdefABCDEF"
		l.acceptRun(digits)
		if isAlpha(l.peek()) {
			return l.errorf("malformed hexadecimal constant at line %d:%d", l.line, l.startOnLine)
		}
		l.emit(INTEGER)
		return lexGlobal
	}
	l.acceptRun(digits)

	// Check for decimal delimiter and exponent.
	float := false
	if l.accept(".") {
		float = true
		l.acceptRun(digits)
	}
	if l.accept("eE") {
		float = true
		l.accept("+-")
		l.acceptRun(digits)
	}
	if isAlpha(l.peek()) || l.peek() == '_' {
		return l.errorf("malformed number constant at line %d:%d", l.line, l.startOnLine)
	}
	if float {
		l.emit(FLOAT)
	} else {
		l.emit(INTEGER)
	}
	return lexGlobal
}

// lexString scans a string literal from the input stream. The emitted value excludes the quotes and keeps
// escape sequences as written, since the assembler's .asciz directive understands them.
func lexString(l *lexer) stateFunc {
	for {
		switch r := l.next(); r {
		case '\\':
			if c := l.next(); c == eof || c == '\n' {
				return l.errorf("unclosed string literal at line %d:%d", l.line, l.startOnLine)
			}
		case eof, '\n':
			return l.errorf("unclosed string literal at line %d:%d", l.line, l.startOnLine)
		case '"':
			l.emitValue(STRING, l.input[l.start+1:l.pos-1])
			return lexGlobal
		}
	}
}

// lexChar scans a character constant from the input stream. The emitted value excludes the quotes.
func lexChar(l *lexer) stateFunc {
	for {
		switch r := l.next(); r {
		case '\\':
			if c := l.next(); c == eof || c == '\n' {
				return l.errorf("unclosed character constant at line %d:%d", l.line, l.startOnLine)
			}
		case eof, '\n':
			return l.errorf("unclosed character constant at line %d:%d", l.line, l.startOnLine)
		case '\'':
			l.emitValue(CHARACTER, l.input[l.start+1:l.pos-1])
			return lexGlobal
		}
	}
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// isAlpha return true if rune r is an alphabetic character in the set [a-zA-Z].
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit return true if rune r is a digit in the range [0-9].
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSpace return true if rune r is a whitespace character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r' || r == '\v'
}
