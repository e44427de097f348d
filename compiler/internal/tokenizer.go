package internal

import (
	"io"

	"github.com/xiaobogaga/minijava/util"
)

// A simple Tokenizer for minijava.

// Minijava language has those elements:
// * KeyWord: class, public, static, void, main, String, extends, return, int, boolean, if, else, while,
// 			true, false, this, new, length, System.out.println.
// * Symbol: {, }, (, ), [, ], ., ,, ;, =, &&, <, +, -, *, !.
// * Constant: integer.
// * Identifier: letters, digits, underscore, starting with a letter.
// * Comment: /**/, //.

type TokenType int

const (
	ClassTP              TokenType = iota // class
	PublicTP                              // public
	StaticTP                              // static
	VoidTP                                // void
	MainTP                                // main
	StringTP                              // String
	ExtendsTP                             // extends
	ReturnTP                              // return
	IntTP                                 // int
	BooleanTP                             // boolean
	IfTP                                  // if
	ElseTP                                // else
	WhileTP                               // while
	TrueTP                                // true
	FalseTP                               // false
	ThisTP                                // this
	NewTP                                 // new
	LengthTP                              // length
	PrintTP                               // System.out.println
	LeftBraceTP                           // {
	RightBraceTP                          // }
	LeftParentThesesTP                    // (
	RightParentThesesTP                   // )
	LeftSquareBracketTP                   // [
	RightSquareBracketTP                  // ]
	DotTP                                 // .
	CommaTP                               // ,
	SemiColonTP                           // ;
	AssignTP                              // =
	AndTP                                 // &&
	LessTP                                // <
	AddTP                                 // +
	MinusTP                               // -
	MultiplyTP                            // *
	NotTP                                 // !
	IntegerTP                             // 1010
	IdentifierTP                          // varA
)

// keyWordTokenTPMap is the mapping from identifier to the corresponding TokenTP.
var keyWordTokenTPMap = map[string]TokenType{
	"class":   ClassTP,
	"public":  PublicTP,
	"static":  StaticTP,
	"void":    VoidTP,
	"main":    MainTP,
	"String":  StringTP,
	"extends": ExtendsTP,
	"return":  ReturnTP,
	"int":     IntTP,
	"boolean": BooleanTP,
	"if":      IfTP,
	"else":    ElseTP,
	"while":   WhileTP,
	"true":    TrueTP,
	"false":   FalseTP,
	"this":    ThisTP,
	"new":     NewTP,
	"length":  LengthTP,
}

// simpleSymbolTokenTPMap is the mapping from simple identifier to the corresponding TokenTP.
// There are some symbols which are very easy to distinguish, so we put those together.
var simpleSymbolTokenTPMap = map[byte]TokenType{
	'{': LeftBraceTP,
	'}': RightBraceTP,
	'(': LeftParentThesesTP,
	')': RightParentThesesTP,
	'[': LeftSquareBracketTP,
	']': RightSquareBracketTP,
	'.': DotTP,
	',': CommaTP,
	';': SemiColonTP,
	'=': AssignTP,
	'<': LessTP,
	'+': AddTP,
	'-': MinusTP,
	'*': MultiplyTP,
	'!': NotTP,
}

const printKeyword = "System.out.println"

type Token struct {
	content  string
	line     int
	startPos int
	endPos   int
	tp       TokenType
}

func (t *Token) String() string {
	return t.content
}

type Tokenizer struct {
	currentPos  int
	currentLine int
	src         []byte
	tokens      []*Token
}

// Tokenize accepts a source `rd` and tokenize it's content according to minijava rules.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) ([]*Token, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	tokenizer.Reset()
	tokenizer.src = src
	for {
		token, err := tokenizer.getNextToken()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return tokenizer.tokens, nil
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}

// getNextToken returns the next token, nil at the end of the source.
func (tokenizer *Tokenizer) getNextToken() (*Token, error) {
	err := tokenizer.skipSpacesAndComments()
	if err != nil {
		return nil, err
	}
	if !tokenizer.hasRemainCharacters() {
		return nil, nil
	}
	b := tokenizer.src[tokenizer.currentPos]
	switch {
	case b == '&':
		return tokenizer.tokenAnd()
	case util.IsDigit(b):
		return tokenizer.tokenNumber()
	case util.IsIdentifierStart(b):
		return tokenizer.toKeywordOrIdentifier()
	}
	if _, ok := simpleSymbolTokenTPMap[b]; ok {
		return tokenizer.tokenSimpleSymbol(), nil
	}
	return nil, tokenizer.makeError(string(b), "unknown character")
}

func (tokenizer *Tokenizer) hasRemainCharacters() bool {
	return tokenizer.currentPos < len(tokenizer.src)
}

func (tokenizer *Tokenizer) skipSpacesAndComments() error {
	for tokenizer.hasRemainCharacters() {
		b := tokenizer.src[tokenizer.currentPos]
		switch {
		case b == '\n':
			tokenizer.currentLine++
			tokenizer.currentPos++
		case util.IsSpace(b):
			tokenizer.currentPos++
		case tokenizer.hasPrefix("//"):
			tokenizer.skipSingleLineComment()
		case tokenizer.hasPrefix("/*"):
			err := tokenizer.skipMultipleLineComment()
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (tokenizer *Tokenizer) hasPrefix(prefix string) bool {
	rest := tokenizer.src[tokenizer.currentPos:]
	return len(rest) >= len(prefix) && string(rest[:len(prefix)]) == prefix
}

func (tokenizer *Tokenizer) skipSingleLineComment() {
	for tokenizer.hasRemainCharacters() && tokenizer.src[tokenizer.currentPos] != '\n' {
		tokenizer.currentPos++
	}
}

func (tokenizer *Tokenizer) skipMultipleLineComment() error {
	startLine := tokenizer.currentLine
	tokenizer.currentPos += 2
	for tokenizer.hasRemainCharacters() {
		if tokenizer.hasPrefix("*/") {
			tokenizer.currentPos += 2
			return nil
		}
		if tokenizer.src[tokenizer.currentPos] == '\n' {
			tokenizer.currentLine++
		}
		tokenizer.currentPos++
	}
	return &SyntaxError{Near: "/*", Line: startLine, Msg: "incorrect comment format"}
}

func (tokenizer *Tokenizer) newToken(startPos int, tp TokenType) *Token {
	return &Token{
		content:  string(tokenizer.src[startPos:tokenizer.currentPos]),
		line:     tokenizer.currentLine,
		startPos: startPos,
		endPos:   tokenizer.currentPos,
		tp:       tp,
	}
}

func (tokenizer *Tokenizer) tokenSimpleSymbol() *Token {
	startPos := tokenizer.currentPos
	tokenizer.currentPos++
	return tokenizer.newToken(startPos, simpleSymbolTokenTPMap[tokenizer.src[startPos]])
}

func (tokenizer *Tokenizer) tokenAnd() (*Token, error) {
	if !tokenizer.hasPrefix("&&") {
		return nil, tokenizer.makeError("&", "expect &&")
	}
	startPos := tokenizer.currentPos
	tokenizer.currentPos += 2
	return tokenizer.newToken(startPos, AndTP), nil
}

func (tokenizer *Tokenizer) tokenNumber() (*Token, error) {
	// Look forward to find a continuous number
	startPos := tokenizer.currentPos
	for tokenizer.hasRemainCharacters() && util.IsDigit(tokenizer.src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	// 12abc is neither a number nor an identifier.
	if tokenizer.hasRemainCharacters() && util.IsIdentifierPart(tokenizer.src[tokenizer.currentPos]) {
		return nil, tokenizer.makeError(string(tokenizer.src[startPos:tokenizer.currentPos+1]), "incorrect identifier format")
	}
	return tokenizer.newToken(startPos, IntegerTP), nil
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier() (*Token, error) {
	// Look forward to find a continuous characters.
	startPos := tokenizer.currentPos
	for tokenizer.hasRemainCharacters() && util.IsIdentifierPart(tokenizer.src[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
	word := string(tokenizer.src[startPos:tokenizer.currentPos])
	if word == "System" {
		tokenizer.currentPos = startPos
		if !tokenizer.hasPrefix(printKeyword) {
			tokenizer.currentPos += len(word)
			return tokenizer.newToken(startPos, IdentifierTP), nil
		}
		tokenizer.currentPos += len(printKeyword)
		return tokenizer.newToken(startPos, PrintTP), nil
	}
	if keyWordTP, isKeyWord := keyWordTokenTPMap[word]; isKeyWord {
		return tokenizer.newToken(startPos, keyWordTP), nil
	}
	return tokenizer.newToken(startPos, IdentifierTP), nil
}

func (tokenizer *Tokenizer) makeError(near string, msg string) error {
	return &SyntaxError{Near: near, Line: tokenizer.currentLine, Msg: msg}
}

func (tokenizer *Tokenizer) Reset() {
	tokenizer.currentPos, tokenizer.currentLine = 0, 1
	tokenizer.src, tokenizer.tokens = nil, nil
}
