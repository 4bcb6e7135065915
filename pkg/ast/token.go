package ast

// TokenKind classifies a lexical token.
type TokenKind string

const (
	TokenOpenParen   TokenKind = "open_paren"
	TokenCloseParen  TokenKind = "close_paren"
	TokenOpenCurly   TokenKind = "open_curly"
	TokenCloseCurly  TokenKind = "close_curly"
	TokenOpenSquare  TokenKind = "open_square"
	TokenCloseSquare TokenKind = "close_square"
	TokenSemicolon   TokenKind = "semicolon"
	TokenComma       TokenKind = "comma"

	TokenIf       TokenKind = "if"
	TokenElseIf   TokenKind = "elseif"
	TokenElse     TokenKind = "else"
	TokenFor      TokenKind = "for"
	TokenForeach  TokenKind = "foreach"
	TokenWhile    TokenKind = "while"
	TokenDo       TokenKind = "do"
	TokenSwitch   TokenKind = "switch"
	TokenCase     TokenKind = "case"
	TokenDefault  TokenKind = "default"
	TokenTry      TokenKind = "try"
	TokenCatch    TokenKind = "catch"
	TokenFinally  TokenKind = "finally"
	TokenReturn   TokenKind = "return"
	TokenThrow    TokenKind = "throw"
	TokenBreak    TokenKind = "break"
	TokenContinue TokenKind = "continue"
	TokenGoto     TokenKind = "goto"
	TokenFunction TokenKind = "function"
	TokenNew      TokenKind = "new"
	TokenVar      TokenKind = "var"
	TokenConst    TokenKind = "const"
	TokenKeyword  TokenKind = "keyword"

	TokenObjectOperator TokenKind = "object_operator"
	TokenDoubleColon    TokenKind = "double_colon"

	TokenIdentifier TokenKind = "identifier"
	TokenVariable   TokenKind = "variable"
	TokenNumber     TokenKind = "number"
	TokenString     TokenKind = "string"
	TokenTrue       TokenKind = "true"
	TokenFalse      TokenKind = "false"
	TokenNull       TokenKind = "null"

	TokenComment      TokenKind = "comment"
	TokenDocComment   TokenKind = "doc_comment"
	TokenHeredocStart TokenKind = "heredoc_start"
	TokenHeredocEnd   TokenKind = "heredoc_end"
	TokenOpenTag      TokenKind = "open_tag"
	TokenCloseTag     TokenKind = "close_tag"

	TokenOperator TokenKind = "operator"
)

var tokenKinds = map[TokenKind]bool{
	TokenOpenParen: true, TokenCloseParen: true, TokenOpenCurly: true, TokenCloseCurly: true,
	TokenOpenSquare: true, TokenCloseSquare: true, TokenSemicolon: true, TokenComma: true,
	TokenIf: true, TokenElseIf: true, TokenElse: true, TokenFor: true, TokenForeach: true,
	TokenWhile: true, TokenDo: true, TokenSwitch: true, TokenCase: true, TokenDefault: true,
	TokenTry: true, TokenCatch: true, TokenFinally: true, TokenReturn: true, TokenThrow: true,
	TokenBreak: true, TokenContinue: true, TokenGoto: true, TokenFunction: true, TokenNew: true,
	TokenVar: true, TokenConst: true, TokenKeyword: true,
	TokenObjectOperator: true, TokenDoubleColon: true,
	TokenIdentifier: true, TokenVariable: true, TokenNumber: true, TokenString: true,
	TokenTrue: true, TokenFalse: true, TokenNull: true,
	TokenComment: true, TokenDocComment: true, TokenHeredocStart: true, TokenHeredocEnd: true,
	TokenOpenTag: true, TokenCloseTag: true,
	TokenOperator: true,
}

// String returns the string representation.
func (k TokenKind) String() string { return string(k) }

// Valid reports whether k is one of the declared token kinds.
func (k TokenKind) Valid() bool { return tokenKinds[k] }

// IsComment reports whether the token carries comment text.
func (k TokenKind) IsComment() bool {
	return k == TokenComment || k == TokenDocComment
}

// Token is an immutable lexical unit.
type Token struct {
	Kind        TokenKind `json:"kind"`
	Image       string    `json:"image"`
	StartLine   int       `json:"start_line"`
	EndLine     int       `json:"end_line"`
	StartColumn int       `json:"start_column,omitempty"`
	EndColumn   int       `json:"end_column,omitempty"`
}

// NewToken creates a single-line token.
func NewToken(kind TokenKind, image string, line int) Token {
	return Token{Kind: kind, Image: image, StartLine: line, EndLine: line}
}

// ParseTokenKind returns the kind named by s.
func ParseTokenKind(s string) (TokenKind, bool) {
	k := TokenKind(s)
	return k, k.Valid()
}
