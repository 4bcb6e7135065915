package halstead

import "github.com/panbanda/depend/pkg/ast"

// Classification lists the operator and operand occurrences of a token
// stream in scan order.
type Classification struct {
	Operators []string
	Operands  []string
}

// Basis counts the distinct and total occurrences.
func (c Classification) Basis() Basis {
	return Basis{
		DistinctOperators: distinct(c.Operators),
		DistinctOperands:  distinct(c.Operands),
		TotalOperators:    len(c.Operators),
		TotalOperands:     len(c.Operands),
	}
}

// Classify scans tokens left to right and sorts each into operators and
// operands. Some constructs consume the tokens that follow them: after a
// control keyword the opening parenthesis, after an accessor or goto the
// next token, after a var or const declaration everything up to the
// semicolon.
func Classify(tokens []ast.Token) Classification {
	var c Classification
	var skipUntil ast.TokenKind

	for i, tok := range tokens {
		if skipUntil != "" {
			if tok.Kind == skipUntil {
				skipUntil = ""
			}
			continue
		}

		switch tok.Kind {
		case ast.TokenCloseParen, ast.TokenCloseCurly, ast.TokenCloseSquare:
			// counted with the opening token

		case ast.TokenIf, ast.TokenFor, ast.TokenForeach, ast.TokenWhile, ast.TokenCatch:
			c.Operators = append(c.Operators, tok.Image)
			skipUntil = ast.TokenOpenParen

		case ast.TokenGoto:
			op := tok.Image
			if i+1 < len(tokens) {
				op += " " + tokens[i+1].Image
				skipUntil = tokens[i+1].Kind
			}
			c.Operators = append(c.Operators, op)

		case ast.TokenObjectOperator, ast.TokenDoubleColon:
			var operand string
			if n := len(c.Operands); n > 0 {
				operand = c.Operands[n-1]
				c.Operands = c.Operands[:n-1]
			}
			operand += tok.Image
			if i+1 < len(tokens) {
				operand += tokens[i+1].Image
				skipUntil = tokens[i+1].Kind
			}
			c.Operands = append(c.Operands, operand)

		case ast.TokenVar, ast.TokenConst:
			skipUntil = ast.TokenSemicolon

		case ast.TokenIdentifier, ast.TokenVariable, ast.TokenNumber, ast.TokenString,
			ast.TokenTrue, ast.TokenFalse, ast.TokenNull:
			c.Operands = append(c.Operands, tok.Image)

		case ast.TokenComment, ast.TokenDocComment,
			ast.TokenHeredocStart, ast.TokenHeredocEnd,
			ast.TokenOpenTag, ast.TokenCloseTag:
			// ignored

		default:
			c.Operators = append(c.Operators, tok.Image)
		}
	}
	return c
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
