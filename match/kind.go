package match

import (
	"go/ast"
	"go/token"
)

// Kind is a closed tag over the node shapes matchers can select on.
// It collapses go/ast's open node set into a small comparable enum;
// literal nodes are split by literal kind because rules routinely
// care about string literals specifically.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFile
	KindImport
	KindIdent
	KindSelector
	KindCall
	KindStringLit
	KindIntLit
	KindFloatLit
	KindCharLit
	KindImagLit
	KindCompositeLit
	KindFuncLit
	KindFuncDecl
	KindReturn
	KindAssign
	KindBinary
	KindUnary
	KindParen
	KindIf
	KindFor
	KindRange
	KindSwitch
	KindTypeSwitch
	KindBlock
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindFile:         "file",
	KindImport:       "import",
	KindIdent:        "ident",
	KindSelector:     "selector",
	KindCall:         "call",
	KindStringLit:    "string-lit",
	KindIntLit:       "int-lit",
	KindFloatLit:     "float-lit",
	KindCharLit:      "char-lit",
	KindImagLit:      "imag-lit",
	KindCompositeLit: "composite-lit",
	KindFuncLit:      "func-lit",
	KindFuncDecl:     "func-decl",
	KindReturn:       "return",
	KindAssign:       "assign",
	KindBinary:       "binary",
	KindUnary:        "unary",
	KindParen:        "paren",
	KindIf:           "if",
	KindFor:          "for",
	KindRange:        "range",
	KindSwitch:       "switch",
	KindTypeSwitch:   "type-switch",
	KindBlock:        "block",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf reports the Kind of node. Nodes outside the closed set,
// including nil, map to KindUnknown.
func KindOf(node ast.Node) Kind {
	switch n := node.(type) {
	case nil:
		return KindUnknown
	case *ast.File:
		return KindFile
	case *ast.ImportSpec:
		return KindImport
	case *ast.Ident:
		return KindIdent
	case *ast.SelectorExpr:
		return KindSelector
	case *ast.CallExpr:
		return KindCall
	case *ast.BasicLit:
		if n == nil {
			return KindUnknown
		}
		switch n.Kind {
		case token.STRING:
			return KindStringLit
		case token.INT:
			return KindIntLit
		case token.FLOAT:
			return KindFloatLit
		case token.CHAR:
			return KindCharLit
		case token.IMAG:
			return KindImagLit
		}
		return KindUnknown
	case *ast.CompositeLit:
		return KindCompositeLit
	case *ast.FuncLit:
		return KindFuncLit
	case *ast.FuncDecl:
		return KindFuncDecl
	case *ast.ReturnStmt:
		return KindReturn
	case *ast.AssignStmt:
		return KindAssign
	case *ast.BinaryExpr:
		return KindBinary
	case *ast.UnaryExpr:
		return KindUnary
	case *ast.ParenExpr:
		return KindParen
	case *ast.IfStmt:
		return KindIf
	case *ast.ForStmt:
		return KindFor
	case *ast.RangeStmt:
		return KindRange
	case *ast.SwitchStmt:
		return KindSwitch
	case *ast.TypeSwitchStmt:
		return KindTypeSwitch
	case *ast.BlockStmt:
		return KindBlock
	}
	return KindUnknown
}

// IsLiteral reports whether k is one of the literal kinds.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindStringLit, KindIntLit, KindFloatLit, KindCharLit, KindImagLit:
		return true
	}
	return false
}
