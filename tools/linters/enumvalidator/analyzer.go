// Package enumvalidator reports assignments of raw string literals to fields
// whose type is a named string enum (a defined string type with declared
// constants). Writing i.Track = "RESTAURANT" compiles fine and then fails at
// runtime validation; this catches it at lint time.
package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "enumvalidator",
	Doc:      "reports string literals assigned to enum-typed struct fields",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	ins.Preorder([]ast.Node{(*ast.AssignStmt)(nil)}, func(n ast.Node) {
		assign := n.(*ast.AssignStmt)
		for i, lhs := range assign.Lhs {
			if i >= len(assign.Rhs) {
				break
			}
			sel, ok := lhs.(*ast.SelectorExpr)
			if !ok {
				continue
			}
			lit, ok := assign.Rhs[i].(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			if isEnumType(pass.TypesInfo.TypeOf(sel)) {
				pass.Reportf(lit.Pos(), "enum field %s assigned string literal", sel.Sel.Name)
			}
		}
	})

	return nil, nil
}

// isEnumType reports whether t is a defined string type with at least one
// declared constant of that type in its package.
func isEnumType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Kind() != types.String {
		return false
	}

	pkg := named.Obj().Pkg()
	if pkg == nil {
		return false
	}
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		if types.Identical(c.Type(), named) {
			return true
		}
	}
	return false
}
