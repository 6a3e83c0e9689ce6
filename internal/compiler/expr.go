package compiler

import (
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	jsparser "github.com/dop251/goja/parser"
	"github.com/evanw/esbuild/pkg/api"
)

const escapedWrapper = "unbalanced brackets close the enclosing function"

// exprChecker validates template expressions by wrapping them in a function
// body and handing it to esbuild. A fragment must also leave the wrapper a
// single function declaration, so code such as "a}function b(){" is rejected
// even though the wrapped text parses. Results are memoized per compilation.
type exprChecker struct {
	seen map[string]string
}

func newExprChecker() *exprChecker {
	return &exprChecker{seen: make(map[string]string)}
}

// expression checks exp as the operand of a return statement.
func (c *exprChecker) expression(exp string) string {
	return c.check("function _$$(){return (" + exp + "\n)}")
}

// statement checks stmt as the body of an event handler.
func (c *exprChecker) statement(stmt string) string {
	return c.check("function _$$($event){" + stmt + "\n}")
}

// params checks a v-for alias list as function parameters.
func (c *exprChecker) params(list string) string {
	return c.check("function _$$(" + list + "){}")
}

// assignable checks that exp can be the target of an assignment.
func (c *exprChecker) assignable(exp string) string {
	return c.check("function _$$($event){" + exp + "=$event\n}")
}

func (c *exprChecker) check(code string) string {
	if msg, ok := c.seen[code]; ok {
		return msg
	}
	result := api.Transform(code, api.TransformOptions{
		Loader:   api.LoaderJS,
		LogLevel: api.LogLevelSilent,
	})
	msg := ""
	switch {
	case len(result.Errors) > 0:
		msg = result.Errors[0].Text
	case !singleFunction(code):
		msg = escapedWrapper
	}
	c.seen[code] = msg
	return msg
}

// singleFunction reports whether code is exactly one function declaration.
func singleFunction(code string) bool {
	prog, err := jsparser.ParseFile(nil, "", code, 0)
	if err != nil {
		// Syntax errors are esbuild's to report.
		return true
	}
	if len(prog.Body) != 1 {
		return false
	}
	_, ok := prog.Body[0].(*ast.FunctionDeclaration)
	return ok
}

// invalidExpression formats a rejected expression the way it is reported to
// template authors.
func invalidExpression(kind, reason, exp, raw string) string {
	return fmt.Sprintf("invalid %s: %s in\n\n    %s\n\n  Raw expression: %s",
		kind, reason, strings.TrimSpace(exp), strings.TrimSpace(raw))
}
