package main

import (
	"github.com/bagoum/exprtext/pkg/expr"
)

// samples are small trees exercising the renderer's interesting paths:
// shared parameters, loops with labels, try/catch, and block-valued
// assignments.
var samples = map[string]func() expr.Expr{
	"add":       buildAdd,
	"sumLoop":   buildSumLoop,
	"safeParse": buildSafeParse,
	"greeting":  buildGreeting,
}

// buildAdd is the two-parameter addition lambda.
func buildAdd() expr.Expr {
	a := expr.Parameter(expr.IntType, "a")
	b := expr.Parameter(expr.IntType, "b")
	return expr.Lambda(
		expr.FuncOf(expr.IntType, expr.IntType, expr.IntType),
		expr.Add(a, b),
		a, b,
	)
}

// buildSumLoop sums 1..n with an explicit loop and break label.
func buildSumLoop() expr.Expr {
	n := expr.Parameter(expr.IntType, "n")
	sum := expr.Variable(expr.IntType, "sum")
	i := expr.Variable(expr.IntType, "i")
	brk := expr.Label(expr.VoidType, "done")

	body := expr.Block(
		[]*expr.ParameterExpr{sum, i},
		expr.Assign(sum, expr.Constant(0, expr.IntType)),
		expr.Assign(i, expr.Constant(1, expr.IntType)),
		expr.Loop(
			expr.IfThenElse(
				expr.GreaterThan(i, n),
				expr.Break(brk),
				expr.Block(nil,
					expr.AddAssign(sum, i),
					expr.Assign(i, expr.Add(i, expr.Constant(1, expr.IntType))),
				),
			),
			brk, nil,
		),
		sum,
	)
	return expr.Lambda(expr.FuncOf(expr.IntType, expr.IntType), body, n)
}

// buildSafeParse wraps an int parse in try/catch.
func buildSafeParse() expr.Expr {
	s := expr.Parameter(expr.StringType, "s")
	ex := expr.Parameter(expr.ExceptionType, "ex")
	parse := &expr.MethodRef{
		Declaring: expr.IntType,
		Name:      "Parse",
		Static:    true,
		Params:    []expr.Param{{Type: expr.StringType, Name: "s"}},
		Return:    expr.IntType,
	}
	return expr.Lambda(
		expr.FuncOf(expr.StringType, expr.IntType),
		expr.TryCatch(
			expr.Call(nil, parse, s),
			expr.CatchVar(ex, expr.Constant(0, expr.IntType)),
		),
		s,
	)
}

// buildGreeting concatenates strings through a shared sub-expression so
// the builder form shows a back-reference.
func buildGreeting() expr.Expr {
	name := expr.Parameter(expr.StringType, "name")
	concat := &expr.MethodRef{
		Declaring: expr.StringType,
		Name:      "Concat",
		Static:    true,
		Params: []expr.Param{
			{Type: expr.StringType, Name: "a"},
			{Type: expr.StringType, Name: "b"},
		},
		Return: expr.StringType,
	}
	greeting := expr.Call(nil, concat, expr.Constant("Hello, ", expr.StringType), name)
	// The same node twice: once for the value, once for a length check.
	lengthProp := &expr.PropertyRef{
		Declaring: expr.StringType,
		Name:      "Length",
		Type:      expr.IntType,
	}
	return expr.Lambda(
		expr.FuncOf(expr.StringType, expr.StringType),
		expr.Condition(
			expr.GreaterThan(expr.Property(greeting, lengthProp), expr.Constant(8, expr.IntType)),
			greeting,
			expr.Constant("hi", expr.StringType),
		),
		name,
	)
}
