package evaluator

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/natives"
)

type OutcomeKind int

const (
	Normal OutcomeKind = iota
	Return
)

// Outcome is the result of executing a statement. Blocks stop at the first
// Return and hand it upwards unchanged.
type Outcome struct {
	Kind  OutcomeKind
	Value Value
}

var normal = Outcome{Kind: Normal}

func (in *Interpreter) execStatement(stmt ast.Statement, scope ScopeID) (Outcome, error) {
	if err := in.checkContext(stmt); err != nil {
		return normal, err
	}
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := in.eval(s.Expression, scope)
		return normal, err
	case *ast.LetStatement:
		var v Value
		if s.Value != nil {
			var err error
			if v, err = in.eval(s.Value, scope); err != nil {
				return normal, err
			}
			v = coerce(v, s.Type)
		}
		in.env.Set(scope, s.Name.Value, v)
		return normal, nil
	case *ast.BlockStatement:
		return in.execBlock(s, scope)
	case *ast.IfStatement:
		cond, err := in.evalCondition(s.Condition, scope)
		if err != nil {
			return normal, err
		}
		if cond {
			return in.execBlock(s.Then, scope)
		}
		if s.Else != nil {
			return in.execStatement(s.Else, scope)
		}
		return normal, nil
	case *ast.MatchStatement:
		return in.execMatch(s, scope)
	case *ast.ForeachStatement:
		return in.execForeach(s, scope)
	case *ast.ReturnStatement:
		if s.Value == nil {
			return Outcome{Kind: Return, Value: Void}, nil
		}
		v, err := in.eval(s.Value, scope)
		if err != nil {
			return normal, err
		}
		return Outcome{Kind: Return, Value: v}, nil
	case *ast.ClassDeclaration, *ast.InterfaceDeclaration, *ast.ImportStatement:
		return normal, nil
	}
	return normal, in.errorf(diagnostics.ErrR001, stmt, "unsupported statement %T", stmt)
}

// execBlock runs block in a fresh frame released on exit.
func (in *Interpreter) execBlock(block *ast.BlockStatement, outer ScopeID) (Outcome, error) {
	mark := in.env.Mark()
	defer in.env.Release(mark)
	scope := in.env.Push(outer)
	for _, stmt := range block.Statements {
		out, err := in.execStatement(stmt, scope)
		if err != nil || out.Kind == Return {
			return out, err
		}
	}
	return normal, nil
}

func (in *Interpreter) evalCondition(expr ast.Expression, scope ScopeID) (bool, error) {
	v, err := in.eval(expr, scope)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, in.errorf(diagnostics.ErrR001, expr, "condition must be boolean, got %s", typeName(v))
	}
	return b, nil
}

// execMatch runs the first case whose value equals the subject, else the
// default block. Cases do not fall through.
func (in *Interpreter) execMatch(s *ast.MatchStatement, scope ScopeID) (Outcome, error) {
	subject, err := in.eval(s.Subject, scope)
	if err != nil {
		return normal, err
	}
	for _, c := range s.Cases {
		v, err := in.eval(c.Value, scope)
		if err != nil {
			return normal, err
		}
		if natives.Equal(subject, v) {
			return in.execBlock(c.Body, scope)
		}
	}
	if s.Default != nil {
		return in.execBlock(s.Default, scope)
	}
	return normal, nil
}

// execForeach drives the iteration protocol: iterator(), then rewind(),
// and hasNext()/current()/next() per element.
func (in *Interpreter) execForeach(s *ast.ForeachStatement, scope ScopeID) (Outcome, error) {
	iterable, err := in.eval(s.Iterable, scope)
	if err != nil {
		return normal, err
	}
	if iterable == nil {
		return normal, in.errorf(diagnostics.ErrR004, s.Iterable, "cannot iterate over null")
	}
	it, err := in.protocolCall(iterable, config.IteratorMethodName, s.Iterable)
	if err != nil {
		return normal, err
	}
	if it == nil {
		return normal, in.errorf(diagnostics.ErrR004, s.Iterable, "%s returned null", config.IteratorMethodName)
	}
	if _, err := in.protocolCall(it, config.RewindMethodName, s.Iterable); err != nil {
		return normal, err
	}
	for {
		more, err := in.protocolCall(it, config.HasNextMethodName, s.Iterable)
		if err != nil {
			return normal, err
		}
		b, ok := more.(bool)
		if !ok {
			return normal, in.errorf(diagnostics.ErrR005, s.Iterable, "%s must return boolean, got %s", config.HasNextMethodName, typeName(more))
		}
		if !b {
			return normal, nil
		}
		elem, err := in.protocolCall(it, config.CurrentMethodName, s.Iterable)
		if err != nil {
			return normal, err
		}

		mark := in.env.Mark()
		loop := in.env.Push(scope)
		in.env.Set(loop, s.Variable.Value, elem)
		out, err := in.execBlock(s.Body, loop)
		in.env.Release(mark)
		if err != nil || out.Kind == Return {
			return out, err
		}

		if _, err := in.protocolCall(it, config.NextMethodName, s.Iterable); err != nil {
			return normal, err
		}
	}
}

// protocolCall invokes a zero-argument iteration method, reporting a
// missing one as a protocol violation.
func (in *Interpreter) protocolCall(target Value, name string, node ast.Node) (Value, error) {
	if !in.hasMethod(target, name) {
		return nil, in.errorf(diagnostics.ErrR005, node, "%s does not implement %s()", typeName(target), name)
	}
	return in.callMethod(target, name, nil, node)
}
