package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/funvibe/clasp/internal/ast"
)

// Binding strength of binary operators, tighter binds higher. Mirrors the
// parser's table.
var operatorPrecedence = map[string]int{
	"=":  1,
	"||": 2,
	"&&": 3,
	"==": 4,
	"!=": 4,
	"<":  5,
	">":  5,
	"<=": 5,
	">=": 5,
	"+":  6,
	"-":  6,
	"*":  7,
	"/":  7,
	"%":  7,
}

const (
	precLowest  = 0
	precPrefix  = 8
	precPostfix = 9
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return precPostfix
}

// CodePrinter writes an AST back as source code in canonical layout.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format prints program with a blank line around type declarations.
func Format(program *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) PrintProgram(program *ast.Program) {
	var prev ast.Statement
	for _, stmt := range program.Statements {
		if prev != nil && (isDeclaration(stmt) || isDeclaration(prev) || isImport(prev) && !isImport(stmt)) {
			p.writeln()
		}
		p.printStatement(stmt)
		prev = stmt
	}
}

func isDeclaration(s ast.Statement) bool {
	switch s.(type) {
	case *ast.ClassDeclaration, *ast.InterfaceDeclaration:
		return true
	}
	return false
}

func isImport(s ast.Statement) bool {
	_, ok := s.(*ast.ImportStatement)
	return ok
}

// --- Statements ---

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	p.writeIndent()
	switch s := stmt.(type) {
	case *ast.ImportStatement:
		p.write("import ")
		if len(s.Names) > 0 {
			names := make([]string, len(s.Names))
			for i, n := range s.Names {
				names[i] = n.Value
			}
			p.write("{ " + strings.Join(names, ", ") + " } from ")
		}
		p.write(quote(s.Path.Value) + ";")
	case *ast.LetStatement:
		p.write("let " + s.Name.Value)
		if s.Type != nil {
			p.write(": " + s.Type.String())
		}
		if s.Value != nil {
			p.write(" = ")
			p.printExpr(s.Value, precLowest)
		}
		p.write(";")
	case *ast.ExpressionStatement:
		p.printExpr(s.Expression, precLowest)
		p.write(";")
	case *ast.ReturnStatement:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value, precLowest)
		}
		p.write(";")
	case *ast.BlockStatement:
		p.printBlock(s)
	case *ast.IfStatement:
		p.printIf(s)
	case *ast.MatchStatement:
		p.write("match (")
		p.printExpr(s.Subject, precLowest)
		p.write(") {")
		p.writeln()
		p.indent++
		for _, c := range s.Cases {
			p.writeIndent()
			p.printExpr(c.Value, precLowest)
			p.write(" => ")
			p.printBlock(c.Body)
			p.writeln()
		}
		if s.Default != nil {
			p.writeIndent()
			p.write("default => ")
			p.printBlock(s.Default)
			p.writeln()
		}
		p.indent--
		p.writeIndent()
		p.write("}")
	case *ast.ForeachStatement:
		p.write("foreach (" + s.Variable.Value + " in ")
		p.printExpr(s.Iterable, precLowest)
		p.write(") ")
		p.printBlock(s.Body)
	case *ast.ClassDeclaration:
		p.printClass(s)
	case *ast.InterfaceDeclaration:
		p.printInterface(s)
	}
	p.writeln()
}

// printBlock prints `{ ... }` starting at the current column.
func (p *CodePrinter) printBlock(b *ast.BlockStatement) {
	if len(b.Statements) == 0 {
		p.write("{ }")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, stmt := range b.Statements {
		p.printStatement(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printIf(s *ast.IfStatement) {
	p.write("if (")
	p.printExpr(s.Condition, precLowest)
	p.write(") ")
	p.printBlock(s.Then)
	switch e := s.Else.(type) {
	case *ast.IfStatement:
		p.write(" else ")
		p.printIf(e)
	case *ast.BlockStatement:
		p.write(" else ")
		p.printBlock(e)
	}
}

// --- Declarations ---

func (p *CodePrinter) printAnnotations(annotations []*ast.Annotation) {
	for _, a := range annotations {
		p.write("@" + a.Name + " ")
	}
}

func (p *CodePrinter) printClass(c *ast.ClassDeclaration) {
	p.printAnnotations(c.Annotations)
	if c.Open {
		p.write("open ")
	}
	p.write("class " + c.Name.Value + typeParams(c.TypeParams))
	if c.Extends != nil {
		p.write(" extends " + c.Extends.String())
	}
	if len(c.Implements) > 0 {
		p.write(" implements " + joinTypes(c.Implements))
	}
	p.printMembers(c.Fields, c.Methods)
}

func (p *CodePrinter) printInterface(i *ast.InterfaceDeclaration) {
	p.printAnnotations(i.Annotations)
	p.write("interface " + i.Name.Value + typeParams(i.TypeParams))
	if len(i.Extends) > 0 {
		p.write(" extends " + joinTypes(i.Extends))
	}
	p.printMembers(i.Fields, i.Methods)
}

// printMembers prints fields first, then methods, each method separated by
// a blank line when it has a body.
func (p *CodePrinter) printMembers(fields []*ast.FieldDeclaration, methods []*ast.MethodDeclaration) {
	if len(fields) == 0 && len(methods) == 0 {
		p.write(" { }")
		return
	}
	p.write(" {")
	p.writeln()
	p.indent++
	for _, f := range fields {
		p.writeIndent()
		p.printAnnotations(f.Annotations)
		p.write(modifiers(f.Modifiers) + f.Name.Value)
		if f.Type != nil {
			p.write(": " + f.Type.String())
		}
		if f.Init != nil {
			p.write(" = ")
			p.printExpr(f.Init, precLowest)
		}
		p.write(";")
		p.writeln()
	}
	for i, m := range methods {
		if m.Body != nil && (i > 0 || len(fields) > 0) {
			p.writeln()
		}
		p.writeIndent()
		p.printMethod(m)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printMethod(m *ast.MethodDeclaration) {
	p.printAnnotations(m.Annotations)
	mods := m.Modifiers
	if m.IsConstructor {
		// constructors are always public
		mods &^= ast.ModPublic
	}
	p.write(modifiers(mods) + m.Name.Value + typeParams(m.TypeParams))
	p.printParams(m.Params)
	if m.ReturnType != nil {
		p.write(": " + m.ReturnType.String())
	}
	if m.Body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	p.printBlock(m.Body)
}

func (p *CodePrinter) printParams(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name.Value)
		if param.Type != nil {
			p.write(": " + param.Type.String())
		}
		if param.Default != nil {
			p.write(" = ")
			p.printExpr(param.Default, precLowest)
		}
	}
	p.write(")")
}

func modifiers(m ast.Modifiers) string {
	if s := m.String(); s != "" {
		return s + " "
	}
	return ""
}

func typeParams(params []*ast.Identifier) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, tp := range params {
		names[i] = tp.Value
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func joinTypes(types []ast.TypeNode) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func quote(s string) string {
	return `"` + s + `"`
}

// --- Expressions ---

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int) {
	prec := exprPrecedence(expr)
	if prec < parentPrec {
		p.write("(")
		defer p.write(")")
	}

	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.NumberLiteral:
		p.write(e.String())
	case *ast.StringLiteral:
		p.write(quote(e.Value))
	case *ast.BooleanLiteral, *ast.NullLiteral, *ast.ThisExpression, *ast.SuperExpression:
		p.write(e.String())
	case *ast.BinaryExpression:
		// left associative: an equal-precedence right operand needs parens
		p.printExpr(e.Left, prec)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec+1)
	case *ast.AssignmentExpression:
		// right associative
		p.printExpr(e.Target, prec+1)
		p.write(" = ")
		p.printExpr(e.Value, prec)
	case *ast.UnaryExpression:
		p.write(e.Operator)
		p.printExpr(e.Operand, precPrefix)
	case *ast.MemberExpression:
		p.printExpr(e.Object, precPostfix)
		p.write("." + e.Property.Value)
	case *ast.IndexExpression:
		p.printExpr(e.Object, precPostfix)
		p.write("[")
		p.printExpr(e.Index, precLowest)
		p.write("]")
	case *ast.CallExpression:
		p.printExpr(e.Callee, precPostfix)
		p.printArgs(e.Args)
	case *ast.NewExpression:
		p.write("new " + e.Type.String())
		p.printArgs(e.Args)
	case *ast.ArrayLiteral:
		p.write("[")
		p.printList(e.Elements)
		p.write("]")
	case *ast.LambdaExpression:
		p.printParams(e.Params)
		if e.ReturnType != nil {
			p.write(": " + e.ReturnType.String())
		}
		p.write(" -> ")
		if e.BodyBlock != nil {
			p.printBlock(e.BodyBlock)
		} else {
			p.printExpr(e.BodyExpr, precLowest)
		}
	case *ast.VDomElement:
		p.write("vdom ")
		p.printElement(e)
	default:
		p.write(expr.String())
	}
}

// exprPrecedence is how tightly expr holds together when nested.
func exprPrecedence(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		return getPrecedence(e.Operator)
	case *ast.AssignmentExpression:
		return getPrecedence("=")
	case *ast.UnaryExpression:
		return precPrefix
	case *ast.LambdaExpression, *ast.VDomElement:
		return precLowest
	}
	return precPostfix
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	p.write("(")
	p.printList(args)
	p.write(")")
}

func (p *CodePrinter) printList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, precLowest)
	}
}

// printElement prints markup without the vdom keyword.
func (p *CodePrinter) printElement(e *ast.VDomElement) {
	p.write("<" + e.Tag)
	for _, a := range e.Attributes {
		p.write(" " + a.Name)
		switch v := a.Value.(type) {
		case nil:
		case *ast.StringLiteral:
			p.write("=" + quote(v.Value))
		default:
			p.write("={")
			p.printExpr(v, precLowest)
			p.write("}")
		}
	}
	if e.SelfClosing {
		p.write("/>")
		return
	}
	p.write(">")
	for _, child := range e.Children {
		switch c := child.(type) {
		case *ast.VDomElement:
			p.printElement(c)
		case *ast.VDomText:
			p.write(c.Text)
		case *ast.VDomExpression:
			p.write("{")
			p.printExpr(c.Expr, precLowest)
			p.write("}")
		}
	}
	p.write("</" + e.Tag + ">")
}
