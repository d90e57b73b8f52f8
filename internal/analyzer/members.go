package analyzer

import (
	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/typesystem"
)

// member is a resolved field or method together with the substitution
// from its owner's type parameters to the receiver's view. Both symbols are
// nil when the receiver is an unresolved type variable.
type member struct {
	field  *symbols.FieldSymbol
	method *symbols.MethodSymbol
	subst  typesystem.Subst
}

func (m member) dynamic() bool { return m.field == nil && m.method == nil }

// Type is the member's type as seen by the receiver. Methods read as their
// signature.
func (m member) Type() typesystem.Type {
	switch {
	case m.field != nil && m.field.Type == nil:
		// initialiser not inferred yet
		return typesystem.NewTypeVariable(m.field.Name)
	case m.field != nil:
		return m.field.Type.Apply(m.subst)
	case m.method != nil:
		return m.method.Signature().Apply(m.subst)
	}
	return typesystem.NewTypeVariable("member")
}

// receiver is the static view of the object of a member access.
type receiver struct {
	decl   symbols.Declaration
	args   []typesystem.Type
	static bool
	super  bool
}

// resolveReceiver types object and returns the declaration whose members
// are visible through it. ok is false for type-variable receivers.
func (a *Analyzer) resolveReceiver(object ast.Expression, scope *symbols.SymbolTable) (receiver, bool) {
	if _, isSuper := object.(*ast.SuperExpression); isSuper {
		cls := scope.EnclosingClass()
		if cls == nil || cls.Super == nil || scope.IsStatic() {
			a.fail(diagnostics.ErrT007, object, "super is only available in instance members of a subclass")
		}
		a.TypeMap[object] = cls.SuperRef
		return receiver{decl: cls.Super, args: cls.SuperRef.Args, super: true}, true
	}

	t := a.inferExpression(object, scope, nil)
	if inner, ok := typesystem.Unwrap(t); ok {
		t = inner
	}
	switch rt := t.(type) {
	case *typesystem.TypeVariable:
		return receiver{}, false
	case *typesystem.StaticType:
		return receiver{decl: rt.Decl.(symbols.Declaration), static: true}, true
	case *typesystem.ClassRefType, *typesystem.InterfaceRefType:
		decl, args, _ := typesystem.RefParts(rt)
		return receiver{decl: decl.(symbols.Declaration), args: args}, true
	case *typesystem.PrimitiveType:
		if cls, ok := a.boxed(rt); ok {
			return receiver{decl: cls}, true
		}
	}
	a.fail(diagnostics.ErrT003, object, "values of type %s have no members", t)
	return receiver{}, false
}

// lookupMember finds name on the receiver and applies the access rules of
// the enclosing scope.
func (a *Analyzer) lookupMember(recv receiver, name *ast.Identifier, scope *symbols.SymbolTable) member {
	var field *symbols.FieldSymbol
	var method *symbols.MethodSymbol
	var subst typesystem.Subst
	var candidates []string

	switch d := recv.decl.(type) {
	case *symbols.ClassSymbol:
		if f, ok := d.LookupField(name.Value); ok {
			field = f
		} else if m, ok := d.LookupMethod(name.Value); ok {
			method = m
		}
		candidates = d.VisibleMemberNames()
	case *symbols.InterfaceSymbol:
		if f, ok := d.LookupField(name.Value); ok {
			field = f
		} else {
			for _, im := range d.AllMethods(recv.args) {
				if im.Method.Name == name.Value {
					method, subst = im.Method, im.Subst
					break
				}
			}
		}
		for _, im := range d.AllMethods(nil) {
			candidates = append(candidates, im.Method.Name)
		}
		candidates = append(candidates, d.MemberNames()...)
	}
	if field == nil && method == nil {
		a.fail(diagnostics.ErrT003, name, "%s has no member %s%s", recv.decl.DeclName(), name.Value, suggest(name.Value, candidates))
	}

	var owner symbols.Declaration
	var static, private bool
	if field != nil {
		owner, static, private = field.Owner, field.IsStatic(), field.IsPrivate()
	} else {
		owner, static, private = method.Owner, method.IsStatic(), method.IsPrivate()
	}
	if recv.static && !static {
		a.fail(diagnostics.ErrT004, name, "instance member %s cannot be accessed through class %s", name.Value, recv.decl.DeclName())
	}
	if !recv.static && static {
		a.fail(diagnostics.ErrT004, name, "static member %s must be accessed through class %s", name.Value, owner.DeclName())
	}
	if private && !canSeePrivate(scope, owner) {
		a.fail(diagnostics.ErrT004, name, "%s is private to %s", name.Value, owner.DeclName())
	}

	if subst == nil {
		view, _ := typesystem.AsAncestor(recv.decl, recv.args, owner)
		subst = typesystem.NewSubst(owner.TypeParameters(), view)
	}
	return member{field: field, method: method, subst: subst}
}

// canSeePrivate allows the declaring class and its direct subclass only.
func canSeePrivate(scope *symbols.SymbolTable, owner symbols.Declaration) bool {
	encl := scope.EnclosingClass()
	if encl == nil {
		iface := scope.EnclosingInterface()
		return iface != nil && symbols.Declaration(iface) == owner
	}
	if symbols.Declaration(encl) == owner {
		return true
	}
	return encl.Super != nil && symbols.Declaration(encl.Super) == owner
}

func (a *Analyzer) inferMember(e *ast.MemberExpression, scope *symbols.SymbolTable) typesystem.Type {
	recv, ok := a.resolveReceiver(e.Object, scope)
	if !ok {
		return typesystem.NewTypeVariable(e.Property.Value)
	}
	return a.lookupMember(recv, e.Property, scope).Type()
}

// checkFieldAssignable rejects assignment to methods and to readonly
// fields outside a constructor of the declaring class.
func (a *Analyzer) checkFieldAssignable(m member, node *ast.Identifier, scope *symbols.SymbolTable) {
	if m.method != nil {
		a.fail(diagnostics.ErrT002, node, "cannot assign to method %s", node.Value)
	}
	if m.field == nil || !m.field.IsReadonly() {
		return
	}
	method := scope.EnclosingMethod()
	inCtor := method != nil && method.IsConstructor && symbols.Declaration(scope.EnclosingClass()) == m.field.Owner
	if !inCtor {
		a.fail(diagnostics.ErrT004, node, "readonly field %s can only be assigned in a constructor of %s", node.Value, m.field.Owner.DeclName())
	}
}
