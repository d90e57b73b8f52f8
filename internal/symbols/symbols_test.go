package symbols

import (
	"testing"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/typesystem"
)

func classDecl(name string, typeParams ...string) *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{Name: &ast.Identifier{Value: name}}
	for _, p := range typeParams {
		cd.TypeParams = append(cd.TypeParams, &ast.Identifier{Value: p})
	}
	return cd
}

func TestRegistryReRegistrationIsNoOp(t *testing.T) {
	r := NewRegistry()
	first, created := r.RegisterClass(classDecl("A"))
	if !created {
		t.Fatalf("first registration should create")
	}
	second, created := r.RegisterClass(classDecl("A"))
	if created || second != first {
		t.Errorf("re-registration must return the existing symbol")
	}
	if _, created := r.RegisterInterface(&ast.InterfaceDeclaration{Name: &ast.Identifier{Value: "A"}}); created {
		t.Errorf("interface with a taken name must not be created")
	}
	if got := r.Names(); len(got) != 1 || got[0] != "A" {
		t.Errorf("unexpected names %v", got)
	}
}

func TestLookupWalksChainAndStopsAtFirst(t *testing.T) {
	r := NewRegistry()
	a, _ := r.RegisterClass(classDecl("A"))
	b, _ := r.RegisterClass(classDecl("B"))
	ca, cb := a.(*ClassSymbol), b.(*ClassSymbol)
	cb.Super = ca

	fa := &MethodSymbol{Name: "f", Owner: ca, Decl: &ast.MethodDeclaration{}}
	fb := &MethodSymbol{Name: "f", Owner: cb, Decl: &ast.MethodDeclaration{}}
	ga := &MethodSymbol{Name: "g", Owner: ca, Decl: &ast.MethodDeclaration{}}
	ctor := &MethodSymbol{Name: "constructor", IsConstructor: true, Owner: ca, Decl: &ast.MethodDeclaration{}}
	ca.AddMethod(fa)
	ca.AddMethod(ga)
	ca.AddMethod(ctor)
	cb.AddMethod(fb)
	ca.AddField(&FieldSymbol{Name: "x", Owner: ca, Modifiers: ast.ModPrivate})

	if m, _ := cb.LookupMethod("f"); m != fb {
		t.Errorf("B.f should shadow A.f")
	}
	if m, _ := cb.LookupMethod("g"); m != ga {
		t.Errorf("g should be inherited from A")
	}
	if _, ok := cb.LookupMethod("constructor"); ok {
		t.Errorf("constructors are not looked up as methods")
	}
	if m, ok := cb.LookupConstructor(); !ok || m != ctor {
		t.Errorf("constructor should be found up the chain")
	}
	if f, ok := cb.LookupField("x"); !ok || !f.IsPrivate() {
		t.Errorf("inherited private field not found")
	}
	if n := len(cb.Ancestors()); n != 2 {
		t.Errorf("expected 2 ancestors, got %d", n)
	}
}

func TestInterfaceAllMethodsSubstitutes(t *testing.T) {
	r := NewRegistry()
	base, _ := r.RegisterInterface(&ast.InterfaceDeclaration{
		Name:       &ast.Identifier{Value: "Source"},
		TypeParams: []*ast.Identifier{{Value: "T"}},
	})
	derived, _ := r.RegisterInterface(&ast.InterfaceDeclaration{
		Name:       &ast.Identifier{Value: "Iterable"},
		TypeParams: []*ast.Identifier{{Value: "E"}},
	})
	src, iter := base.(*InterfaceSymbol), derived.(*InterfaceSymbol)
	tv := src.TypeParams[0].Var
	src.AddMethod(&MethodSymbol{Name: "next", Return: tv, Owner: src, Decl: &ast.MethodDeclaration{}})
	iter.Extends = []*typesystem.InterfaceRefType{{Decl: src, Args: []typesystem.Type{iter.TypeParams[0].Var}}}
	iter.AddMethod(&MethodSymbol{Name: "iterator", Return: typesystem.Mixed, Owner: iter, Decl: &ast.MethodDeclaration{}})

	all := iter.AllMethods([]typesystem.Type{typesystem.Number})
	if len(all) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(all))
	}
	next := all[1]
	if next.Method.Name != "next" || next.Method.Return.Apply(next.Subst) != typesystem.Number {
		t.Errorf("inherited next() should return number, got %s", next.Method.Return.Apply(next.Subst))
	}
	if _, ok := iter.LookupMethod("next"); !ok {
		t.Errorf("LookupMethod should see inherited methods")
	}
	if !(&typesystem.InterfaceRefType{Decl: src}).Accepts(iter.SelfType()) {
		t.Errorf("Iterable should be accepted as Source")
	}
}

func TestScopes(t *testing.T) {
	global := NewSymbolTable()
	global.Define("x", typesystem.Number, VariableSymbol, nil)
	cls := NewClassSymbol(classDecl("Box", "T"))
	inst := NewClassScope(global, cls, false)
	body := NewMethodScope(inst, &MethodSymbol{Name: "m"})
	block := NewEnclosedSymbolTable(body, ScopeBlock)
	block.Define("y", typesystem.String, VariableSymbol, nil)

	if sym, ok := block.Find("this"); !ok || sym.Type.String() != "Box<T>" {
		t.Errorf("this should be Box<T>, got %v", sym.Type)
	}
	if _, ok := block.Find("x"); !ok {
		t.Errorf("global should be visible")
	}
	if block.EnclosingClass() != cls || block.EnclosingMethod().Name != "m" {
		t.Errorf("context not inherited")
	}
	if _, ok := NewClassScope(global, cls, true).Find("this"); ok {
		t.Errorf("static scope must not bind this")
	}
	names := block.Names()
	if names[0] != "y" {
		t.Errorf("innermost names first, got %v", names)
	}

	ts := NewTypeScope(nil)
	tv := typesystem.NewTypeVariable("T")
	ts.Bind("T", tv)
	inner := NewTypeScope(ts)
	if got, ok := inner.Resolve("T"); !ok || got != tv {
		t.Errorf("type scope should resolve through outer")
	}
}
