package modules

import "github.com/funvibe/clasp/internal/ast"

// Link concatenates resolved units into one program: libraries first, then
// dependencies in reverse discovery order, the entry file last. Origins
// records the file of every statement.
func Link(units []*Unit) *ast.Program {
	var libs, deps []*Unit
	var entry *Unit
	for _, u := range units {
		switch {
		case u.Library:
			libs = append(libs, u)
		case entry == nil:
			entry = u
		default:
			deps = append(deps, u)
		}
	}

	ordered := libs
	for i := len(deps) - 1; i >= 0; i-- {
		ordered = append(ordered, deps[i])
	}
	if entry != nil {
		ordered = append(ordered, entry)
	}

	linked := &ast.Program{Origins: make(map[ast.Statement]string)}
	if entry != nil {
		linked.File = entry.Path
		linked.Loc = entry.Program.Loc
	}
	for _, u := range ordered {
		for _, stmt := range u.Program.Statements {
			linked.Statements = append(linked.Statements, stmt)
			linked.Origins[stmt] = u.Path
		}
	}
	return linked
}
