package sema

import "github.com/mas6y6/REDLINE/internal/ast"

var (
	typeT = ast.NewTypeParam("T")
	typeK = ast.NewTypeParam("K")
	typeV = ast.NewTypeParam("V")

	listOfT      = ast.NewListType(typeT)
	dictOfKV     = ast.NewDictType(typeK, typeV)
	listOfString = ast.NewListType(ast.STRING_TYPE)
)

func sig(params ...*ast.Type) []*ast.Type { return params }

// BUILTINS is the standard-library call surface. Generated code calls each
// entry as rl::<Name> from the runtime header.
var BUILTINS = []*ast.Builtin{
	{Name: "print", Params: sig(ast.INT_TYPE), Ret: ast.VOID_TYPE},
	{Name: "print", Params: sig(ast.FLOAT_TYPE), Ret: ast.VOID_TYPE},
	{Name: "print", Params: sig(ast.STRING_TYPE), Ret: ast.VOID_TYPE},
	{Name: "print", Params: sig(ast.BOOL_TYPE), Ret: ast.VOID_TYPE},
	{Name: "input", Params: sig(), Ret: ast.STRING_TYPE},
	{Name: "input", Params: sig(ast.STRING_TYPE), Ret: ast.STRING_TYPE},

	{Name: "str", Params: sig(ast.INT_TYPE), Ret: ast.STRING_TYPE},
	{Name: "str", Params: sig(ast.FLOAT_TYPE), Ret: ast.STRING_TYPE},
	{Name: "str", Params: sig(ast.BOOL_TYPE), Ret: ast.STRING_TYPE},
	{Name: "str", Params: sig(ast.STRING_TYPE), Ret: ast.STRING_TYPE},
	{Name: "parse_int", Params: sig(ast.STRING_TYPE), Ret: ast.INT_TYPE},
	{Name: "parse_float", Params: sig(ast.STRING_TYPE), Ret: ast.FLOAT_TYPE},

	{Name: "len", Params: sig(listOfT), Ret: ast.INT_TYPE},
	{Name: "len", Params: sig(dictOfKV), Ret: ast.INT_TYPE},
	{Name: "len", Params: sig(ast.STRING_TYPE), Ret: ast.INT_TYPE},
	{Name: "append", Params: sig(listOfT, typeT), Ret: ast.VOID_TYPE, Mutates: true},
	{Name: "sort", Params: sig(listOfT), Ret: ast.VOID_TYPE, Mutates: true},
	{Name: "reverse", Params: sig(listOfT), Ret: ast.VOID_TYPE, Mutates: true},
	{Name: "find", Params: sig(listOfT, typeT), Ret: ast.INT_TYPE},
	{Name: "contains", Params: sig(dictOfKV, typeK), Ret: ast.BOOL_TYPE},

	{Name: "sqrt", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "pow", Params: sig(ast.FLOAT_TYPE, ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "abs", Params: sig(ast.INT_TYPE), Ret: ast.INT_TYPE},
	{Name: "abs", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "floor", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "ceil", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "round", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "sin", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "cos", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "tan", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "log", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "exp", Params: sig(ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "min", Params: sig(ast.INT_TYPE, ast.INT_TYPE), Ret: ast.INT_TYPE},
	{Name: "min", Params: sig(ast.FLOAT_TYPE, ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},
	{Name: "max", Params: sig(ast.INT_TYPE, ast.INT_TYPE), Ret: ast.INT_TYPE},
	{Name: "max", Params: sig(ast.FLOAT_TYPE, ast.FLOAT_TYPE), Ret: ast.FLOAT_TYPE},

	{Name: "file_exists", Params: sig(ast.STRING_TYPE), Ret: ast.BOOL_TYPE},
	{Name: "read_file", Params: sig(ast.STRING_TYPE), Ret: ast.STRING_TYPE},
	{Name: "write_file", Params: sig(ast.STRING_TYPE, ast.STRING_TYPE), Ret: ast.VOID_TYPE},
	{Name: "remove_file", Params: sig(ast.STRING_TYPE), Ret: ast.VOID_TYPE},
	{Name: "make_dir", Params: sig(ast.STRING_TYPE), Ret: ast.VOID_TYPE},
	{Name: "list_dir", Params: sig(ast.STRING_TYPE), Ret: listOfString},

	{Name: "clock", Params: sig(), Ret: ast.FLOAT_TYPE},
	{Name: "sleep", Params: sig(ast.FLOAT_TYPE), Ret: ast.VOID_TYPE},
	{Name: "random_int", Params: sig(ast.INT_TYPE, ast.INT_TYPE), Ret: ast.INT_TYPE},
	{Name: "random_float", Params: sig(), Ret: ast.FLOAT_TYPE},

	{Name: "args", Params: sig(), Ret: listOfString, TopOnly: true},
}

// Universe returns a fresh outermost scope holding the builtins. Module
// scopes nest inside it, so a module function of the same name hides the
// whole builtin overload set.
func Universe() *ast.Scope {
	universe := ast.NewScope(nil, ast.SCOPE_UNIVERSE)
	for _, builtin := range BUILTINS {
		sym, err := universe.LookupCurrentScope(builtin.Name)
		if err != nil {
			sym = &ast.Symbol{Kind: ast.SYMBOL_FUNC, Name: builtin.Name, Public: true}
			universe.Insert(builtin.Name, sym)
		}
		sym.Builtins = append(sym.Builtins, builtin)
	}
	return universe
}
