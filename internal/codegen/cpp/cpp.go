// Package cpp lowers a checked program to C++17: a definition unit per
// module, a declaration unit for modules with a public surface, and the
// runtime header every unit includes.
package cpp

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/config"
	"github.com/mas6y6/REDLINE/internal/modules"
)

//go:embed runtime/rl_runtime.hpp
var RUNTIME_HEADER []byte

const RUNTIME_HEADER_NAME = "rl_runtime.hpp"

// ENTRY_FN is the function holding the top-level statements of the entry
// module; main calls it with the process context.
const ENTRY_FN = "rl_entry"

// Unit is one generated file.
type Unit struct {
	Name    string // file name inside the output directory
	Content []byte
}

// internalError marks a tree the generator cannot lower. It only happens
// when an earlier stage let an unchecked tree through.
type internalError string

func (e internalError) Error() string { return string(e) }

type cppCodegen struct {
	program   *ast.Program
	buildType config.BuildType

	module *ast.Module
	fn     *ast.FnDecl
	out    *writer
}

func NewCG(program *ast.Program) *cppCodegen {
	return &cppCodegen{program: program}
}

// Generate lowers every module in dependency order. The result is a pure
// function of the program and the build type.
func (c *cppCodegen) Generate(buildType config.BuildType) (units []*Unit, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ie, ok := r.(internalError)
		if !ok {
			panic(r)
		}
		units = nil
		err = fmt.Errorf("codegen: module %s: %w", c.module.Name, ie)
	}()

	c.buildType = buildType
	units = append(units, &Unit{Name: RUNTIME_HEADER_NAME, Content: RUNTIME_HEADER})

	for _, module := range c.program.Modules {
		c.module = module
		if module.HasPublicSymbols() {
			units = append(units, &Unit{Name: HeaderName(module), Content: c.generateHeader(module)})
		}
		units = append(units, &Unit{Name: SourceName(module), Content: c.generateSource(module)})
	}
	return units, nil
}

// HeaderName is the declaration unit of module.
func HeaderName(module *ast.Module) string { return module.Mangled + ".hpp" }

// SourceName is the definition unit of module.
func SourceName(module *ast.Module) string { return module.Mangled + ".cpp" }

func (c *cppCodegen) generateBanner(module *ast.Module) {
	c.out.linef("// Code generated by redline from %s. DO NOT EDIT.", module.Loc.Path)
	c.out.linef("// build: %s (%s)", c.buildType, strings.Join(c.buildType.CXXFlags(), " "))
	c.out.gap()
}

// generateIncludes includes the runtime and the declaration units of the
// module's imports.
func (c *cppCodegen) generateIncludes(module *ast.Module) {
	c.out.linef("#include %q", RUNTIME_HEADER_NAME)

	var headers []string
	seen := make(map[string]bool)
	for _, dep := range module.Deps {
		name := HeaderName(dep)
		if !dep.HasPublicSymbols() || seen[name] {
			continue
		}
		seen[name] = true
		headers = append(headers, name)
	}
	sort.Strings(headers)
	for _, header := range headers {
		c.out.linef("#include %q", header)
	}
	c.out.gap()
}

func (c *cppCodegen) generateHeader(module *ast.Module) []byte {
	c.out = newWriter()
	c.generateBanner(module)

	guard := headerGuard(module)
	c.out.line("#ifndef " + guard)
	c.out.line("#define " + guard)
	c.out.gap()
	c.generateIncludes(module)

	classes, fns := publicDecls(module, true)
	c.openNamespace(module)
	c.generateClassDecls(classes)
	c.generatePrototypes(fns)
	c.closeNamespace(module)

	c.out.gap()
	c.out.line("#endif  // " + guard)
	return c.out.bytes()
}

func (c *cppCodegen) generateSource(module *ast.Module) []byte {
	c.out = newWriter()
	c.generateBanner(module)
	c.generateIncludes(module)
	if module.HasPublicSymbols() {
		c.out.linef("#include %q", HeaderName(module))
		c.out.gap()
	}

	pubClasses, pubFns := publicDecls(module, true)
	privClasses, privFns := publicDecls(module, false)
	hasPrivate := len(privClasses) > 0 || len(privFns) > 0 || module.IsEntry

	c.openNamespace(module)

	if hasPrivate {
		c.openAnonymous()
		c.generateClassDecls(privClasses)
		c.generatePrototypes(privFns)
		if module.IsEntry {
			c.out.linef("void %s(rl::Context& rl_ctx);", ENTRY_FN)
			c.out.gap()
		}
		c.closeAnonymous()
	}

	c.generateDefinitions(pubClasses, pubFns)

	if hasPrivate {
		c.openAnonymous()
		c.generateDefinitions(privClasses, privFns)
		if module.IsEntry {
			c.generateEntry(module)
		}
		c.closeAnonymous()
	}

	c.closeNamespace(module)

	if module.IsEntry {
		c.generateMain(module)
	}
	return c.out.bytes()
}

// publicDecls splits the module's classes and functions by visibility,
// keeping source order.
func publicDecls(module *ast.Module, pub bool) ([]*ast.ClassDecl, []*ast.FnDecl) {
	var classes []*ast.ClassDecl
	for _, class := range module.Classes() {
		if class.Pub == pub {
			classes = append(classes, class)
		}
	}
	var fns []*ast.FnDecl
	for _, fn := range module.Functions() {
		if fn.Pub == pub {
			fns = append(fns, fn)
		}
	}
	return classes, fns
}

func (c *cppCodegen) openNamespace(module *ast.Module) {
	c.out.linef("namespace %s {", modules.Namespace(module.Mangled))
	c.out.gap()
}

func (c *cppCodegen) closeNamespace(module *ast.Module) {
	c.out.gap()
	c.out.linef("}  // namespace %s", modules.Namespace(module.Mangled))
	c.out.gap()
}

func (c *cppCodegen) openAnonymous() {
	c.out.line("namespace {")
	c.out.gap()
}

func (c *cppCodegen) closeAnonymous() {
	c.out.gap()
	c.out.line("}  // namespace")
	c.out.gap()
}

func (c *cppCodegen) generateEntry(module *ast.Module) {
	c.fn = nil
	c.out.linef("void %s(rl::Context& rl_ctx) {", ENTRY_FN)
	c.out.indent++
	c.out.line("(void)rl_ctx;")
	c.generateStmts(module.Statements())
	c.out.indent--
	c.out.line("}")
	c.out.gap()
}

func (c *cppCodegen) generateMain(module *ast.Module) {
	c.out.line("int main(int argc, char** argv) {")
	c.out.indent++
	c.out.line("rl::Context ctx(argc, argv);")
	c.out.line("try {")
	c.out.indent++
	c.out.linef("%s::%s(ctx);", namespaceOf(module), ENTRY_FN)
	c.out.indent--
	c.out.line("} catch (const std::exception& err) {")
	c.out.indent++
	c.out.line("std::cout.flush();")
	c.out.line(`std::cerr << "runtime error: " << err.what() << std::endl;`)
	c.out.line("return 1;")
	c.out.indent--
	c.out.line("}")
	c.out.line("return 0;")
	c.out.indent--
	c.out.line("}")
}

// writer accumulates indented lines. Gaps collapse so sections can ask for
// a separating blank line without tracking what came before, and a gap
// before a closing brace is dropped.
type writer struct {
	buf     bytes.Buffer
	indent  int
	pending bool
}

func newWriter() *writer { return &writer{} }

func (w *writer) line(s string) {
	if w.pending && w.buf.Len() > 0 && !strings.HasPrefix(s, "}") {
		w.buf.WriteByte('\n')
	}
	w.pending = false
	for range w.indent {
		w.buf.WriteString("    ")
	}
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *writer) gap() { w.pending = true }

func (w *writer) bytes() []byte { return w.buf.Bytes() }
