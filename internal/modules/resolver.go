// Package modules loads the import graph reachable from an entry file and
// turns it into an ordered ast.Program.
package modules

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/parser"
)

// SOURCE_EXT is the extension of REDLINE source files.
const SOURCE_EXT = ".rl"

type Resolver struct {
	fsys      fs.FS
	root      string
	collector *diagnostics.Collector

	modules map[string]*ast.Module
}

func New(fsys fs.FS, collector *diagnostics.Collector) *Resolver {
	return &Resolver{
		fsys:      fsys,
		collector: collector,
		modules:   make(map[string]*ast.Module),
	}
}

// Resolve loads entryPath and everything it imports. Modules are parsed one
// import depth at a time; all files of a depth are parsed concurrently and
// the graph is only touched again after every parse of that depth finished.
func (r *Resolver) Resolve(entryPath string) (*ast.Program, error) {
	entryPath = path.Clean(entryPath)
	if _, err := fs.Stat(r.fsys, entryPath); err != nil {
		return nil, fmt.Errorf("entry module: %w", err)
	}
	r.root = path.Dir(entryPath)
	start := len(r.collector.Diags)

	entry := r.newModule(entryPath)
	entry.IsEntry = true

	level := []*ast.Module{entry}
	for len(level) > 0 {
		before := len(r.collector.Diags)
		if err := r.parseLevel(level); err != nil {
			return nil, err
		}
		if len(r.collector.Diags) > before {
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		level = r.linkImports(level)
	}

	modules := r.sortedModules()
	r.checkTopLevelStatements(modules)
	if r.detectCycles(entry, modules) || len(r.collector.Diags) > start {
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	program := &ast.Program{Entry: entry, Modules: topoOrder(modules)}
	return program, nil
}

func (r *Resolver) newModule(filePath string) *ast.Module {
	rel := strings.TrimPrefix(filePath, r.root+"/")
	if r.root == "." {
		rel = filePath
	}
	name := ast.ModuleNameFromPath(rel)

	module := &ast.Module{Loc: ast.LocFromPath(filePath), Name: name, Mangled: Mangle(name)}
	r.modules[name] = module
	return module
}

func (r *Resolver) parseLevel(level []*ast.Module) error {
	collectors := make([]*diagnostics.Collector, len(level))

	var g errgroup.Group
	for i, module := range level {
		collectors[i] = diagnostics.New()
		g.Go(func() error {
			src, err := fs.ReadFile(r.fsys, module.Loc.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", module.Loc.Path, err)
			}
			module.Src = src
			err = parser.ParseModule(module, collectors[i])
			if err != nil && !errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, collector := range collectors {
		r.collector.Merge(collector)
	}
	return nil
}

// linkImports binds every import of the given modules to its target,
// creating modules seen for the first time. It returns those new modules,
// sorted by name, as the next level to parse.
func (r *Resolver) linkImports(level []*ast.Module) []*ast.Module {
	var next []*ast.Module
	for _, module := range level {
		for _, imp := range module.Imports {
			name := imp.PathString()
			target, ok := r.modules[name]
			if !ok {
				filePath := r.importFile(imp)
				if _, err := fs.Stat(r.fsys, filePath); err != nil {
					r.collector.Report(
						diagnostics.IMPORT_ERROR,
						imp.Import,
						"cannot find module '%s' (looked for %s)",
						name,
						filePath,
					)
					continue
				}
				target = r.newModule(filePath)
				next = append(next, target)
			}

			imp.Module = target
			if !containsModule(module.Deps, target) {
				module.Deps = append(module.Deps, target)
			}
		}
	}

	sort.Slice(next, func(i, j int) bool { return next[i].Name < next[j].Name })
	return next
}

func (r *Resolver) importFile(imp *ast.ImportDecl) string {
	parts := make([]string, len(imp.Path))
	for i, part := range imp.Path {
		parts[i] = part.Name()
	}
	return path.Join(r.root, path.Join(parts...)+SOURCE_EXT)
}

func (r *Resolver) checkTopLevelStatements(modules []*ast.Module) {
	for _, module := range modules {
		if module.IsEntry {
			continue
		}
		if stmts := module.Statements(); len(stmts) > 0 {
			r.collector.Report(
				diagnostics.SCOPE_ERROR,
				stmts[0].Pos(),
				"top-level statements are only allowed in the entry module, '%s' is imported",
				module.Name,
			)
		}
	}
}

const (
	white = iota
	grey
	black
)

// detectCycles runs a three-colour depth-first search over the import graph
// and reports every back edge as one ImportError naming the whole cycle.
func (r *Resolver) detectCycles(entry *ast.Module, modules []*ast.Module) bool {
	color := make(map[*ast.Module]int, len(modules))
	var stack []*ast.Module
	found := false

	var visit func(m *ast.Module)
	visit = func(m *ast.Module) {
		color[m] = grey
		stack = append(stack, m)

		for _, imp := range m.Imports {
			dep := imp.Module
			if dep == nil {
				continue
			}
			switch color[dep] {
			case grey:
				r.collector.Report(diagnostics.IMPORT_ERROR, imp.Import, "import cycle: %s", cyclePath(stack, dep))
				found = true
			case white:
				visit(dep)
			}
		}

		stack = stack[:len(stack)-1]
		color[m] = black
	}

	visit(entry)
	for _, m := range modules {
		if color[m] == white {
			visit(m)
		}
	}
	return found
}

func cyclePath(stack []*ast.Module, start *ast.Module) string {
	var names []string
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			for _, m := range stack[i:] {
				names = append(names, m.Name)
			}
			break
		}
	}
	names = append(names, start.Name)
	return strings.Join(names, " -> ")
}

// topoOrder lists dependencies before their importers. Ties are broken by
// module name so the order never depends on map iteration.
func topoOrder(modules []*ast.Module) []*ast.Module {
	visited := make(map[*ast.Module]bool, len(modules))
	order := make([]*ast.Module, 0, len(modules))

	var visit func(m *ast.Module)
	visit = func(m *ast.Module) {
		if visited[m] {
			return
		}
		visited[m] = true

		deps := append([]*ast.Module(nil), m.Deps...)
		sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
		for _, dep := range deps {
			visit(dep)
		}
		order = append(order, m)
	}

	for _, m := range modules {
		visit(m)
	}
	return order
}

func (r *Resolver) sortedModules() []*ast.Module {
	modules := make([]*ast.Module, 0, len(r.modules))
	for _, m := range r.modules {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return modules
}

func containsModule(modules []*ast.Module, target *ast.Module) bool {
	for _, m := range modules {
		if m == target {
			return true
		}
	}
	return false
}
