// Package handlecheck defines an Analyzer that checks that pool handles
// are not leaked.
//
// # Analyzer handlecheck
//
// handlecheck: check that *pool.Handle and *pool.GroupHandle results are used
//
// A handle returned by Pool.AcquireOne, Pool.Acquire and friends owns
// checked-out slots until it is closed, released, moved or handed to
// someone else. The analyzer reports
//
//   - a handle result assigned to the blank identifier, unless the line
//     carries a //pool:owned comment
//   - a handle variable that is not used on every path from its
//     definition to a return
//
// Paths that leave through an "if err != nil" check of the error returned
// by the same call are not considered, since the handle is nil there.
package handlecheck

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/ctrlflow"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/cfg"
)

const (
	poolPkgName     = "pool"
	ownedDirective  = "//pool:owned"
	msgDiscarded    = "the handle returned by %s should be closed, not discarded, to avoid leaking pool slots"
	msgNotOnAllPath = "the handle is not closed or released on all paths (possible pool leak)"
)

var handleTypeNames = map[string]bool{
	"Handle":      true,
	"GroupHandle": true,
}

var Analyzer = &analysis.Analyzer{
	Name: "handlecheck",
	Doc:  "check that *pool.Handle and *pool.GroupHandle results are used",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
		ctrlflow.Analyzer,
	},
}

func run(pass *analysis.Pass) (any, error) {
	if !importsPool(pass.Pkg) {
		return nil, nil
	}

	c := newChecker(pass)
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	filter := []ast.Node{
		(*ast.AssignStmt)(nil),
		(*ast.ValueSpec)(nil),
	}

	ins.WithStack(filter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}

		fn := enclosingFunc(stack)
		if fn == nil {
			return true // package-level var
		}

		switch n := n.(type) {
		case *ast.AssignStmt:
			c.checkDef(fn, n, n.Lhs, n.Rhs)

		case *ast.ValueSpec:
			lhs := make([]ast.Expr, len(n.Names))
			for i, name := range n.Names {
				lhs[i] = name
			}
			c.checkDef(fn, n, lhs, n.Values)
		}

		return true
	})

	return nil, nil
}

// checker holds per-package state shared by every definition it checks.
type checker struct {
	pass *analysis.Pass
	cfgs *ctrlflow.CFGs

	// uses maps each variable to the positions of its identifiers.
	uses map[*types.Var][]token.Pos

	// owned lists, per file, the lines carrying the owned directive.
	owned map[*token.File]map[int]bool

	// graphs caches the control-flow graph of each function by node.
	graphs map[ast.Node]*funcGraph
}

type funcGraph struct {
	g  *cfg.CFG
	at map[ast.Node]location
}

// location is where a statement sits within a CFG.
type location struct {
	block *cfg.Block
	index int
}

func newChecker(pass *analysis.Pass) *checker {
	c := &checker{
		pass:   pass,
		cfgs:   pass.ResultOf[ctrlflow.Analyzer].(*ctrlflow.CFGs),
		uses:   make(map[*types.Var][]token.Pos),
		owned:  make(map[*token.File]map[int]bool),
		graphs: make(map[ast.Node]*funcGraph),
	}

	for id, obj := range pass.TypesInfo.Uses {
		if v, ok := obj.(*types.Var); ok {
			c.uses[v] = append(c.uses[v], id.Pos())
		}
	}

	for _, f := range pass.Files {
		tf := pass.Fset.File(f.Pos())
		if tf == nil {
			continue
		}
		for _, group := range f.Comments {
			for _, comment := range group.List {
				if !strings.HasPrefix(comment.Text, ownedDirective) {
					continue
				}
				if c.owned[tf] == nil {
					c.owned[tf] = make(map[int]bool)
				}
				c.owned[tf][tf.Line(comment.Pos())] = true
			}
		}
	}

	return c
}

// checkDef looks at one definition "lhs = rhs" inside fn.
func (c *checker) checkDef(fn, def ast.Node, lhs, rhs []ast.Expr) {
	if len(rhs) != 1 {
		return
	}

	call, ok := ast.Unparen(rhs[0]).(*ast.CallExpr)
	if !ok {
		return
	}

	handleIdx, errIdx := resultIndexes(c.pass.TypesInfo, call)
	if handleIdx < 0 || handleIdx >= len(lhs) {
		return
	}

	id, ok := lhs[handleIdx].(*ast.Ident)
	if !ok {
		return // stored into a field, index or dereference
	}

	if id.Name == "_" {
		if !c.ownedAt(def) {
			c.pass.ReportRangef(id, msgDiscarded, callName(call))
		}
		return
	}

	v := c.varOf(id)
	if v == nil {
		return
	}

	var errVar *types.Var
	if errIdx >= 0 && errIdx < len(lhs) {
		if errID, ok := lhs[errIdx].(*ast.Ident); ok && errID.Name != "_" {
			errVar = c.varOf(errID)
		}
	}

	c.checkReleased(fn, def, v, errVar)
}

// checkReleased reports def when some path from it reaches the end of fn
// without mentioning v.
func (c *checker) checkReleased(fn, def ast.Node, v, errVar *types.Var) {
	fg := c.graphOf(fn)
	if fg == nil {
		return
	}

	loc, ok := fg.at[def]
	if !ok {
		return
	}

	if c.mentionedIn(v, loc.block.Nodes[loc.index+1:]) {
		return
	}

	// The defining block may itself end in the error check.
	if len(loc.block.Succs) == 0 || c.escapes(v, errVar, c.liveSuccs(loc.block, errVar)) {
		c.pass.ReportRangef(def, msgNotOnAllPath)
	}
}

// escapes walks the graph from start and reports whether some block with
// no successors is reachable through blocks that never mention v.
func (c *checker) escapes(v, errVar *types.Var, start []*cfg.Block) bool {
	seen := make(map[*cfg.Block]bool)
	work := slices.Clone(start)

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]

		if seen[b] {
			continue
		}
		seen[b] = true

		if c.mentionedIn(v, b.Nodes) {
			continue
		}
		if len(b.Succs) == 0 {
			return true
		}
		work = append(work, c.liveSuccs(b, errVar)...)
	}

	return false
}

// liveSuccs returns the successors of b that can be reached while the
// handle is non-nil. When b ends in "err != nil" (or "err == nil") for the
// call's error, the branch where err is set is dropped.
func (c *checker) liveSuccs(b *cfg.Block, errVar *types.Var) []*cfg.Block {
	if errVar == nil || len(b.Succs) != 2 || len(b.Nodes) == 0 {
		return b.Succs
	}

	cond, ok := b.Nodes[len(b.Nodes)-1].(*ast.BinaryExpr)
	if !ok || !c.comparesToNil(cond, errVar) {
		return b.Succs
	}

	// Succs[0] is the true branch, Succs[1] the false branch.
	if cond.Op == token.NEQ {
		return b.Succs[1:]
	}
	return b.Succs[:1]
}

func (c *checker) comparesToNil(cond *ast.BinaryExpr, errVar *types.Var) bool {
	if cond.Op != token.NEQ && cond.Op != token.EQL {
		return false
	}

	info := c.pass.TypesInfo
	isErr := func(e ast.Expr) bool {
		id, ok := ast.Unparen(e).(*ast.Ident)
		return ok && info.Uses[id] == errVar
	}
	isNil := func(e ast.Expr) bool {
		if id, ok := ast.Unparen(e).(*ast.Ident); ok {
			if _, ok := info.Uses[id].(*types.Nil); ok {
				return true
			}
		}
		tv, ok := info.Types[e]
		return ok && tv.IsNil()
	}

	return (isErr(cond.X) && isNil(cond.Y)) || (isNil(cond.X) && isErr(cond.Y))
}

// mentionedIn reports whether any identifier for v lies inside nodes.
func (c *checker) mentionedIn(v *types.Var, nodes []ast.Node) bool {
	positions := c.uses[v]
	for _, n := range nodes {
		for _, pos := range positions {
			if n.Pos() <= pos && pos < n.End() {
				return true
			}
		}
	}
	return false
}

func (c *checker) graphOf(fn ast.Node) *funcGraph {
	if fg, ok := c.graphs[fn]; ok {
		return fg
	}

	var g *cfg.CFG
	switch fn := fn.(type) {
	case *ast.FuncDecl:
		g = c.cfgs.FuncDecl(fn)
	case *ast.FuncLit:
		g = c.cfgs.FuncLit(fn)
	}

	var fg *funcGraph
	if g != nil {
		fg = &funcGraph{g: g, at: make(map[ast.Node]location)}
		for _, b := range g.Blocks {
			for i, n := range b.Nodes {
				fg.at[n] = location{block: b, index: i}
			}
		}
	}

	c.graphs[fn] = fg
	return fg
}

func (c *checker) varOf(id *ast.Ident) *types.Var {
	if v, ok := c.pass.TypesInfo.ObjectOf(id).(*types.Var); ok {
		return v
	}
	return nil
}

func (c *checker) ownedAt(n ast.Node) bool {
	tf := c.pass.Fset.File(n.Pos())
	if tf == nil {
		return false
	}
	return c.owned[tf][tf.Line(n.Pos())]
}

// enclosingFunc returns the innermost function around the last node of
// stack, or nil at package level.
func enclosingFunc(stack []ast.Node) ast.Node {
	for i := len(stack) - 2; i >= 0; i-- {
		switch stack[i].(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			return stack[i]
		}
	}
	return nil
}

// resultIndexes returns the positions of the pool handle and of the error
// in the call's results, or -1 for either.
func resultIndexes(info *types.Info, call *ast.CallExpr) (handle, errIdx int) {
	handle, errIdx = -1, -1

	t := info.TypeOf(call)
	if t == nil {
		return handle, errIdx
	}

	tuple, ok := t.(*types.Tuple)
	if !ok {
		if isHandleType(t) {
			handle = 0
		}
		return handle, errIdx
	}

	errType := types.Universe.Lookup("error").Type()
	for i := range tuple.Len() {
		rt := tuple.At(i).Type()
		switch {
		case handle < 0 && isHandleType(rt):
			handle = i
		case errIdx < 0 && types.Identical(rt, errType):
			errIdx = i
		}
	}

	return handle, errIdx
}

func isHandleType(t types.Type) bool {
	ptr, ok := t.(*types.Pointer)
	if !ok {
		return false
	}

	named, ok := ptr.Elem().(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	return handleTypeNames[obj.Name()] && obj.Pkg() != nil && isPoolPath(obj.Pkg().Path())
}

func isPoolPath(path string) bool {
	return path == poolPkgName || strings.HasSuffix(path, "/"+poolPkgName)
}

func importsPool(pkg *types.Package) bool {
	if isPoolPath(pkg.Path()) {
		return false // the pool package itself builds and recycles handles
	}
	return slices.ContainsFunc(pkg.Imports(), func(imp *types.Package) bool {
		return isPoolPath(imp.Path())
	})
}

func callName(call *ast.CallExpr) string {
	fun := ast.Unparen(call.Fun)
	if ix, ok := fun.(*ast.IndexExpr); ok {
		fun = ix.X // explicit instantiation, as in New[int]
	}

	switch fn := fun.(type) {
	case *ast.SelectorExpr:
		return fn.Sel.Name
	case *ast.Ident:
		return fn.Name
	}

	return "<call>"
}
