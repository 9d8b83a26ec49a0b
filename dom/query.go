package dom

import (
	"fmt"

	"github.com/antchfx/xpath"
	"github.com/minxomat/DiDOM/css"
	"golang.org/x/exp/slices"
)

// EvaluationError reports an expression the xpath evaluator rejected: a
// compiler defect for type css, or invalid passthrough text for type xpath.
// It is never retried.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %s", e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Find returns all nodes matching the expression, in document order.
func (d *Document) Find(expr string, typ css.ExprType) ([]*Element, error) {
	ids, err := d.FindIDs(expr, typ)
	if err != nil {
		return nil, err
	}
	return d.elements(ids), nil
}

// FindIDs is Find returning raw arena indices instead of handles.
func (d *Document) FindIDs(expr string, typ css.ExprType) ([]NodeID, error) {
	return d.query(0, expr, typ, 0)
}

// First returns the first matching node, or nil when nothing matches.
func (d *Document) First(expr string, typ css.ExprType) (*Element, error) {
	return first(d, 0, expr, typ)
}

// Has reports whether anything matches.
func (d *Document) Has(expr string, typ css.ExprType) (bool, error) {
	ids, err := d.query(0, expr, typ, 1)
	return len(ids) > 0, err
}

// Count returns the number of matches. For css expressions the evaluator
// counts without materializing any handles.
func (d *Document) Count(expr string, typ css.ExprType) (int, error) {
	return count(d, 0, expr, typ)
}

// Find returns all nodes matching the expression inside e, in document
// order. Css expressions are compiled relative to e; xpath expressions are
// evaluated verbatim with e as the context node.
func (e *Element) Find(expr string, typ css.ExprType) ([]*Element, error) {
	ids, err := e.FindIDs(expr, typ)
	if err != nil {
		return nil, err
	}
	return e.doc.elements(ids), nil
}

// FindIDs is Find returning raw arena indices instead of handles.
func (e *Element) FindIDs(expr string, typ css.ExprType) ([]NodeID, error) {
	return e.doc.query(e.id, expr, typ, 0)
}

func (e *Element) First(expr string, typ css.ExprType) (*Element, error) {
	return first(e.doc, e.id, expr, typ)
}

func (e *Element) Has(expr string, typ css.ExprType) (bool, error) {
	ids, err := e.doc.query(e.id, expr, typ, 1)
	return len(ids) > 0, err
}

func (e *Element) Count(expr string, typ css.ExprType) (int, error) {
	return count(e.doc, e.id, expr, typ)
}

func first(d *Document, ctx NodeID, expr string, typ css.ExprType) (*Element, error) {
	ids, err := d.query(ctx, expr, typ, 1)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return d.element(ids[0]), nil
}

func count(d *Document, ctx NodeID, expr string, typ css.ExprType) (int, error) {
	path, err := compileFor(ctx, expr, typ)
	if err != nil {
		return 0, err
	}
	// The count-only path only makes sense when the expression is known to
	// be a location path, i.e. for compiled css.
	if typ == css.TypeCSS {
		if v, err := evaluate(d, ctx, "count("+path+")"); err == nil {
			if f, ok := v.(float64); ok {
				return int(f), nil
			}
		}
	}
	ids, err := d.selectIDs(ctx, path, 0)
	return len(ids), err
}

func compileFor(ctx NodeID, expr string, typ css.ExprType) (string, error) {
	if ctx == 0 {
		return css.Compile(expr, typ)
	}
	return css.CompileScoped(expr, typ)
}

// query compiles and evaluates an expression from ctx, returning at most
// limit results (0 = all). Malformed selectors fail before any tree access.
func (d *Document) query(ctx NodeID, expr string, typ css.ExprType, limit int) ([]NodeID, error) {
	path, err := compileFor(ctx, expr, typ)
	if err != nil {
		return nil, err
	}
	return d.selectIDs(ctx, path, limit)
}

func (d *Document) selectIDs(ctx NodeID, path string, limit int) (ids []NodeID, err error) {
	// The evaluator panics on some malformed expressions instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			ids, err = nil, &EvaluationError{Expr: path, Err: fmt.Errorf("%v", r)}
		}
	}()
	x, err := xpath.Compile(path)
	if err != nil {
		return nil, &EvaluationError{Expr: path, Err: err}
	}
	iter := x.Select(d.navigator(ctx))
	for iter.MoveNext() {
		if n, ok := iter.Current().(*nav); ok && n.attr < 0 {
			ids = append(ids, n.cur)
		}
	}
	// The evaluator yields union branches consecutively, not interleaved,
	// so iteration order is not document order for grouped selectors. A
	// limit cannot truncate before sorting for the same reason.
	ids = d.documentOrder(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// documentOrder sorts ids by pre-order position in the tree and drops
// duplicates.
func (d *Document) documentOrder(ids []NodeID) []NodeID {
	if len(ids) < 2 {
		return ids
	}
	rank := make([]int32, len(d.nodes))
	next := int32(0)
	var walk func(NodeID)
	walk = func(id NodeID) {
		rank[id] = next
		next++
		for _, c := range d.nodes[id].children {
			walk(c)
		}
	}
	walk(0)
	slices.SortFunc(ids, func(a, b NodeID) int { return int(rank[a] - rank[b]) })
	return slices.Compact(ids)
}

func evaluate(d *Document, ctx NodeID, path string) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &EvaluationError{Expr: path, Err: fmt.Errorf("%v", r)}
		}
	}()
	x, err := xpath.Compile(path)
	if err != nil {
		return nil, &EvaluationError{Expr: path, Err: err}
	}
	return x.Evaluate(d.navigator(ctx)), nil
}
