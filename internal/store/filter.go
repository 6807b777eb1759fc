package store

import (
	"fmt"
	"strings"
)

// Expr is a composable filter predicate over cricket_data columns. Every
// expression renders to parameterized SQL; user text only ever travels as a
// bind argument, never inside the SQL string.
type Expr interface {
	render(sb *strings.Builder, args *[]interface{})
}

type cond struct {
	column string
	op     string
	value  interface{}
}

func (c cond) render(sb *strings.Builder, args *[]interface{}) {
	fmt.Fprintf(sb, "%s %s ?", c.column, c.op)
	*args = append(*args, c.value)
}

// Cond builds a simple column comparison, e.g. Cond("no_of_faces", ">=", 2).
func Cond(column, op string, value interface{}) Expr {
	return cond{column: column, op: op, value: value}
}

type like struct {
	column string
	term   string
}

func (l like) render(sb *strings.Builder, args *[]interface{}) {
	fmt.Fprintf(sb, "LOWER(%s) LIKE ?", l.column)
	*args = append(*args, "%"+strings.ToLower(l.term)+"%")
}

// Like builds a case-insensitive containment match on a text column.
func Like(column, term string) Expr {
	return like{column: column, term: term}
}

type junction struct {
	op    string
	exprs []Expr
}

func (j junction) render(sb *strings.Builder, args *[]interface{}) {
	parts := compact(j.exprs)
	if len(parts) == 1 {
		parts[0].render(sb, args)
		return
	}
	sb.WriteString("(")
	for i, e := range parts {
		if i > 0 {
			sb.WriteString(" " + j.op + " ")
		}
		e.render(sb, args)
	}
	sb.WriteString(")")
}

// And conjoins predicates. Nil and empty children are dropped; an And with
// no effective children renders nothing.
func And(exprs ...Expr) Expr {
	return junction{op: "AND", exprs: exprs}
}

// Or disjoins predicates with the same nil-dropping rules as And.
func Or(exprs ...Expr) Expr {
	return junction{op: "OR", exprs: exprs}
}

func compact(exprs []Expr) []Expr {
	out := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e == nil || isEmpty(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isEmpty(e Expr) bool {
	j, ok := e.(junction)
	if !ok {
		return false
	}
	return len(compact(j.exprs)) == 0
}

// Render produces the WHERE-clause body and bind arguments for an
// expression. An empty expression renders to ("", nil).
func Render(e Expr) (string, []interface{}) {
	if e == nil || isEmpty(e) {
		return "", nil
	}
	var sb strings.Builder
	var args []interface{}
	e.render(&sb, &args)
	return sb.String(), args
}
