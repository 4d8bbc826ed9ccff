// Package filter translates AIP-160 filter expressions over finished matches
// into SQL conditions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
)

// SQLCondition is a WHERE clause fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition selects everything.
func (c SQLCondition) Empty() bool {
	return c.Clause == ""
}

type field struct {
	typ *expr.Type
	// column is formatted with the operator and a placeholder.
	column string
}

// fields maps filter identifiers to the matches table. player_id matches any
// participant, not only the winner.
var fields = map[string]field{
	"session_id":   {typ: filtering.TypeString, column: "session_id %s ?"},
	"winner_id":    {typ: filtering.TypeString, column: "winner_id %s ?"},
	"player_count": {typ: filtering.TypeInt, column: "player_count %s ?"},
	"shots":        {typ: filtering.TypeInt, column: "shots %s ?"},
	"reloads":      {typ: filtering.TypeInt, column: "reloads %s ?"},
	"started_at":   {typ: filtering.TypeTimestamp, column: "started_at %s ?"},
	"finished_at":  {typ: filtering.TypeTimestamp, column: "finished_at %s ?"},
	"player_id":    {typ: filtering.TypeString, column: "id IN (SELECT match_id FROM match_players WHERE player_id %s ?)"},
}

// MatchDeclarations returns the identifiers a match filter may reference.
func MatchDeclarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, f := range fields {
		opts = append(opts, filtering.DeclareIdent(name, f.typ))
	}
	return filtering.NewDeclarations(opts...)
}

var operators = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// ParseMatchFilter parses filterStr. An empty filter yields an empty
// condition. Failures carry CodeInvalidFilter.
func ParseMatchFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}
	decls, err := MatchDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, invalid(err.Error())
	}
	cond, err := translate(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return SQLCondition{}, invalid(err.Error())
	}
	return cond, nil
}

func invalid(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidFilter,
		"invalid filter: "+reason,
		map[string]string{"Reason": reason})
}

func translate(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression %T", e.ExprKind)
	}
	fn := call.CallExpr.Function
	args := call.CallExpr.Args
	switch fn {
	case filtering.FunctionAnd, filtering.FunctionOr:
		return join(fn, args)
	case filtering.FunctionNot:
		if len(args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT takes one argument")
		}
		inner, err := translate(args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT (" + inner.Clause + ")", Params: inner.Params}, nil
	}
	if op, ok := operators[fn]; ok {
		return compare(op, args)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function %s", fn)
}

func join(fn string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s takes two arguments", fn)
	}
	left, err := translate(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, fn, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(op string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison takes two arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("left side of %s must be a field", op)
	}
	name := ident.IdentExpr.GetName()
	f, ok := fields[name]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field %s", name)
	}
	value, err := literal(args[1])
	if err != nil {
		return SQLCondition{}, fmt.Errorf("%s: %w", name, err)
	}
	return SQLCondition{Clause: fmt.Sprintf(f.column, op), Params: []any{value}}, nil
}

// literal extracts a constant or a timestamp("...") call. Timestamps become
// Unix milliseconds, the storage representation of match times.
func literal(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		switch c := kind.ConstExpr.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return c.StringValue, nil
		case *expr.Constant_Int64Value:
			return c.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return int64(c.Uint64Value), nil
		case *expr.Constant_DoubleValue:
			return c.DoubleValue, nil
		case *expr.Constant_BoolValue:
			return c.BoolValue, nil
		default:
			return nil, fmt.Errorf("unsupported constant %T", c)
		}
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() != filtering.FunctionTimestamp || len(kind.CallExpr.GetArgs()) != 1 {
			return nil, fmt.Errorf("unsupported function %s in value position", kind.CallExpr.GetFunction())
		}
		raw, ok := kind.CallExpr.GetArgs()[0].GetConstExpr().GetConstantKind().(*expr.Constant_StringValue)
		if !ok {
			return nil, fmt.Errorf("timestamp argument must be a string")
		}
		ts, err := time.Parse(time.RFC3339Nano, raw.StringValue)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q", raw.StringValue)
		}
		return ts.UTC().UnixMilli(), nil
	default:
		return nil, fmt.Errorf("expected a literal, got %T", kind)
	}
}
