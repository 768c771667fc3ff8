// Package promotion evaluates discount rules against the in-progress sale.
// Rules are CEL expressions over a small cart summary, loaded from
// configuration at startup, so promotions change without a rebuild.
package promotion

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"

	"caixa/internal/core/types"
	"caixa/pkg/logger"
)

// Rule is one configured promotion. Expression must evaluate to a boolean;
// when true, the discount applies.
type Rule struct {
	// Name identifies the rule in receipts and logs
	Name string `json:"name"`

	// Expression is a CEL predicate over: total (double), itemCount (int),
	// method (string). Example: `total >= 100.0 && method == "cash"`.
	Expression string `json:"expression"`

	// DiscountPercent is applied to the cart total when the rule matches
	// (e.g. "5" for 5%). Mutually exclusive with DiscountAmount.
	DiscountPercent string `json:"discountPercent,omitempty"`

	// DiscountAmount is a fixed discount (e.g. "2.50").
	DiscountAmount string `json:"discountAmount,omitempty"`
}

// CartSummary is the evaluation input.
type CartSummary struct {
	Total     types.Money
	ItemCount int
	Method    string
}

// Applied reports one matched rule and its computed discount.
type Applied struct {
	Name     string      `json:"name"`
	Discount types.Money `json:"discount"`
}

type compiledRule struct {
	name    string
	program cel.Program
	percent decimal.Decimal
	fixed   decimal.Decimal
	usesPct bool
}

// Engine holds the compiled rule set. Safe for concurrent use.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the rule set. Invalid expressions fail fast at startup.
func NewEngine(rules []Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("total", cel.DoubleType),
		cel.Variable("itemCount", cel.IntType),
		cel.Variable("method", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %q: compile: %w", r.Name, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule %q: expression must evaluate to bool, got %s", r.Name, ast.OutputType())
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: program: %w", r.Name, err)
		}

		cr := compiledRule{name: r.Name, program: prg}
		switch {
		case r.DiscountPercent != "":
			pct, err := decimal.NewFromString(r.DiscountPercent)
			if err != nil {
				return nil, fmt.Errorf("rule %q: discount percent: %w", r.Name, err)
			}
			cr.percent = pct
			cr.usesPct = true
		case r.DiscountAmount != "":
			amount, err := decimal.NewFromString(r.DiscountAmount)
			if err != nil {
				return nil, fmt.Errorf("rule %q: discount amount: %w", r.Name, err)
			}
			cr.fixed = amount
		default:
			return nil, fmt.Errorf("rule %q: either discountPercent or discountAmount is required", r.Name)
		}

		compiled = append(compiled, cr)
	}

	return &Engine{rules: compiled}, nil
}

// Evaluate runs all rules against the summary and returns the best single
// discount (rules do not stack) capped at the cart total.
func (e *Engine) Evaluate(ctx context.Context, summary CartSummary) (types.Money, *Applied) {
	best := types.Zero()
	var bestRule *Applied

	input := map[string]any{
		"total":     summary.Total.InexactFloat64(),
		"itemCount": int64(summary.ItemCount),
		"method":    summary.Method,
	}

	for _, r := range e.rules {
		out, _, err := r.program.Eval(input)
		if err != nil {
			logger.Warn(ctx, "promotion rule evaluation failed", "rule", r.name, "error", err)
			continue
		}
		matched, ok := out.Value().(bool)
		if !ok || !matched {
			continue
		}

		discount := r.fixed
		if r.usesPct {
			discount = summary.Total.Mul(r.percent).Div(decimal.NewFromInt(100)).Round(2)
		}
		if discount.GreaterThan(best) {
			best = discount
			bestRule = &Applied{Name: r.name, Discount: discount}
		}
	}

	if best.GreaterThan(summary.Total) {
		best = summary.Total
		if bestRule != nil {
			bestRule.Discount = best
		}
	}

	return best, bestRule
}
