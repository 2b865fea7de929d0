package boolidx

import (
	"errors"
	"sort"
)

// ═══════════════════════════════════════════════════════════════════════════════
// EVALUATOR: Running a Compiled Query Against a Postings Source
// ═══════════════════════════════════════════════════════════════════════════════
// Evaluate walks a postfix expression once, left to right, maintaining a
// stack of "groups" instead of a stack of plain operand values. A group
// is either a single resolved operand, or a still-open run of operands
// waiting to be merged under the same AND-family or OR operator.
//
// Keeping a run open across consecutive same-family operators (instead
// of collapsing pairwise as each operator token arrives) is what lets
// the fold sort every operand in the run by document frequency and
// merge smallest-list-first, the same cost ordering
// BooleanEval.py's AND_and_ANDNOT_lists/OR_lists apply. ANDNOT and NOTAND
// join the very same AND-family run as plain AND — they are just AND
// with one of their two operands carrying an extra negation, mirroring
// how BooleanParser.py's evaluate_query pushes "AND" onto its operator
// stack for both the ANDNOT and NOTAND cases.
//
// NOT is not a run member: it always collapses whatever sits below it to
// a single operand and flips that operand's negated flag, which cancels
// cleanly on a double negative.
// ═══════════════════════════════════════════════════════════════════════════════

// ErrMalformedQuery is returned when a postfix expression does not
// reduce to exactly one result — an operator with too few operands, or
// leftover operands with no combining operator. Compile does not check
// operand counts, so a query such as "a b" or "AND" compiles and is
// rejected here.
var ErrMalformedQuery = errors.New("boolidx: malformed postfix expression")

// Source resolves a query's term literals to postings, and provides the
// collection-wide document list NOT needs to compute a complement.
type Source interface {
	Fetch(term string) (docFreq int, postings []Posting)
	All() []Posting
}

// operand is one fully- or partially-evaluated query subexpression.
// negated defers a NOT: rather than materialising the complement
// immediately, an operand just carries the flag until it is either
// folded into an OR (which must see the real complement) or paired
// against a positive operand in an AND run (which never needs it at
// all — Difference subtracts the raw list directly).
type operand struct {
	postings []Posting
	df       int // document frequency, used purely as a merge-order cost estimate
	negated  bool
}

// group is either a single resolved operand (isRun == false) or an
// open run of operands destined for the same AND-family or OR fold.
type group struct {
	isRun bool
	op    OpKind // OpAnd or OpOr; meaningless when !isRun
	items []operand
}

// Evaluate runs a compiled postfix expression against src and returns
// the matching document IDs in ascending order.
func Evaluate(postfix []PostfixToken, src Source) ([]int, error) {
	if len(postfix) == 0 {
		return nil, ErrEmptyQuery
	}

	e := &evaluator{src: src}
	var stack []group

	pop := func() (group, error) {
		if len(stack) == 0 {
			return group{}, ErrMalformedQuery
		}
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return g, nil
	}

	for _, tok := range postfix {
		if !tok.IsOp {
			df, postings := src.Fetch(tok.Term)
			stack = append(stack, group{items: []operand{{postings: postings, df: df}}})
			continue
		}

		switch tok.Op {
		case OpNot:
			g, err := pop()
			if err != nil {
				return nil, err
			}
			val := e.collapse(g)
			val.negated = !val.negated
			stack = append(stack, group{items: []operand{val}})

		case OpOr:
			rhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhs, err := pop()
			if err != nil {
				return nil, err
			}
			items := append(e.orOperands(lhs), e.orOperands(rhs)...)
			stack = append(stack, group{isRun: true, op: OpOr, items: items})

		case OpAnd, OpAndNot, OpNotAnd:
			rhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhs, err := pop()
			if err != nil {
				return nil, err
			}
			lhsNeg, rhsNeg := tok.Op == OpNotAnd, tok.Op == OpAndNot
			items := append(e.andOperands(lhs, lhsNeg), e.andOperands(rhs, rhsNeg)...)
			stack = append(stack, group{isRun: true, op: OpAnd, items: items})

		default:
			return nil, ErrMalformedQuery
		}
	}

	if len(stack) != 1 {
		return nil, ErrMalformedQuery
	}

	final := e.collapse(stack[0])
	if final.negated {
		return Complement(src.All(), final.postings), nil
	}
	return DocIDs(final.postings), nil
}

// evaluator bundles the postings source so the fold helpers below don't
// need to thread it through every call.
type evaluator struct {
	src Source
}

// collapse reduces a group to a single resolved operand, folding an open
// run if necessary.
func (e *evaluator) collapse(g group) operand {
	if !g.isRun {
		return g.items[0]
	}
	if g.op == OpOr {
		return e.foldOr(g.items)
	}
	return e.foldAnd(g.items)
}

// orOperands flattens g into the operand list an OR run should absorb:
// an existing OR run contributes its pending items directly, anything
// else is collapsed to one operand first.
func (e *evaluator) orOperands(g group) []operand {
	if g.isRun && g.op == OpOr {
		return g.items
	}
	return []operand{e.collapse(g)}
}

// andOperands is orOperands' AND-family counterpart. When neg is set
// (this side of a fused ANDNOT/NOTAND), g is always collapsed first —
// De Morgan's law would be needed to push a negation through a pending
// multi-term run, and that case is rare enough not to warrant it here.
func (e *evaluator) andOperands(g group, neg bool) []operand {
	if !neg && g.isRun && g.op == OpAnd {
		return g.items
	}
	single := e.collapse(g)
	if neg {
		single.negated = !single.negated
	}
	return []operand{single}
}

// foldOr merges every operand in an OR run via smallest-document-frequency-first
// union. A negated operand must be materialised into its real complement
// first — OR, unlike AND, has no way to subtract a raw list lazily.
func (e *evaluator) foldOr(items []operand) operand {
	vals := make([]operand, len(items))
	for i, it := range items {
		if it.negated {
			comp := Complement(e.src.All(), it.postings)
			vals[i] = operand{postings: WithSkips(comp), df: len(comp)}
		} else {
			vals[i] = it
		}
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].df < vals[j].df })

	acc := vals[0].postings
	for _, v := range vals[1:] {
		acc = WithSkips(Union(acc, v.postings))
	}
	return operand{postings: acc, df: len(acc)}
}

// foldAnd merges every operand in an AND run. Positive operands fold via
// smallest-document-frequency-first intersection; negative operands are
// then subtracted one at a time, smallest first, straight from their raw
// postings — no complement ever gets materialised. Grounded on
// BooleanEval.py's AND_and_ANDNOT_lists.
func (e *evaluator) foldAnd(items []operand) operand {
	var positives, negatives []operand
	for _, it := range items {
		if it.negated {
			negatives = append(negatives, it)
		} else {
			positives = append(positives, it)
		}
	}
	sort.Slice(positives, func(i, j int) bool { return positives[i].df < positives[j].df })
	sort.Slice(negatives, func(i, j int) bool { return negatives[i].df < negatives[j].df })

	var acc []Posting
	if len(positives) > 0 {
		acc = positives[0].postings
		for _, p := range positives[1:] {
			acc = WithSkips(Intersect(acc, p.postings))
		}
	} else {
		// An AND run made entirely of negated operands ("NOT a AND NOT b")
		// has no positive side to start from, so it starts from the full
		// document universe instead.
		acc = e.src.All()
	}
	for _, n := range negatives {
		acc = WithSkips(Difference(acc, n.postings))
	}
	return operand{postings: acc, df: len(acc)}
}
