package boolidx

import (
	"reflect"
	"testing"
)

// fakeSource is an in-memory Source for evaluator tests -- no dictionary
// file or postings file involved, just term -> document-ID lists.
type fakeSource struct {
	terms map[string][]int
	all   []int
}

func (f *fakeSource) Fetch(term string) (int, []Posting) {
	ids, ok := f.terms[term]
	if !ok {
		return 0, nil
	}
	return len(ids), WithSkips(ids)
}

func (f *fakeSource) All() []Posting {
	return WithSkips(f.all)
}

// sixDocCorpus builds the six-document corpus used throughout this file:
// a in {1,2,3,4,5}, b in {2,4,6}, c in {3,4,5}, d in {6}.
func sixDocCorpus() *fakeSource {
	return &fakeSource{
		terms: map[string][]int{
			"a": {1, 2, 3, 4, 5},
			"b": {2, 4, 6},
			"c": {3, 4, 5},
			"d": {6},
		},
		all: []int{1, 2, 3, 4, 5, 6},
	}
}

func evalQuery(t *testing.T, src Source, query string) []int {
	t.Helper()
	pf, err := Compile(query)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", query, err)
	}
	ids, err := Evaluate(pf, src)
	if err != nil {
		t.Fatalf("Evaluate(%q) error: %v", query, err)
	}
	return ids
}

func TestEvaluateScenarioTable(t *testing.T) {
	src := sixDocCorpus()
	cases := []struct {
		query string
		want  []int
	}{
		{"a AND b", []int{2, 4}},
		{"a OR b", []int{1, 2, 3, 4, 5, 6}},
		{"a AND NOT b", []int{1, 3, 5}},
		{"NOT a AND b", []int{6}},
		{"a AND b AND NOT c AND NOT d", []int{2}},
		{"(a OR d) AND NOT (b OR c)", []int{1}},
		{"NOT NOT a", []int{1, 2, 3, 4, 5}},
	}
	for _, c := range cases {
		got := evalQuery(t, src, c.query)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%q = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestEvaluateReorderStability(t *testing.T) {
	src := sixDocCorpus()
	// Every permutation of an AND chain with NOT operands folds to the
	// same canonical result: positives intersected first, negatives
	// subtracted after.
	permutations := []string{
		"a AND b AND NOT c AND NOT d",
		"b AND a AND NOT d AND NOT c",
		"NOT c AND a AND b AND NOT d",
		"NOT d AND NOT c AND a AND b",
	}
	want := []int{2}
	for _, q := range permutations {
		got := evalQuery(t, src, q)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%q = %v, want %v", q, got, want)
		}
	}
}

func TestEvaluateUnknownTermYieldsEmpty(t *testing.T) {
	src := sixDocCorpus()
	got := evalQuery(t, src, "zzz")
	if len(got) != 0 {
		t.Errorf("query on unknown term = %v, want empty", got)
	}
}

func TestEvaluateAllNegativeAndRun(t *testing.T) {
	src := sixDocCorpus()
	// NOT a AND NOT d: no positive operand in the run, so it must start
	// from the full document universe instead. a covers {1..5} and d
	// covers {6}, so their complements {6} and {1..5} don't overlap.
	got := evalQuery(t, src, "NOT a AND NOT d")
	if len(got) != 0 {
		t.Errorf("NOT a AND NOT d = %v, want empty", got)
	}
}

func TestEvaluateMalformedPostfixErrors(t *testing.T) {
	src := sixDocCorpus()
	_, err := Evaluate([]PostfixToken{{IsOp: true, Op: OpAnd}}, src)
	if err != ErrMalformedQuery {
		t.Errorf("Evaluate on operator with no operands: err = %v, want ErrMalformedQuery", err)
	}
}

func TestEvaluateEmptyPostfixErrors(t *testing.T) {
	src := sixDocCorpus()
	_, err := Evaluate(nil, src)
	if err != ErrEmptyQuery {
		t.Errorf("Evaluate(nil) err = %v, want ErrEmptyQuery", err)
	}
}
