package boolidx

import (
	"errors"
	"testing"
)

func TestLexRecognisesReservedWordsBeforeNormalisation(t *testing.T) {
	toks := Lex("cat AND dog")
	want := []TokenKind{TokTerm, TokAnd, TokTerm}
	if len(toks) != len(want) {
		t.Fatalf("Lex produced %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexPeelsOneLevelOfParens(t *testing.T) {
	toks := Lex("(cat OR dog) AND fish")
	wantKinds := []TokenKind{TokLParen, TokTerm, TokOr, TokTerm, TokRParen, TokAnd, TokTerm}
	if len(toks) != len(wantKinds) {
		t.Fatalf("Lex produced %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexReservedWordInsideParensStaysOperator(t *testing.T) {
	// "(NOT" peels to "(" + "NOT" -- the bare body is still the reserved
	// word, recognised by wordToken even though the leading paren already
	// stripped off.
	toks := Lex("(NOT cat)")
	if toks[0].Kind != TokLParen {
		t.Fatalf("expected leading paren, got %+v", toks[0])
	}
	if toks[1].Kind != TokNot {
		t.Errorf("expected NOT operator inside parens, got %+v", toks[1])
	}
}

func TestCompileBasicAnd(t *testing.T) {
	pf, err := Compile("cat AND dog")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(pf) != 3 || pf[2].Op != OpAnd {
		t.Errorf("Compile(\"cat AND dog\") = %+v, want [cat dog AND]", pf)
	}
}

func TestCompileFusesAndNot(t *testing.T) {
	pf, err := Compile("a AND NOT b")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(pf) != 3 || pf[2].Op != OpAndNot {
		t.Fatalf("Compile(\"a AND NOT b\") = %+v, want [a b ANDNOT]", pf)
	}
}

func TestCompileFusesNotAnd(t *testing.T) {
	pf, err := Compile("NOT a AND b")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(pf) != 3 || pf[2].Op != OpNotAnd {
		t.Fatalf("Compile(\"NOT a AND b\") = %+v, want [a b NOTAND]", pf)
	}
}

func TestCompileDoubleNegationCancels(t *testing.T) {
	pf, err := Compile("NOT NOT a")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(pf) != 1 || pf[0].IsOp {
		t.Fatalf("Compile(\"NOT NOT a\") = %+v, want [a]", pf)
	}
}

func TestCompileUnbalancedParens(t *testing.T) {
	if _, err := Compile("(a AND b"); !errors.Is(err, ErrUnbalancedParens) {
		t.Errorf("Compile with missing close paren: err = %v, want ErrUnbalancedParens", err)
	}
	if _, err := Compile("a AND b)"); !errors.Is(err, ErrUnbalancedParens) {
		t.Errorf("Compile with stray close paren: err = %v, want ErrUnbalancedParens", err)
	}
}

func TestCompileEmptyQuery(t *testing.T) {
	if _, err := Compile("   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Compile(whitespace) err = %v, want ErrEmptyQuery", err)
	}
}

func TestLexBareReservedSpellingIsAlwaysAnOperator(t *testing.T) {
	// A literal query term that happens to be spelled "AND" is still
	// lexed as the operator, never a term -- the reserved-word check
	// runs on the raw word before any stemming could disambiguate it.
	toks := Lex("cat AND AND dog")
	if len(toks) != 4 || toks[1].Kind != TokAnd || toks[2].Kind != TokAnd {
		t.Fatalf("Lex(\"cat AND AND dog\") = %+v, want [term AND AND term]", toks)
	}
}

func TestCompilePrecedenceNotBindsTighterThanOr(t *testing.T) {
	// "a OR NOT b" must not fuse NOT with OR -- OR never fuses, it binds
	// loosest, so this compiles to [a, b NOT, OR].
	pf, err := Compile("a OR NOT b")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if len(pf) != 4 || pf[2].Op != OpNot || pf[3].Op != OpOr {
		t.Errorf("Compile(\"a OR NOT b\") = %+v, want [a b NOT OR]", pf)
	}
}
