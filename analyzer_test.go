package boolidx

import (
	"reflect"
	"testing"
)

func TestDefaultConfigKeepsStopwordsAndShortTokens(t *testing.T) {
	got := Analyze("a dog is a dog")
	want := []string{"a", "dog", "is", "a", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze with default config = %v, want %v (stopwords and length-1 tokens must survive)", got, want)
	}
}

func TestAnalyzeStemsConsistently(t *testing.T) {
	got := Analyze("running dogs")
	want := []string{"run", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze(\"running dogs\") = %v, want %v", got, want)
	}
}

func TestNormaliseTermMatchesAnalyzeForSingleWord(t *testing.T) {
	if got := normaliseTerm("Running"); got != "run" {
		t.Errorf("normaliseTerm(\"Running\") = %q, want %q", got, "run")
	}
	// normaliseTerm must agree with what a document's analyzer pass would
	// have produced for the same single word, or a query literal could
	// never match a term the indexer actually stored.
	doc := Analyze("Running")
	if len(doc) != 1 || doc[0] != normaliseTerm("Running") {
		t.Errorf("normaliseTerm diverges from Analyze: Analyze=%v, normaliseTerm=%q", doc, normaliseTerm("Running"))
	}
}
