// Package boolidx implements a boolean information-retrieval engine: an
// inverted index over a static, numerically-named document collection,
// queried with AND/OR/NOT boolean expressions.
//
// ═══════════════════════════════════════════════════════════════════════════════
// WHAT IS A POSTINGS LIST?
// ═══════════════════════════════════════════════════════════════════════════════
// A postings list is the set of document IDs that contain a given term,
// kept in strictly ascending order. On disk it is a single comma-joined
// line of "entries", where most entries are bare document IDs and some
// entries additionally carry a skip pointer:
//
//	"1/3,4,9,12/6,19,23,30,41,50"
//	 ^
//	 entry 0 skips to entry 3 (docID 12)
//
// The skip pointer lets a merge jump several entries ahead without
// inspecting each one, the same way the index at the back of a book lets
// you skip straight to a page instead of reading sequentially.
//
// SKIP SPACING:
// -------------
// Given a list of length N, the skip distance is s = floor(sqrt(N)). If
// s <= 2 the list is short enough that skipping would not pay for itself,
// so no skip pointers are inserted at all. Otherwise every entry at index
// i where i % s == 0 and i+s < N points forward to entry i+s.
//
// ═══════════════════════════════════════════════════════════════════════════════

package boolidx

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMalformedPosting is the value Decode panics with when an entry
	// cannot be parsed as a document ID, optionally followed by
	// "/<skip index>".
	ErrMalformedPosting = errors.New("boolidx: malformed postings entry")
)

// Posting is a single entry in a postings list: a document ID, plus an
// optional skip pointer to another index within the same list.
//
// Keeping this as a typed struct (rather than re-splitting a string like
// "12/19" on every access) means the merge engine in merge.go never
// allocates or parses past the initial Decode call.
type Posting struct {
	DocID   int // the document identifier
	Skip    int // index, within the same list, this entry may jump to
	HasSkip bool
}

// Encode serialises an ascending, duplicate-free list of document IDs
// into its on-disk postings-line form, inserting skip pointers per the
// root-N spacing rule above.
//
// EXAMPLE:
//
//	Encode([]int{1, 2, 3, 4, 5, 6, 7, 8, 9})
//	// length 9, skip distance floor(sqrt(9)) = 3
//	// -> "1/3,2,3,4/6,5,6,7,8,9"   (entries at 0,3 carry skips; 6+3 is not < 9)
func Encode(docIDs []int) string {
	return encodePostings(toPostings(docIDs))
}

// toPostings wraps bare document IDs into Postings with no skip pointer
// set yet; encodePostings fills in HasSkip/Skip before rendering.
func toPostings(docIDs []int) []Posting {
	out := make([]Posting, len(docIDs))
	for i, id := range docIDs {
		out[i] = Posting{DocID: id}
	}
	return out
}

// encodePostings inserts skip pointers into an already-ordered slice of
// Postings and renders it to the comma-joined on-disk string. It does not
// mutate its argument.
func encodePostings(list []Posting) string {
	n := len(list)
	if n == 0 {
		return ""
	}
	skipDistance := isqrt(n)

	var b strings.Builder
	for i, p := range list {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p.DocID))
		if skipDistance > 2 && i%skipDistance == 0 {
			target := i + skipDistance
			if target < n {
				b.WriteByte('/')
				b.WriteString(strconv.Itoa(target))
			}
		}
	}
	return b.String()
}

// isqrt returns floor(sqrt(n)) for non-negative n using integer-only
// arithmetic, avoiding a float64 round-trip for list lengths that may run
// into the millions.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// Decode parses a postings line back into its entries. Trailing newline
// or carriage return bytes are trimmed first; an empty line decodes to
// an empty (not nil) slice.
//
// Decode panics on a malformed entry (a non-numeric document ID or skip
// index). Postings files are produced exclusively by this repository's
// own index builder and are immutable once written; a corrupt line
// indicates a bug in the builder or disk corruption, not a recoverable
// runtime condition, so this fails fast rather than threading an error
// through every merge call.
func Decode(line string) []Posting {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return []Posting{}
	}
	fields := strings.Split(line, ",")
	entries := make([]Posting, len(fields))
	for i, field := range fields {
		entries[i] = parseEntry(field)
	}
	return entries
}

func parseEntry(field string) Posting {
	docPart, skipPart, hasSkip := strings.Cut(field, "/")
	docID, err := strconv.Atoi(docPart)
	if err != nil {
		panic(ErrMalformedPosting)
	}
	p := Posting{DocID: docID}
	if hasSkip {
		skip, err := strconv.Atoi(skipPart)
		if err != nil {
			panic(ErrMalformedPosting)
		}
		p.Skip = skip
		p.HasSkip = true
	}
	return p
}

// DocIDs strips skip-pointer annotations and returns the bare, ascending
// document IDs of a decoded postings list. Used at the searcher's output
// boundary, where result lines carry plain document IDs with no skip
// annotations, and anywhere a caller wants the logical set rather than
// the wire representation.
func DocIDs(list []Posting) []int {
	ids := make([]int, len(list))
	for i, p := range list {
		ids[i] = p.DocID
	}
	return ids
}

// WithSkips re-inserts skip pointers into a bare, ascending list of
// document IDs and returns the typed Posting slice (not yet re-encoded
// to a string). Every merge result is passed through this before being
// pushed back as an operand, so any subsequent merge benefits from skip
// pointers on the freshly produced list.
func WithSkips(docIDs []int) []Posting {
	return insertSkips(toPostings(docIDs))
}

// insertSkips is the typed-value counterpart of encodePostings: it
// returns annotated Postings rather than a rendered string, since the
// evaluator keeps intermediate results as Postings end-to-end and only
// serialises at the file boundary.
func insertSkips(list []Posting) []Posting {
	n := len(list)
	if n == 0 {
		return list
	}
	skipDistance := isqrt(n)
	if skipDistance <= 2 {
		return list
	}
	out := make([]Posting, n)
	copy(out, list)
	for i := range out {
		out[i].HasSkip = false
		out[i].Skip = 0
		if i%skipDistance == 0 {
			target := i + skipDistance
			if target < n {
				out[i].Skip = target
				out[i].HasSkip = true
			}
		}
	}
	return out
}
