package boolidx

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// ═══════════════════════════════════════════════════════════════════════════════
// INDEX BUILDER: Two Passes Over the Corpus
// ═══════════════════════════════════════════════════════════════════════════════
// Pass 1 (vocabulary): stream every document once, in ascending document-ID
// order, normalising its text into terms and recording each term the
// first time it is seen. This fixes both the vocabulary and the line
// order of the eventual postings file.
//
// Pass 2 (batched inversion): process documents in fixed-size batches. For
// each batch, build an in-memory sub-index mapping term -> the document
// IDs in this batch that contain it, then append that batch's postings
// for each term into a pre-sized slot of a scratch file via a positioned
// write — no per-document seek chase across the whole file.
//
// Finalisation reads every slot back, strips the filler, re-inserts skip
// pointers through postings.go's Encode, and writes the compact result
// plus a dictionary entry to the real output files.
//
// Grounded on index.py's get_all_terms/process_file_to_lexicon,
// create_helper_dictionaries, process_file_batches, print_postings, and
// convert_raw_postings.
// ═══════════════════════════════════════════════════════════════════════════════

const defaultBatchSize = 3000

// scratchFiller is the byte a freshly allocated scratch slot is padded
// with before any term postings are appended into it.
const scratchFiller = '.'

// BuildConfig is the immutable configuration passed into Build — no
// package-level mutable state, unlike the original script's module-level
// directory globals.
type BuildConfig struct {
	InputDir     string
	DictPath     string
	PostingsPath string
	BatchSize    int // defaults to 3000 when <= 0
}

// BuildStats summarises a completed build for the indexer CLI to log.
type BuildStats struct {
	DocCount  int
	VocabSize int
}

// docEntry pairs a parsed document ID with the filename it came from —
// the directory listing order is not assumed to match numeric order, so
// both are carried together and sorted once, up front.
type docEntry struct {
	ID   int
	Name string
}

// Build runs the full two-pass indexing pipeline described above and
// writes cfg.DictPath and cfg.PostingsPath.
func Build(cfg BuildConfig) (BuildStats, error) {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	docs, err := listDocuments(cfg.InputDir)
	if err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: list documents: %w", err)
	}
	if len(docs) == 0 {
		return BuildStats{}, fmt.Errorf("boolidx: no numerically-named documents found in %s", cfg.InputDir)
	}

	docIDs := make([]int, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
	}

	postingsFile, err := os.Create(cfg.PostingsPath)
	if err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: create postings file: %w", err)
	}
	defer postingsFile.Close()
	w := bufio.NewWriter(postingsFile)

	var offset int64
	globalLine := Encode(docIDs) + "\n"
	if _, err := w.WriteString(globalLine); err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: write global postings line: %w", err)
	}
	offset += int64(len(globalLine))

	order, err := scanVocabulary(cfg.InputDir, docs)
	if err != nil {
		return BuildStats{}, err
	}

	slotWidth := maxSlotWidth(len(docIDs), docIDs[len(docIDs)-1])
	termIndex := make(map[string]int, len(order))
	cursor := make([]int64, len(order))
	for i, term := range order {
		termIndex[term] = i
		cursor[i] = int64(i) * int64(slotWidth)
	}

	scratchPath := cfg.PostingsPath + ".scratch"
	scratch, err := os.Create(scratchPath)
	if err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: create scratch file: %w", err)
	}
	defer scratch.Close()
	defer os.Remove(scratchPath)

	if err := writeFiller(scratch, int64(slotWidth)*int64(len(order))); err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: pad scratch file: %w", err)
	}

	for batchStart := 0; batchStart < len(docs); batchStart += batchSize {
		end := batchStart + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := invertBatch(cfg.InputDir, docs[batchStart:end], scratch, termIndex, cursor); err != nil {
			return BuildStats{}, err
		}
	}

	for i := range order {
		if _, err := scratch.WriteAt([]byte{'\n'}, cursor[i]); err != nil {
			return BuildStats{}, fmt.Errorf("boolidx: terminate scratch slot for %q: %w", order[i], err)
		}
	}

	dict := NewDictionary()
	buf := make([]byte, slotWidth)
	for i, term := range order {
		n, err := scratch.ReadAt(buf, int64(i)*int64(slotWidth))
		if err != nil && n == 0 {
			return BuildStats{}, fmt.Errorf("boolidx: read scratch slot for %q: %w", term, err)
		}
		content := buf[:n]
		nl := bytes.IndexByte(content, '\n')
		if nl < 0 {
			return BuildStats{}, fmt.Errorf("boolidx: scratch slot for %q missing terminator", term)
		}
		line := bytes.TrimPrefix(content[:nl], []byte{','})

		ids, err := parseCSVInts(string(line))
		if err != nil {
			return BuildStats{}, fmt.Errorf("boolidx: parse scratch slot for %q: %w", term, err)
		}

		encoded := Encode(ids) + "\n"
		if _, err := w.WriteString(encoded); err != nil {
			return BuildStats{}, fmt.Errorf("boolidx: write postings line for %q: %w", term, err)
		}
		dict.Put(term, len(ids), offset)
		offset += int64(len(encoded))
	}

	if err := w.Flush(); err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: flush postings file: %w", err)
	}
	if err := dict.Save(cfg.DictPath); err != nil {
		return BuildStats{}, fmt.Errorf("boolidx: save dictionary: %w", err)
	}

	return BuildStats{DocCount: len(docIDs), VocabSize: len(order)}, nil
}

// maxSlotWidth bounds the worst case byte width a term's scratch slot
// could ever need: every document containing the term, each entry
// carrying its own leading comma, at the widest digit count any document
// ID can take, plus one byte for the slot's terminating newline.
func maxSlotWidth(docCount, maxDocID int) int {
	if docCount == 0 {
		return 1
	}
	digitWidth := len(strconv.Itoa(maxDocID))
	return docCount*(digitWidth+1) + 1
}

// listDocuments reads dir and returns its numerically-named entries
// sorted ascending by document ID. A directory entry whose name (minus
// extension) does not parse as an integer is skipped.
func listDocuments(dir string) ([]docEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var docs []docEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		id, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		docs = append(docs, docEntry{ID: id, Name: e.Name()})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// readDocument loads a single document's raw text.
func readDocument(dir string, d docEntry) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, d.Name))
	if err != nil {
		return "", fmt.Errorf("boolidx: read document %d: %w", d.ID, err)
	}
	return string(data), nil
}

// distinctTerms normalises a document's text and returns its distinct
// terms, in first-seen order.
func distinctTerms(text string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, tok := range Analyze(text) {
		if !seen[tok] {
			seen[tok] = true
			terms = append(terms, tok)
		}
	}
	return terms
}

// scanVocabulary is pass 1: it fixes the vocabulary and its discovery
// order, which becomes the line order of the final postings file.
func scanVocabulary(dir string, docs []docEntry) ([]string, error) {
	seen := make(map[string]bool)
	var order []string
	for _, d := range docs {
		text, err := readDocument(dir, d)
		if err != nil {
			return nil, err
		}
		for _, term := range distinctTerms(text) {
			if !seen[term] {
				seen[term] = true
				order = append(order, term)
			}
		}
	}
	return order, nil
}

// invertBatch is pass 2's per-batch step: build an in-memory sub-index
// over this batch of documents and append each term's batch postings
// into its scratch slot via a positioned write.
//
// The sub-index is kept as a roaring bitmap per term rather than a plain
// slice — a document can repeat a term any number of times, and the
// bitmap dedups for free while its Iterator walks set bits in ascending
// order, handing the scratch writer exactly the sorted, duplicate-free
// ID sequence it needs with no extra sort step.
func invertBatch(dir string, batch []docEntry, scratch *os.File, termIndex map[string]int, cursor []int64) error {
	subIndex := make(map[string]*roaring.Bitmap)
	for _, d := range batch {
		text, err := readDocument(dir, d)
		if err != nil {
			return err
		}
		for _, term := range distinctTerms(text) {
			bm, ok := subIndex[term]
			if !ok {
				bm = roaring.NewBitmap()
				subIndex[term] = bm
			}
			bm.Add(uint32(d.ID))
		}
	}

	for term, bm := range subIndex {
		idx, ok := termIndex[term]
		if !ok {
			return fmt.Errorf("boolidx: term %q seen in batched inversion but not in vocabulary pass", term)
		}
		var sb strings.Builder
		it := bm.Iterator()
		for it.HasNext() {
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(int(it.Next())))
		}
		data := []byte(sb.String())
		if _, err := scratch.WriteAt(data, cursor[idx]); err != nil {
			return fmt.Errorf("boolidx: append postings for %q: %w", term, err)
		}
		cursor[idx] += int64(len(data))
	}
	return nil
}

// writeFiller pads f with size scratchFiller bytes, in fixed-size chunks
// so arbitrarily large scratch files never require a single giant
// allocation.
func writeFiller(f *os.File, size int64) error {
	const chunkSize = 1 << 16
	chunk := bytes.Repeat([]byte{scratchFiller}, chunkSize)
	var written int64
	for written < size {
		n := int64(chunkSize)
		if remaining := size - written; remaining < n {
			n = remaining
		}
		if _, err := f.WriteAt(chunk[:n], written); err != nil {
			return err
		}
		written += n
	}
	return nil
}

// parseCSVInts parses a comma-joined list of document IDs, as found in a
// stripped scratch slot.
func parseCSVInts(line string) ([]int, error) {
	if line == "" {
		return nil, nil
	}
	fields := strings.Split(line, ",")
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("malformed document ID %q: %w", f, err)
		}
		ids[i] = id
	}
	return ids, nil
}
