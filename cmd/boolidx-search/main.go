// Command boolidx-search evaluates boolean queries against a dictionary
// and postings file produced by boolidx-index.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/boolidx"
)

func main() {
	var dict, postings, queries, output string

	root := &cobra.Command{
		Use:   "boolidx-search",
		Short: "Evaluate boolean queries against a boolidx index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dict, postings, queries, output)
		},
	}

	root.Flags().StringVarP(&dict, "dict", "d", "", "path to the dictionary file")
	root.Flags().StringVarP(&postings, "postings", "p", "", "path to the postings file")
	root.Flags().StringVarP(&queries, "queries", "q", "", "path to the queries file, one query per line")
	root.Flags().StringVarP(&output, "output", "o", "", "path to write one result line per query")
	for _, name := range []string{"dict", "postings", "queries", "output"} {
		if err := root.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dictPath, postingsPath, queriesPath, outputPath string) error {
	dict, err := boolidx.LoadDictionary(dictPath)
	if err != nil {
		return err
	}

	postingsFile, err := os.Open(postingsPath)
	if err != nil {
		return fmt.Errorf("boolidx: open postings file: %w", err)
	}
	defer postingsFile.Close()
	store := boolidx.NewPostingsStore(dict, postingsFile)

	queriesFile, err := os.Open(queriesPath)
	if err != nil {
		return fmt.Errorf("boolidx: open queries file: %w", err)
	}
	defer queriesFile.Close()

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("boolidx: create output file: %w", err)
	}
	defer outFile.Close()
	out := bufio.NewWriter(outFile)

	count := 0
	scanner := bufio.NewScanner(queriesFile)
	for scanner.Scan() {
		count++
		query := scanner.Text()
		ids, err := evaluateQuery(query, store)
		if err != nil {
			slog.Debug("query failed, emitting empty result line",
				slog.Int("line", count), slog.String("query", query), slog.Any("error", err))
			ids = nil
		}
		if _, err := out.WriteString(formatIDs(ids) + "\n"); err != nil {
			return fmt.Errorf("boolidx: write result line: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("boolidx: read queries file: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("boolidx: flush output file: %w", err)
	}

	slog.Info("search complete", slog.Int("queries", count), slog.String("output", outputPath))
	return nil
}

// evaluateQuery compiles and evaluates a single query line. An empty or
// whitespace-only line lexes to zero tokens, which Compile rejects as
// ErrEmptyQuery — the same error path a malformed query takes, both
// collapsing to an empty result line at the caller.
func evaluateQuery(query string, store *boolidx.PostingsStore) ([]int, error) {
	postfix, err := boolidx.Compile(query)
	if err != nil {
		return nil, err
	}
	return boolidx.Evaluate(postfix, store)
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
