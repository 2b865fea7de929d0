// Command boolidx-index builds a dictionary and postings file from a
// directory of numerically-named text documents.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/boolidx"
)

func main() {
	var input, dict, postings string

	root := &cobra.Command{
		Use:   "boolidx-index",
		Short: "Build a boolean-retrieval index over a directory of documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			stats, err := boolidx.Build(boolidx.BuildConfig{
				InputDir:     input,
				DictPath:     dict,
				PostingsPath: postings,
			})
			if err != nil {
				return err
			}

			slog.Info("index built",
				slog.Int("documents", stats.DocCount),
				slog.Int("vocabulary", stats.VocabSize),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("dictionary", dict),
				slog.String("postings", postings),
			)
			return nil
		},
	}

	root.Flags().StringVarP(&input, "input", "i", "", "directory of numerically-named documents to index")
	root.Flags().StringVarP(&dict, "dict", "d", "", "path to write the dictionary file")
	root.Flags().StringVarP(&postings, "postings", "p", "", "path to write the postings file")
	for _, name := range []string{"input", "dict", "postings"} {
		if err := root.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
