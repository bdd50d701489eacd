package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/internal/matcher"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

var (
	inputFile   string
	smartCase   bool
	maxResults  int
	synchronous bool
	scheme      string
)

var matchCmd = &cobra.Command{
	Use:   "match [query]",
	Short: "Match lines from a file or stdin against a query",
	Long: `Reads one candidate per line and prints the best matches, highest score
first, with matched ranges wrapped in brackets. Ctrl-C stops scoring and prints
what was found so far.`,
	Example: `  git ls-files | fuzzy_search match mtch
  fuzzy_search match --file commands.txt --smart-case Open`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read candidates from a file instead of stdin")
	matchCmd.Flags().BoolVar(&smartCase, "smart-case", false, "Uppercase query letters must match exactly")
	matchCmd.Flags().IntVarP(&maxResults, "max-results", "n", 20, "Maximum number of results")
	matchCmd.Flags().BoolVar(&synchronous, "sync", false, "Match on a single goroutine")
	matchCmd.Flags().StringVar(&scheme, "scheme", "default", "Scoring scheme: default, path or history")
}

func runMatch(cmd *cobra.Command, args []string) error {
	if maxResults < 0 {
		return fmt.Errorf("--max-results cannot be negative (got %d)", maxResults)
	}
	if err := matcher.InitScheme(scheme); err != nil {
		return err
	}

	input := cmd.InOrStdin()
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", inputFile, err)
		}
		defer f.Close()
		input = f
	}

	lines, err := readLines(input)
	if err != nil {
		return err
	}
	candidates := model.NewCandidates(lines...)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	var cancel atomic.Bool
	context.AfterFunc(ctx, func() { cancel.Store(true) })

	searcher := fuzzy.NewSearcher(nil)
	var matches []model.StringMatch
	if synchronous {
		matches = searcher.MatchSynchronously(candidates, args[0], smartCase, maxResults, &cancel)
	} else {
		matches = searcher.Match(candidates, args[0], smartCase, maxResults, &cancel, fuzzy.NewPoolExecutor(workers))
	}

	logger.Debug("Match finished",
		zap.String("query", args[0]),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
		zap.Bool("cancelled", cancel.Load()))

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	for _, m := range matches {
		fmt.Fprintf(out, "%8.3f  %s\n", m.Score, highlight(m.Text, m.Ranges()))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return lines, nil
}

// highlight wraps every span of text in brackets.
func highlight(text string, spans iter.Seq[model.Span]) string {
	var b strings.Builder
	last := 0
	for span := range spans {
		b.WriteString(text[last:span.Start])
		b.WriteByte('[')
		b.WriteString(text[span.Start:span.End])
		b.WriteByte(']')
		last = span.End
	}
	b.WriteString(text[last:])
	return b.String()
}
