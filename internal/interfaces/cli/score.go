package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

var (
	scoreMaker       string
	scoreSourcesPath string
	scoreThreshold   int
)

// NewScoreCmd creates the score command: score web evidence for a product
// from a local CSV of search results.
func NewScoreCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <product text>",
		Short: "Score evidence sources for a product declaration",
		Long: "Reads ranked evidence sources from a CSV file (columns: title, url) and\n" +
			"scores them against the product's maker and name keywords.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&scoreMaker, "maker", "", "maker name to look for in the evidence")
	cmd.Flags().StringVar(&scoreSourcesPath, "sources", "", "evidence CSV file (required)")
	cmd.Flags().IntVar(&scoreThreshold, "threshold", 0, "match threshold override (default 60)")
	_ = cmd.MarkFlagRequired("sources")
	return cmd
}

func runScore(cmd *cobra.Command, opts *RootOptions, product string) error {
	sources, err := readSourcesCSV(scoreSourcesPath)
	if err != nil {
		return err
	}

	cfg := classify.ScoreConfig{MatchThreshold: scoreThreshold}
	verdict := classify.ScoreEvidence(scoreMaker, product, sources, cfg)

	if strings.EqualFold(opts.OutputFormat, "json") {
		return printJSON(cmd, verdict)
	}

	out := cmd.OutOrStdout()
	if verdict.Score != nil {
		fmt.Fprintf(out, "score:        %d\n", *verdict.Score)
	} else {
		fmt.Fprintln(out, "score:        n/a (no evidence sources)")
	}
	fmt.Fprintf(out, "risk:         %s\n", verdict.RiskLevel)
	fmt.Fprintf(out, "needs review: %t\n", verdict.NeedsReview)
	if len(verdict.Reasons) > 0 {
		fmt.Fprintf(out, "reasons:      %s\n", strings.Join(verdict.Reasons, "; "))
	}
	return nil
}

// readSourcesCSV loads evidence sources in rank order from a CSV file with a
// title,url header.
func readSourcesCSV(path string) ([]classify.EvidenceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to open sources file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read sources header")
	}
	titleIdx, urlIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "title":
			titleIdx = i
		case "url", "uri":
			urlIdx = i
		}
	}
	if titleIdx < 0 || urlIdx < 0 {
		return nil, errors.InvalidParam("sources header must contain title and url columns")
	}

	var sources []classify.EvidenceSource
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read sources row")
		}
		src := classify.EvidenceSource{}
		if titleIdx < len(record) {
			src.Title = record[titleIdx]
		}
		if urlIdx < len(record) {
			src.URI = record[urlIdx]
		}
		if src.Title == "" && src.URI == "" {
			continue
		}
		sources = append(sources, src)
	}
	return sources, nil
}

//Personal.AI order the ending
