package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/HSCode-Intelligence/internal/domain/classify"
	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/catalog"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

var (
	matchCatalogPath string
	matchLimit       int
)

// NewTokenizeCmd creates the tokenize command: show how a product text breaks
// into search keywords.
func NewTokenizeCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <text>",
		Short: "Tokenize a product description into search keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			tokens := classify.Tokenize(text)
			distinctive := classify.FilterDistinctive(tokens)

			if strings.EqualFold(opts.OutputFormat, "json") {
				return printJSON(cmd, map[string]interface{}{
					"normalized":  classify.Normalize(text),
					"tokens":      tokens,
					"distinctive": distinctive,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "normalized:  %s\n", classify.Normalize(text))
			fmt.Fprintf(cmd.OutOrStdout(), "tokens:      %s\n", strings.Join(tokens, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "distinctive: %s\n", strings.Join(distinctive, " "))
			return nil
		},
	}
}

// NewMatchCmd creates the match command: rank tariff codes from a local
// catalog CSV for a product description.
func NewMatchCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Match a product description against the reference catalog",
		Long: "Tokenizes the given product text, filters distinctive keywords, and ranks\n" +
			"the catalog's tariff codes by keyword coverage.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&matchCatalogPath, "catalog", "", "catalog CSV file (required)")
	cmd.Flags().IntVar(&matchLimit, "limit", classify.DefaultMatchLimit, "maximum candidates to print")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runMatch(cmd *cobra.Command, opts *RootOptions, text string) error {
	entries, err := catalog.FileLoader(matchCatalogPath)(cmd.Context())
	if err != nil {
		return err
	}

	tokens := classify.FilterDistinctive(classify.Tokenize(text))
	if len(tokens) == 0 {
		return errors.InvalidParam("no usable keywords in the given text")
	}

	candidates := classify.MatchReferenceCodes(entries, tokens, matchLimit)

	if strings.EqualFold(opts.OutputFormat, "json") {
		return printJSON(cmd, map[string]interface{}{
			"keywords":   tokens,
			"candidates": candidates,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "keywords: %s\n\n", strings.Join(tokens, " "))
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matching reference codes")
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{c.Code, strconv.Itoa(c.Score), c.Description})
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTable([]string{"CODE", "SCORE", "DESCRIPTION"}, rows))
	return nil
}

//Personal.AI order the ending
