// =============================================================================
// Fuel Journal Stats - Extract Command
// =============================================================================
//
// This file defines the 'extract' command. It runs the extraction engine on a
// single day journal and prints what it resolved, without touching the
// workbook.
//
// COMMAND USAGE:
//   fuelstats extract <day-file> [--format text|yaml] [--encoding NAME]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/validation"
	"github.com/ginjaninja78/fuelstats/pkg/utils"
)

// extractFormat is the output format: "text" or "yaml".
var extractFormat string

// extractEncoding overrides the configured day-file encoding.
var extractEncoding string

var extractCmd = &cobra.Command{
	Use:   "extract <day-file>",
	Short: "Print the transactions resolved from one day journal",
	Long: `The extract command reads one day journal and prints the resolved fuel
transactions, the stand-alone car washes and the diagnostics of the day.

The exit status is non-zero when the day could not be extracted at all; the
fatal diagnostic is still printed.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(
		&extractFormat,
		"format",
		"f",
		"text",
		"Output format: text or yaml",
	)

	extractCmd.Flags().StringVar(
		&extractEncoding,
		"encoding",
		"",
		"Character encoding of the day file (overrides encoding)",
	)
}

func runExtract(cmd *cobra.Command, path string) error {
	var write func(io.Writer, *logparser.DayResult) error
	switch extractFormat {
	case "text":
		write = logparser.WriteText
	case "yaml":
		write = logparser.WriteYAML
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", extractFormat)
	}

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	encoding := cfg.Encoding
	if extractEncoding != "" {
		if !logparser.ValidEncoding(extractEncoding) {
			return fmt.Errorf("unsupported encoding %q", extractEncoding)
		}
		encoding = extractEncoding
	}

	e := logparser.New(logparser.WithLogger(log), logparser.WithEncoding(encoding))
	res, extractErr := e.ExtractFile(cmd.Context(), path)
	if date, ok := utils.ParseDayFile(path); ok {
		res.Date = date
	}
	if extractErr == nil {
		res.Diagnostics = append(res.Diagnostics, validation.Validate(res).Diagnostics()...)
	}

	if err := write(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	return extractErr
}
