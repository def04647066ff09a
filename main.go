// =============================================================================
// Fuel Journal Stats - Main Entry Point
// =============================================================================
//
// USAGE:
//   fuelstats process       - Analyze every new month directory
//   fuelstats extract FILE  - Print what one day journal resolves to
//   fuelstats version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/logparser  : the journal extraction engine
//   - internal/stats      : per-day counts
//   - internal/xlsxwriter : the results workbook
//   - internal/analyzer   : the per-month pipeline
//   - internal/store      : optional SQLite archive
//   - pkg/utils           : month and day file discovery
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/fuelstats/cmd"
)

func main() {
	cmd.Execute()
}
