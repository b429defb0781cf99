package commands

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/metrics"
	"github.com/spf13/cobra"
)

type MetricsCmd struct {
	pagesPath string
	format    string
	reporter  *export.Reporter
}

func NewMetricsCmd(reporter *export.Reporter) *cobra.Command {
	mc := &MetricsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Extract statement metrics from a page-indexed text file",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.pagesPath, "pages", "", "JSON array of {page, text} objects")
	cmd.Flags().StringVar(&mc.format, "format", FormatTable, "Output format: table or json")

	_ = cmd.MarkFlagRequired("pages")

	return cmd
}

func (mc *MetricsCmd) run(cmd *cobra.Command, _ []string) error {
	if mc.format != FormatTable && mc.format != FormatJSON {
		return fmt.Errorf("unsupported format %q. Supported formats: %s, %s", mc.format, FormatTable, FormatJSON)
	}

	pages, err := readPages(mc.pagesPath)
	if err != nil {
		return err
	}

	uploadID := idFromPath(mc.pagesPath)
	extracted := metrics.Extract(pages)

	if mc.format == FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapExtractedMetricsToStore(uploadID, extracted))
	}
	return mc.reporter.Handle(adapters.MapExtractedMetricsToTerminal(uploadID, extracted))
}
