package commands

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/report-atlas/pkg/services/narrative"
	"github.com/de-tools/report-atlas/pkg/services/variance"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatText  = "text"
)

type VarianceCmd struct {
	basePath    string
	comparePath string
	format      string
	topN        int
	reporter    *export.Reporter
}

func NewVarianceCmd(reporter *export.Reporter) *cobra.Command {
	vc := &VarianceCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "variance",
		Short: "Decompose the net income change between two metric files",
		RunE:  vc.run,
	}

	cmd.Flags().StringVar(&vc.basePath, "base", "", "Metrics file of the base period")
	cmd.Flags().StringVar(&vc.comparePath, "compare", "", "Metrics file of the compare period")
	cmd.Flags().StringVar(&vc.format, "format", FormatTable, "Output format: table, json or text")
	cmd.Flags().IntVar(&vc.topN, "top", narrative.DefaultTopN, "Number of drivers in the text narrative")

	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("compare")

	return cmd
}

func (vc *VarianceCmd) run(cmd *cobra.Command, _ []string) error {
	switch vc.format {
	case FormatTable, FormatJSON, FormatText:
	default:
		return fmt.Errorf("unsupported format %q. Supported formats: %s, %s, %s",
			vc.format, FormatTable, FormatJSON, FormatText)
	}

	base, err := readSnapshot(vc.basePath)
	if err != nil {
		return err
	}
	compare, err := readSnapshot(vc.comparePath)
	if err != nil {
		return err
	}

	result, err := variance.ComputeVarianceDrivers(base, compare)
	if err != nil {
		return fmt.Errorf("failed to compute variance: %w", err)
	}
	report := &domain.VarianceReport{
		BaseUploadID:    idFromPath(vc.basePath),
		CompareUploadID: idFromPath(vc.comparePath),
		Result:          result,
	}

	out := cmd.OutOrStdout()
	switch vc.format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapVarianceReportToApi(report))
	case FormatText:
		_, err := fmt.Fprintln(out, narrative.BuildVarianceNarrative(narrative.Input{
			BaseID:    report.BaseUploadID,
			CompareID: report.CompareUploadID,
			Result:    result,
			TopN:      vc.topN,
		}))
		return err
	default:
		return vc.reporter.Handle(adapters.MapVarianceReportToTerminal(report))
	}
}
