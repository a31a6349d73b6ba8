package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/engine"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one assessment (no writes)",
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to assessment JSON, or - for stdin (required)")
	f.IntVar(&cfg.TherapyMinutes, "minutes", 0, "Weekly therapy minutes")
	f.BoolVar(&cfg.JSON, "json", false, "Print the full report as JSON")
	_ = classifyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	log := setup()

	if err := cfg.ValidateRate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	a, err := readAssessment(cfg.FilePath, cmd.InOrStdin())
	if err != nil {
		log.Error().Err(err).Msg("failed to read assessment")
		os.Exit(exitcode.ValidationError)
	}

	eng, err := buildEngine(cfg.Engine, log, nil)
	if err != nil {
		log.Error().Err(err).Msg("engine config invalid")
		os.Exit(exitcode.UsageError)
	}

	rep, err := eng.Evaluate(engine.Request{
		Assessment:     a,
		TherapyMinutes: cfg.TherapyMinutes,
		BaseDailyRate:  cfg.BaseDailyRate,
	})
	if err != nil {
		var inv *engine.InvalidInputError
		if errors.As(err, &inv) {
			log.Error().Str("field", inv.Field).Msg(inv.Reason)
			os.Exit(exitcode.ValidationError)
		}
		log.Error().Err(err).Msg("classification failed")
		os.Exit(exitcode.ClassifyError)
	}

	out := cmd.OutOrStdout()
	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(out, rep)
	return nil
}

func readAssessment(path string, stdin io.Reader) (model.Assessment, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.Assessment{}, err
		}
		defer f.Close()
		r = f
	}
	var a model.Assessment
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return model.Assessment{}, fmt.Errorf("decode assessment: %w", err)
	}
	return a, nil
}

func printReport(w io.Writer, rep *model.Report) {
	c := rep.Classification
	fmt.Fprintln(w, "=== caremix classify ===")
	fmt.Fprintf(w, "Assessment:  %s\n", rep.AssessmentID)
	fmt.Fprintf(w, "Resident:    %s\n", rep.ResidentID)
	fmt.Fprintf(w, "SHA-256:     %s\n", rep.AssessmentSHA256)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HIPPS code:  %s\n", c.HIPPSCode)
	fmt.Fprintf(w, "RUG group:   %s (%s)\n", c.RUGCategory, rep.Branch)
	fmt.Fprintf(w, "Case mix:    %.2f\n", c.CaseMixIndex)
	fmt.Fprintf(w, "ADL score:   %d\n", c.ADLScore)
	fmt.Fprintf(w, "Rehab:       %s (%d min)\n", c.RehabilitationCategory, rep.TherapyMinutes)
	fmt.Fprintf(w, "Behavior:    %s\n", c.BehaviorCategory)
	fmt.Fprintf(w, "Complex med: %t\n", c.ComplexMedical)
	fmt.Fprintf(w, "Reduced PF:  %t\n", c.ReducedPhysicalFunction)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Base rate:   %10.2f\n", rep.BaseDailyRate)
	fmt.Fprintf(w, "Daily rate:  %10.2f\n", c.EstimatedDailyRate)
	fmt.Fprintf(w, "Monthly:     %10.2f\n", c.EstimatedMonthlyRevenue)

	if len(rep.Coercions) > 0 {
		fmt.Fprintf(w, "\nCoerced items (%d):\n", len(rep.Coercions))
		for _, co := range rep.Coercions {
			fmt.Fprintf(w, "  %s.%-8s %-12s raw=%q used=%d\n", co.Section, co.Item, co.Reason, co.Raw, co.Used)
		}
	}

	keys := make([]string, 0, len(rep.QualityMeasures))
	for k := range rep.QualityMeasures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "\nQuality measures:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %-32s %s\n", k, rep.QualityMeasures[k].Status)
	}
}
