package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
	"github.com/meridian-policy/packet-cli/internal/tracker"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders a dollar amount with thousands separators and no
// fraction. Callers add the currency sign.
func formatMoney(amount float64) string {
	return moneyPrinter.Sprintf("%.0f", amount)
}

// packetPayload is the JSON rendering of one generation result.
type packetPayload struct {
	*model.PacketContext
	Changes         []model.Change     `json:"changes,omitempty"`
	FirstGeneration bool               `json:"first_generation"`
	SnapshotStatus  tracker.LoadStatus `json:"snapshot_status"`
}

// batchPayload is the JSON rendering of one batch entry. Failed entries
// carry the error string and no packet.
type batchPayload struct {
	TribeID string         `json:"tribe_id"`
	Error   string         `json:"error,omitempty"`
	Packet  *packetPayload `json:"packet,omitempty"`
}

func newPacketPayload(result *pipeline.Result) *packetPayload {
	return &packetPayload{
		PacketContext:   result.Context,
		Changes:         result.Changes,
		FirstGeneration: result.FirstGeneration,
		SnapshotStatus:  result.SnapshotStatus,
	}
}

// openOutput opens the output file, or stdout when the path is empty.
// The returned cleanup closes the file; it is a no-op for stdout.
func openOutput(outputPath string) (*os.File, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", outputPath)
	}
	return f, func() { _ = f.Close() }, nil
}

func outputPacket(result *pipeline.Result, format, outputPath string) error {
	if format == "xlsx" {
		return writePacketXLSX(result, outputPath)
	}

	w, closeFn, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	switch format {
	case "json":
		return writeJSONIndent(w, newPacketPayload(result))
	case "csv":
		return writePacketCSV(w, result.Context)
	case "table":
		return writePacketTable(w, result)
	default:
		return eris.Errorf("packet: unsupported format %q", format)
	}
}

func outputBatch(results []pipeline.BatchResult, format, outputPath string) error {
	if format == "xlsx" {
		return writeBatchXLSX(results, outputPath)
	}

	w, closeFn, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	switch format {
	case "json":
		payloads := make([]batchPayload, 0, len(results))
		for _, br := range results {
			p := batchPayload{TribeID: br.TribeID}
			if br.Err != nil {
				p.Error = br.Err.Error()
			} else {
				p.Packet = newPacketPayload(br.Result)
			}
			payloads = append(payloads, p)
		}
		return writeJSONIndent(w, payloads)
	case "csv":
		return writeBatchCSV(w, results)
	case "table":
		return writeBatchTable(w, results)
	default:
		return eris.Errorf("packet: unsupported format %q", format)
	}
}

func writeJSONIndent(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode JSON output")
	}
	return nil
}

var packetCSVHeader = []string{"tribe_id", "program_id", "program_name", "agency", "tier", "score"}

func writePacketCSV(w *os.File, pc *model.PacketContext) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(packetCSVHeader); err != nil {
		return eris.Wrap(err, "write CSV header")
	}
	if err := writeProgramRows(cw, pc); err != nil {
		return err
	}
	return nil
}

func writeBatchCSV(w *os.File, results []pipeline.BatchResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(packetCSVHeader); err != nil {
		return eris.Wrap(err, "write CSV header")
	}
	for _, br := range results {
		if br.Err != nil {
			continue
		}
		if err := writeProgramRows(cw, br.Result.Context); err != nil {
			return err
		}
	}
	return nil
}

func writeProgramRows(cw *csv.Writer, pc *model.PacketContext) error {
	for _, sp := range pc.Programs {
		row := []string{
			pc.TribeID,
			sp.Program.ID,
			sp.Program.Name,
			sp.Program.Agency,
			string(sp.Program.Tier),
			fmt.Sprintf("%.1f", sp.Score),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	return nil
}

func writePacketTable(w *os.File, result *pipeline.Result) error {
	pc := result.Context

	fmt.Fprintf(w, "Tribe:          %s (%s)\n", pc.TribeName, pc.TribeID)
	fmt.Fprintf(w, "Generated:      %s\n", pc.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Advocacy goal:  %s\n", pc.AdvocacyGoal)
	if pc.CompositeRisk != nil {
		fmt.Fprintf(w, "Composite risk: %.1f\n", *pc.CompositeRisk)
	}
	if len(pc.TopHazards) > 0 {
		fmt.Fprintf(w, "Top hazards:    %s\n", strings.Join(pc.TopHazards, ", "))
	}
	if result.FirstGeneration {
		fmt.Fprintf(w, "First generation for this tribe.\n")
	}

	fmt.Fprintf(w, "\n%-27s %-50s %-9s %7s\n", "PROGRAM", "NAME", "TIER", "SCORE")
	fmt.Fprintln(w, strings.Repeat("-", 95))
	for _, sp := range pc.Programs {
		name := sp.Program.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		fmt.Fprintf(w, "%-27s %-50s %-9s %7.1f\n", sp.Program.ID, name, sp.Program.Tier, sp.Score)
	}

	ec := pc.Economic
	if len(ec.Programs) > 0 {
		fmt.Fprintf(w, "\n%-27s %15s %15s %15s %11s\n", "ECONOMIC IMPACT", "AMOUNT", "IMPACT LOW", "IMPACT HIGH", "JOBS")
		fmt.Fprintln(w, strings.Repeat("-", 95))
		for _, pi := range ec.Programs {
			id := pi.ProgramID
			if pi.IsBenchmark {
				id += " *"
			}
			fmt.Fprintf(w, "%-27s %15s %15s %15s %5.1f-%-5.1f\n",
				id, "$"+formatMoney(pi.Amount), "$"+formatMoney(pi.ImpactLow), "$"+formatMoney(pi.ImpactHigh),
				pi.JobsLow, pi.JobsHigh)
		}
		fmt.Fprintln(w, strings.Repeat("-", 95))
		fmt.Fprintf(w, "%-27s %15s %15s %15s %5.1f-%-5.1f\n",
			"TOTAL", "$"+formatMoney(ec.Totals.Amount), "$"+formatMoney(ec.Totals.ImpactLow), "$"+formatMoney(ec.Totals.ImpactHigh),
			ec.Totals.JobsLow, ec.Totals.JobsHigh)
		if ec.BenchmarkCount > 0 {
			fmt.Fprintf(w, "* benchmark estimate, no observed funding\n")
		}
	}

	if len(pc.Confidence) > 0 {
		fmt.Fprintf(w, "\nData confidence:\n")
		for _, section := range []string{pipeline.SectionHazardProfile, pipeline.SectionAwards, pipeline.SectionDelegation} {
			sc, ok := pc.Confidence[section]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %-16s %.2f (%s, source %s)\n", section, sc.Score, sc.Level, sc.Source)
		}
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(w, "\nChanges since last generation:\n")
		for _, ch := range result.Changes {
			fmt.Fprintf(w, "  [%s] %s\n", ch.Type, ch.Description)
		}
	}

	return nil
}

func writeBatchTable(w *os.File, results []pipeline.BatchResult) error {
	fmt.Fprintf(w, "%-25s %-8s %9s %8s %-28s\n", "TRIBE", "STATUS", "PROGRAMS", "CHANGES", "ADVOCACY GOAL")
	fmt.Fprintln(w, strings.Repeat("-", 82))

	var succeeded, failed int
	for _, br := range results {
		if br.Err != nil {
			failed++
			fmt.Fprintf(w, "%-25s %-8s %9s %8s %-28s\n", br.TribeID, "error", "-", "-", truncate(br.Err.Error(), 28))
			continue
		}
		succeeded++
		pc := br.Result.Context
		fmt.Fprintf(w, "%-25s %-8s %9d %8d %-28s\n",
			br.TribeID, "ok", len(pc.Programs), len(br.Result.Changes), pc.AdvocacyGoal)
	}

	fmt.Fprintf(w, "\n%d generated, %d failed\n", succeeded, failed)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func writeRegionTable(w *os.File, rc *model.RegionalContext) error {
	fmt.Fprintf(w, "Region:         %s (%s)\n", rc.RegionName, rc.RegionID)
	fmt.Fprintf(w, "Generated:      %s\n", rc.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Members:        %d tribes\n", rc.TribeCount)
	fmt.Fprintf(w, "Total awarded:  $%s across %d tribes\n", formatMoney(rc.TotalAwarded), rc.TribesWithAwards)
	if rc.CompositeRiskCount > 0 {
		fmt.Fprintf(w, "Composite risk: %.1f (mean of %d profiles)\n", rc.CompositeRisk, rc.CompositeRiskCount)
	}
	fmt.Fprintf(w, "Delegation:     %d senators, %d representatives\n", rc.SenatorCount, rc.RepresentativeCount)

	if len(rc.SharedHazards) > 0 {
		fmt.Fprintf(w, "\n%-25s %7s %11s\n", "SHARED HAZARD", "TRIBES", "MEAN SCORE")
		fmt.Fprintln(w, strings.Repeat("-", 45))
		for _, sh := range rc.SharedHazards {
			fmt.Fprintf(w, "%-25s %7d %11.1f\n", sh.Type, sh.TribeCount, sh.MeanScore)
		}
	}

	if len(rc.DelegationOverlap) > 0 {
		fmt.Fprintf(w, "\n%-30s %-16s %7s\n", "DELEGATION OVERLAP", "ROLE", "TRIBES")
		fmt.Fprintln(w, strings.Repeat("-", 55))
		for _, om := range rc.DelegationOverlap {
			fmt.Fprintf(w, "%-30s %-16s %7d\n", om.Name, om.Role, om.TribeCount)
		}
	}

	et := rc.Economic
	fmt.Fprintf(w, "\nObserved economic impact: $%s awarded, $%s to $%s estimated, %.1f to %.1f jobs\n",
		formatMoney(et.Amount), formatMoney(et.ImpactLow), formatMoney(et.ImpactHigh), et.JobsLow, et.JobsHigh)

	printGapList(w, "no awards", rc.Gaps.NoAwards)
	printGapList(w, "no hazard data", rc.Gaps.NoHazardData)
	printGapList(w, "no delegation", rc.Gaps.NoDelegation)

	return nil
}

func printGapList(w *os.File, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "Gap (%s): %s\n", label, strings.Join(ids, ", "))
}
