package main

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
)

// writePacketXLSX renders a single generation result as a workbook with
// summary, program, economic, and change sheets.
func writePacketXLSX(result *pipeline.Result, path string) error {
	wb := xlsx.NewFile()

	if err := addSummarySheet(wb, result); err != nil {
		return err
	}
	if err := addProgramSheet(wb, "Programs", false, []pipeline.BatchResult{{TribeID: result.Context.TribeID, Result: result}}); err != nil {
		return err
	}
	if err := addEconomicSheet(wb, result.Context); err != nil {
		return err
	}
	if err := addChangeSheet(wb, result.Changes); err != nil {
		return err
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "save workbook %s", path)
	}
	return nil
}

// writeBatchXLSX renders a batch run as a workbook with one roster sheet
// and a combined program sheet keyed by tribe.
func writeBatchXLSX(results []pipeline.BatchResult, path string) error {
	wb := xlsx.NewFile()

	sheet, err := wb.AddSheet("Tribes")
	if err != nil {
		return eris.Wrap(err, "add workbook sheet")
	}
	addHeaderRow(sheet, "tribe_id", "status", "programs", "changes", "advocacy_goal", "error")
	for _, br := range results {
		row := sheet.AddRow()
		row.AddCell().Value = br.TribeID
		if br.Err != nil {
			row.AddCell().Value = "error"
			row.AddCell()
			row.AddCell()
			row.AddCell()
			row.AddCell().Value = br.Err.Error()
			continue
		}
		row.AddCell().Value = "ok"
		row.AddCell().SetInt(len(br.Result.Context.Programs))
		row.AddCell().SetInt(len(br.Result.Changes))
		row.AddCell().Value = br.Result.Context.AdvocacyGoal
		row.AddCell()
	}

	if err := addProgramSheet(wb, "Programs", true, results); err != nil {
		return err
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "save workbook %s", path)
	}
	return nil
}

func addSummarySheet(wb *xlsx.File, result *pipeline.Result) error {
	sheet, err := wb.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "add workbook sheet")
	}

	pc := result.Context
	addKV(sheet, "Tribe", pc.TribeName)
	addKV(sheet, "Tribe ID", pc.TribeID)
	addKV(sheet, "Generated", pc.GeneratedAt.Format("2006-01-02 15:04 MST"))
	addKV(sheet, "Advocacy goal", pc.AdvocacyGoal)
	if pc.CompositeRisk != nil {
		row := sheet.AddRow()
		row.AddCell().Value = "Composite risk"
		row.AddCell().SetFloat(*pc.CompositeRisk)
	}
	for _, section := range []string{pipeline.SectionHazardProfile, pipeline.SectionAwards, pipeline.SectionDelegation} {
		sc, ok := pc.Confidence[section]
		if !ok {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().Value = "Confidence " + section
		row.AddCell().SetFloat(sc.Score)
		row.AddCell().Value = sc.Level
	}
	return nil
}

func addProgramSheet(wb *xlsx.File, name string, withTribe bool, results []pipeline.BatchResult) error {
	sheet, err := wb.AddSheet(name)
	if err != nil {
		return eris.Wrap(err, "add workbook sheet")
	}

	if withTribe {
		addHeaderRow(sheet, "tribe_id", "program_id", "program_name", "agency", "tier", "score")
	} else {
		addHeaderRow(sheet, "program_id", "program_name", "agency", "tier", "score")
	}

	for _, br := range results {
		if br.Err != nil {
			continue
		}
		for _, sp := range br.Result.Context.Programs {
			row := sheet.AddRow()
			if withTribe {
				row.AddCell().Value = br.TribeID
			}
			row.AddCell().Value = sp.Program.ID
			row.AddCell().Value = sp.Program.Name
			row.AddCell().Value = sp.Program.Agency
			row.AddCell().Value = string(sp.Program.Tier)
			row.AddCell().SetFloat(sp.Score)
		}
	}
	return nil
}

func addEconomicSheet(wb *xlsx.File, pc *model.PacketContext) error {
	sheet, err := wb.AddSheet("Economic Impact")
	if err != nil {
		return eris.Wrap(err, "add workbook sheet")
	}

	addHeaderRow(sheet, "program_id", "amount", "impact_low", "impact_high", "jobs_low", "jobs_high", "benchmark")
	for _, pi := range pc.Economic.Programs {
		row := sheet.AddRow()
		row.AddCell().Value = pi.ProgramID
		row.AddCell().SetFloat(pi.Amount)
		row.AddCell().SetFloat(pi.ImpactLow)
		row.AddCell().SetFloat(pi.ImpactHigh)
		row.AddCell().SetFloat(pi.JobsLow)
		row.AddCell().SetFloat(pi.JobsHigh)
		row.AddCell().SetBool(pi.IsBenchmark)
	}

	t := pc.Economic.Totals
	row := sheet.AddRow()
	row.AddCell().Value = "TOTAL"
	row.AddCell().SetFloat(t.Amount)
	row.AddCell().SetFloat(t.ImpactLow)
	row.AddCell().SetFloat(t.ImpactHigh)
	row.AddCell().SetFloat(t.JobsLow)
	row.AddCell().SetFloat(t.JobsHigh)
	return nil
}

func addChangeSheet(wb *xlsx.File, changes []model.Change) error {
	sheet, err := wb.AddSheet("Changes")
	if err != nil {
		return eris.Wrap(err, "add workbook sheet")
	}

	addHeaderRow(sheet, "type", "description")
	for _, ch := range changes {
		row := sheet.AddRow()
		row.AddCell().Value = string(ch.Type)
		row.AddCell().Value = ch.Description
	}
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().Value = n
	}
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}
