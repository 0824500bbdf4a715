// Package export writes simulation results to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nazeern/simrc"
)

// Sheet names of the workbook produced by WriteXLSX.
const (
	SheetSummary   = "Summary"
	SheetWaveforms = "Waveforms"
	SheetSpectra   = "Spectra"
)

// WriteXLSX saves one simulation to an xlsx workbook: a summary sheet with
// the parameters and impedance results, plus the raw waveform and spectrum
// samples.
func WriteXLSX(path string, p simrc.Params, out *simrc.Output) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	summary := [][2]interface{}{
		{"Frequency (Hz)", p.Frequency},
		{"Cycles", p.Cycles},
		{"Resistance (Ohm)", p.Resistance},
		{"Capacitance (nF)", p.CapacitanceNF},
		{"Samples", len(out.Time)},
		{"Expected impedance (Ohm)", out.ExpectedImpedance},
		{"Calculated impedance (Ohm)", out.CalculatedImpedance},
		{"Peak voltage amplitude (V)", out.PeakVoltage},
		{"Peak current amplitude (A)", out.PeakCurrent},
	}
	for i, row := range summary {
		if err := setRow(f, SheetSummary, i+1, row[0], row[1]); err != nil {
			return err
		}
	}

	if err := writeSeries(f, SheetWaveforms,
		[]string{"Time (s)", "V_in (V)", "I_out (A)"},
		out.Time, out.Voltage, out.Current); err != nil {
		return err
	}

	bins := make([]float64, len(out.VoltageSpectrum))
	for i := range bins {
		bins[i] = float64(i)
	}
	if err := writeSeries(f, SheetSpectra,
		[]string{"Bin", "V_in amplitude", "I_out amplitude"},
		bins, out.VoltageSpectrum, out.CurrentSpectrum); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSeries(f *excelize.File, sheet string, headers []string, cols ...[]float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if len(headers) != len(cols) {
		return fmt.Errorf("export: %d headers for %d columns", len(headers), len(cols))
	}

	hs := make([]interface{}, len(headers))
	for i, h := range headers {
		hs[i] = h
	}
	if err := setRow(f, sheet, 1, hs...); err != nil {
		return err
	}

	for i := range cols[0] {
		row := make([]interface{}, len(cols))
		for c := range cols {
			row[c] = cols[c][i]
		}
		if err := setRow(f, sheet, i+2, row...); err != nil {
			return err
		}
	}
	return nil
}
