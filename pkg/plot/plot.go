// Package plot renders simulation output to image files, mirroring the
// waveform and spectrum figures of the original dashboard.
package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/nazeern/simrc"
)

// Waveforms renders the input voltage and output current waves against time.
// The output format follows the file extension; PNG output honors dpi.
func Waveforms(out *simrc.Output, p simrc.Params, path string, sizeInches, dpi uint) error {
	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("V_in and I_out at freq = %d Hz", p.Frequency)
	plt.X.Label.Text = "Time (Seconds)"
	plt.Y.Label.Text = "Amplitude"

	err := plotutil.AddLines(plt,
		"V_in (V)", xyPairs(out.Time, out.Voltage),
		"I_out (A)", xyPairs(out.Time, out.Current))
	if err != nil {
		return fmt.Errorf("build waveform plot: %w", err)
	}

	return save(plt, path, sizeInches, dpi)
}

// Spectra renders the single-sided amplitude spectra of both waveforms
// against frequency.
func Spectra(out *simrc.Output, p simrc.Params, path string, sizeInches, dpi uint) error {
	plt := plot.New()
	plt.Title.Text = "Fourier transform of V_in and I_out"
	plt.X.Label.Text = "Frequency (Hz)"
	plt.Y.Label.Text = "Amplitude"

	// Bin width of the DFT given the fixed oversampling factor.
	n := len(out.Time)
	binHz := float64(p.Frequency*simrc.SamplesPerCycle) / float64(n)

	freqs := make([]float64, len(out.VoltageSpectrum))
	for i := range freqs {
		freqs[i] = float64(i) * binHz
	}

	err := plotutil.AddLines(plt,
		"V_in", xyPairs(freqs, out.VoltageSpectrum),
		"I_out", xyPairs(freqs, out.CurrentSpectrum))
	if err != nil {
		return fmt.Errorf("build spectrum plot: %w", err)
	}

	return save(plt, path, sizeInches, dpi)
}

func xyPairs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func save(plt *plot.Plot, path string, sizeInches, dpi uint) error {
	if sizeInches == 0 {
		sizeInches = 4
	}
	side := vg.Length(sizeInches) * vg.Inch

	if strings.EqualFold(filepath.Ext(path), ".png") {
		return savePNG(plt, path, side, dpi)
	}
	return plt.Save(side, side, path)
}

// savePNG draws on a raster canvas so the DPI setting takes effect; Save
// only supports the default 72 DPI.
func savePNG(plt *plot.Plot, path string, side vg.Length, dpi uint) error {
	if dpi == 0 {
		dpi = 96
	}
	canvas := vgimg.NewWith(vgimg.UseWH(side, side), vgimg.UseDPI(int(dpi)))
	plt.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
