package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"net/http"

	"gradebook/app"
	"gradebook/internal/analysis"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // registers the png canvas
)

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	skyBlue   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	lightGrn  = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	passGreen = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	failRed   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// chartBuilders maps chart names to the report section they need and the
// function that draws it.
var chartBuilders = map[string]struct {
	options func(classes []string) app.ReportOptions
	build   func(r *app.Report) (*plot.Plot, error)
}{
	"histogram": {
		options: func(classes []string) app.ReportOptions {
			return app.ReportOptions{Classes: classes, Histogram: true}
		},
		build: histogramChart,
	},
	"averages": {
		options: func(classes []string) app.ReportOptions {
			return app.ReportOptions{Classes: classes, Averages: true}
		},
		build: averagesChart,
	},
	"passfail": {
		options: func(classes []string) app.ReportOptions {
			return app.ReportOptions{Classes: classes, PassFail: true}
		},
		build: passFailChart,
	},
}

// handleChart renders /charts/{histogram,averages,passfail}.png
func (s *Server) handleChart(c *gin.Context) {
	name := c.Param("name")
	if len(name) > 4 && name[len(name)-4:] == ".png" {
		name = name[:len(name)-4]
	}

	builder, ok := chartBuilders[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown chart %q", c.Param("name"))})
		return
	}

	report, err := s.roster.Report(c.Request.Context(), builder.options(selectedClasses(c)))
	if err != nil {
		c.JSON(errorStatus(err), errorBody(c, err))
		return
	}

	p, err := builder.build(report)
	if err != nil {
		log.Printf("[Charts] Failed to build %s chart: %v", name, err)
		c.JSON(http.StatusInternalServerError, errorBody(c, err))
		return
	}

	png, err := renderPNG(p)
	if err != nil {
		log.Printf("[Charts] Failed to render %s chart: %v", name, err)
		c.JSON(http.StatusInternalServerError, errorBody(c, err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newPlot(title, xLabel, yLabel string, empty bool) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	if empty {
		p.Title.Text += " (no data)"
	}
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func histogramChart(r *app.Report) (*plot.Plot, error) {
	p := newPlot("Distribution of Marks", "Marks", "Number of Students", len(r.Histogram) == 0)
	if len(r.Histogram) == 0 {
		return p, nil
	}

	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(r.Histogram)),
		Width:     r.Histogram[0].Upper - r.Histogram[0].Lower,
		FillColor: skyBlue,
		LineStyle: plotter.DefaultLineStyle,
	}
	for i, b := range r.Histogram {
		h.Bins[i] = plotter.HistogramBin{Min: b.Lower, Max: b.Upper, Weight: float64(b.Count)}
	}
	p.Add(h)
	return p, nil
}

func averagesChart(r *app.Report) (*plot.Plot, error) {
	p := newPlot("Average Marks by Class", "Class", "Average Marks", len(r.Averages) == 0)
	if len(r.Averages) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(r.Averages))
	names := make([]string, len(r.Averages))
	for i, avg := range r.Averages {
		values[i] = avg.Mean
		names[i] = avg.Class
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, err
	}
	bars.Color = lightGrn
	bars.LineStyle = plotter.DefaultLineStyle
	p.Add(bars)
	p.NominalX(names...)
	p.Y.Min = 0
	return p, nil
}

func passFailChart(r *app.Report) (*plot.Plot, error) {
	pf := analysis.PassFail{}
	if r.PassFail != nil {
		pf = *r.PassFail
	}
	p := newPlot("Pass/Fail Distribution", "", "Number of Students", pf.Total() == 0)
	if pf.Total() == 0 {
		return p, nil
	}

	pass, err := plotter.NewBarChart(plotter.Values{float64(pf.Pass)}, vg.Points(40))
	if err != nil {
		return nil, err
	}
	pass.Color = passGreen

	fail, err := plotter.NewBarChart(plotter.Values{float64(pf.Fail)}, vg.Points(40))
	if err != nil {
		return nil, err
	}
	fail.Color = failRed
	fail.XMin = 1

	p.Add(pass, fail)
	p.NominalX(
		fmt.Sprintf("Pass (%.1f%%)", pf.PassPercent()),
		fmt.Sprintf("Fail (%.1f%%)", pf.FailPercent()),
	)
	p.Y.Min = 0
	return p, nil
}
