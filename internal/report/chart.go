package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	colorPrice  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorProfit = color.RGBA{G: 160, A: 255}
	colorLoss   = color.RGBA{R: 200, A: 255}
	colorEquity = color.RGBA{B: 200, A: 255}
)

// Chart stacks plots vertically over a shared x axis.
type Chart struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewChart(w, h int) *Chart {
	return &Chart{w: w, h: h}
}

func (c *Chart) Add(p *plot.Plot, height float64) {
	c.plots = append(c.plots, p)
	c.heights = append(c.heights, height)
}

func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	if len(c.plots) == 0 {
		return 0, errors.New("chart has no plots")
	}

	var axis []*plot.Axis
	for _, p := range c.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: c.heights,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range c.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range c.heights {
		h += v * float64(c.h)
	}

	img := vgimg.New(vg.Points(float64(c.w)), vg.Points(h))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range c.plots {
		p.Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	n, err := png.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write chart: %w", err)
	}

	return n, nil
}

func (c *Chart) Save(log *slog.Logger, path string) error {
	return writeFile(log, path, func(w io.Writer) error {
		_, err := c.WriteTo(w)
		return err
	})
}

// TradeChart draws the close price with every trade's entry and its
// take-profit/stop-loss levels, and the budget curve below it. The x axis is
// the bar index.
func TradeChart(symbol string, bars []market.Bar, ledger *backtest.Ledger, initialBudget float64) (*Chart, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars to chart")
	}

	price := plot.New()
	price.Title.Text = symbol
	price.Y.Label.Text = "price"

	closes := make(plotter.XYs, len(bars))
	for i, b := range bars {
		closes[i] = plotter.XY{X: float64(i), Y: b.Close}
	}
	l, err := plotter.NewLine(closes)
	if err != nil {
		return nil, fmt.Errorf("failed to plot close prices: %w", err)
	}
	l.LineStyle.Color = colorPrice
	price.Add(l)

	var longs, shorts plotter.XYs
	for _, t := range ledger.All() {
		tp, err := levelLine(t.EntryIndex, t.ExitIndex, t.TakeProfit, colorProfit)
		if err != nil {
			return nil, err
		}
		sl, err := levelLine(t.EntryIndex, t.ExitIndex, t.StopLoss, colorLoss)
		if err != nil {
			return nil, err
		}
		price.Add(tp, sl)

		entry := plotter.XY{X: float64(t.EntryIndex), Y: t.EntryPrice}
		if t.Side == backtest.SideLong {
			longs = append(longs, entry)
		} else {
			shorts = append(shorts, entry)
		}
	}

	if err := addEntries(price, longs, draw.TriangleGlyph{}, colorProfit); err != nil {
		return nil, err
	}
	if err := addEntries(price, shorts, draw.CircleGlyph{}, colorLoss); err != nil {
		return nil, err
	}

	equity := plot.New()
	equity.Y.Label.Text = "budget"
	equity.X.Label.Text = "bar"

	curve := plotter.XYs{{X: 0, Y: initialBudget}}
	for _, t := range ledger.All() {
		curve = append(curve, plotter.XY{X: float64(t.ExitIndex), Y: t.ExitBudget})
	}
	if last := curve[len(curve)-1]; last.X < float64(len(bars)-1) {
		curve = append(curve, plotter.XY{X: float64(len(bars) - 1), Y: last.Y})
	}

	el, err := plotter.NewLine(curve)
	if err != nil {
		return nil, fmt.Errorf("failed to plot budget curve: %w", err)
	}
	el.LineStyle.Color = colorEquity
	equity.Add(el)

	c := NewChart(1200, 800)
	c.Add(price, 0.7)
	c.Add(equity, 0.3)

	return c, nil
}

func levelLine(from, to int, level float64, clr color.Color) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{
		{X: float64(from), Y: level},
		{X: float64(to), Y: level},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plot trade level: %w", err)
	}
	l.LineStyle.Color = clr
	l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	return l, nil
}

func addEntries(p *plot.Plot, pts plotter.XYs, shape draw.GlyphDrawer, clr color.Color) error {
	if len(pts) == 0 {
		return nil
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to plot entries: %w", err)
	}
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Color = clr
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)

	return nil
}
