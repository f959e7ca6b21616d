package rangeband

import (
	"image"
	"strings"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/widget/material"
)

// HistoryWindow is the requested history duration. It only affects axis
// label formatting.
type HistoryWindow uint8

const (
	WindowDay HistoryWindow = iota
	WindowHour
	WindowWeek
	WindowMonth
	WindowYear
)

// ParseWindow maps a config string to a HistoryWindow, defaulting to day.
func ParseWindow(s string) HistoryWindow {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hour", "1h":
		return WindowHour
	case "week", "1w":
		return WindowWeek
	case "month", "1m":
		return WindowMonth
	case "year", "1y":
		return WindowYear
	default:
		return WindowDay
	}
}

// labelFormat picks a duration-appropriate time layout.
func (w HistoryWindow) labelFormat() string {
	switch w {
	case WindowHour, WindowDay:
		return "15:04"
	case WindowWeek, WindowMonth:
		return "Jan 2"
	default:
		return "Jan 2006"
	}
}

const axisLabelCount = 4

// timeAxisRenderer lays out up to four evenly spaced time labels along the
// bottom of the plot.
type timeAxisRenderer struct {
	prices func() *PriceSeries
	window func() HistoryWindow
	theme  func() *material.Theme
}

func (r *timeAxisRenderer) Draw(gtx layout.Context, g geom) {
	prices := r.prices()
	t0, t1, ok := prices.TimeBounds()
	if !ok {
		return
	}
	th := r.theme()
	format := r.window().labelFormat()
	span := t1 - t0
	w := g.Plot.Dx()

	orig := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	for i := 0; i < axisLabelCount; i++ {
		frac := (float64(i) + 0.5) / axisLabelCount
		t := t0 + int64(frac*float64(span))
		label := material.Body2(th, time.Unix(t, 0).UTC().Format(format))
		dims, call := rec(gtx, label.Layout)
		x := g.Plot.Min.X + round(frac*float64(w)) - dims.Size.X/2
		stack := op.Offset(image.Pt(x, g.Plot.Max.Y-dims.Size.Y)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()
	}
	gtx.Constraints = orig
}
