package main

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"go.uber.org/zap"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"rangeband"
	"rangeband/backend"
	"rangeband/internal/config"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var zoomInIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ContentAdd)
	return icon
}()

var zoomOutIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ContentRemove)
	return icon
}()

var centerIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ImageCenterFocusStrong)
	return icon
}()

var resetIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ActionRestore)
	return icon
}()

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

// UI holds the state of and draws the top-level demo UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	log  *zap.Logger

	chart     *rangeband.RangeChart
	zoomIn    widget.Clickable
	zoomOut   widget.Clickable
	center    widget.Clickable
	reset     widget.Clickable
	open      widget.Clickable
	fullRange widget.Bool
	loadErr   string

	th             *material.Theme
	snapshotStream *stream.Stream[backend.Snapshot]
	snapshot       backend.Snapshot
}

func NewUI(ws backend.WindowState, win interface{ Invalidate() }, expl *explorer.Explorer, cfg config.Config, logger *zap.Logger) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:             ws,
		th:             th,
		expl:           expl,
		log:            logger,
		snapshotStream: stream.New(ws.Controller, ws.Bundle.Datasource.Latest),
	}
	ui.fullRange.Value = cfg.FullRange
	ui.chart = rangeband.NewRangeChart(rangeband.Options{
		OnRangeChange: func(minPrice, maxPrice float64) {
			logger.Info("range committed",
				zap.Float64("min", minPrice),
				zap.Float64("max", maxPrice),
			)
		},
		Window:     rangeband.ParseWindow(cfg.Window),
		Invalidate: win.Invalidate,
	})
	ui.chart.SetFullRange(cfg.FullRange)
	return ui
}

// Update consumes events and the latest snapshot. Must be called once at the
// start of every frame.
func (ui *UI) Update(gtx C) {
	if snap, isNew := ui.snapshotStream.ReadNew(gtx); isNew {
		ui.snapshot = snap
		if snap.Err != nil {
			ui.loadErr = snap.Err.Error()
		} else {
			ui.loadErr = ""
			ui.chart.SetData(snap.Ticks, snap.Prices, snap.CurrentPrice)
			ui.chart.SetWindow(rangeband.ParseWindow(snap.Window))
		}
	}
	if ui.zoomIn.Clicked(gtx) {
		ui.chart.ZoomIn()
	}
	if ui.zoomOut.Clicked(gtx) {
		ui.chart.ZoomOut()
	}
	if ui.center.Clicked(gtx) {
		ui.chart.CenterRange()
	}
	if ui.reset.Clicked(gtx) {
		ui.chart.Reset()
	}
	if ui.open.Clicked(gtx) {
		if _, err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl); err != nil {
			ui.log.Warn("open snapshot", zap.Error(err))
		}
	}
	if ui.fullRange.Update(gtx) {
		ui.chart.SetFullRange(ui.fullRange.Value)
		if ui.fullRange.Value {
			ui.chart.Reset()
		}
	}
}

func (ui *UI) layoutToolbar(gtx C) D {
	iconBtn := func(btn *widget.Clickable, icon *widget.Icon, desc string) layout.FlexChild {
		return layout.Rigid(func(gtx C) D {
			b := material.IconButton(ui.th, btn, icon, desc)
			b.Size = unit.Dp(20)
			b.Inset = layout.UniformInset(4)
			return layout.UniformInset(2).Layout(gtx, b.Layout)
		})
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		iconBtn(&ui.zoomIn, zoomInIcon, "Zoom in"),
		iconBtn(&ui.zoomOut, zoomOutIcon, "Zoom out"),
		iconBtn(&ui.center, centerIcon, "Center selection"),
		iconBtn(&ui.reset, resetIcon, "Reset view"),
		iconBtn(&ui.open, openIcon, "Open snapshot"),
		layout.Rigid(layout.Spacer{Width: 8}.Layout),
		layout.Rigid(material.CheckBox(ui.th, &ui.fullRange, "Full range").Layout),
		layout.Rigid(layout.Spacer{Width: 8}.Layout),
		layout.Flexed(1, func(gtx C) D {
			if minP, maxP, ok := ui.chart.Range(); ok {
				return material.Body2(ui.th, fmt.Sprintf("min %.6f  max %.6f", minP, maxP)).Layout(gtx)
			}
			return material.Body2(ui.th, "no selection").Layout(gtx)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No snapshot loaded.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.open, "Open Snapshot").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.loadErr).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if !ui.snapshot.Initialized() {
		return ui.layoutStartScreen(gtx)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(func(gtx C) D {
			if ui.loadErr == "" {
				return D{}
			}
			l := material.Body1(ui.th, ui.loadErr)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx C) D {
			return ui.chart.Layout(gtx, ui.th)
		}),
	)
}
