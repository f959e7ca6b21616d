package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
)

// WindowState carries the per-window stream controller alongside the shared
// application bundle.
type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds application-scoped services.
type Bundle struct {
	Datasource *Datasource
}

func NewBundle(ctx context.Context, mutator *stream.Mutator) (Bundle, error) {
	ds, err := NewDatasource(ctx, mutator)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Datasource: ds}, nil
}
