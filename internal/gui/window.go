// Package gui is the desktop front end of goview.
package gui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/goview/internal/app"
	"github.com/philipparndt/goview/internal/capture"
	"github.com/philipparndt/goview/internal/config"
	"github.com/philipparndt/goview/pkg/geometry"
	"github.com/philipparndt/goview/pkg/loader"
)

const thumbnailSize = 96

// Window is the main goview window
type Window struct {
	window   fyne.Window
	viewer   *app.Viewer
	settings config.Settings
	view     *ModelView

	posX, posY, posZ *widget.Entry
	swatch           *canvas.Rectangle
	colorButton      *widget.Button
	transparentCheck *widget.Check
	formatSelect     *widget.Select
	captureButton    *widget.Button
	history          *widget.List
	status           *widget.Label

	selected int
	cancel   context.CancelFunc
}

// NewWindow creates the main window on a
func NewWindow(a fyne.App, settings config.Settings) *Window {
	w := &Window{
		window:   a.NewWindow("goview"),
		viewer:   app.New(settings),
		settings: settings,
		selected: -1,
	}
	w.view = NewModelView(w.viewer)
	w.buildControls()

	w.viewer.OnCameraChange(func(p geometry.Vector3) {
		fyne.Do(func() { w.showPosition(p) })
	})

	w.window.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, u := range uris {
			if loader.Supported(u.Path()) {
				w.Open(u.Path())
				return
			}
		}
		dialog.ShowError(fmt.Errorf("%w: drop a %s file", loader.ErrUnsupportedFormat,
			strings.Join(loader.Extensions, ", ")), w.window)
	})
	w.window.SetOnClosed(w.stopWatching)
	w.window.Resize(fyne.NewSize(1200, 800))
	w.showWelcomeScreen()
	return w
}

// Window returns the underlying fyne window
func (w *Window) Window() fyne.Window {
	return w.window
}

// Viewer returns the viewer behind the window
func (w *Window) Viewer() *app.Viewer {
	return w.viewer
}

func (w *Window) buildControls() {
	w.posX = w.newPositionEntry()
	w.posY = w.newPositionEntry()
	w.posZ = w.newPositionEntry()

	w.swatch = canvas.NewRectangle(w.viewer.Background())
	w.swatch.SetMinSize(fyne.NewSize(24, 24))
	w.colorButton = widget.NewButton("Background...", w.pickBackground)

	w.transparentCheck = widget.NewCheck("Transparent", func(checked bool) {
		w.viewer.SetTransparent(checked)
		if checked {
			w.colorButton.Disable()
		} else {
			w.colorButton.Enable()
		}
		w.view.Refresh()
	})

	names := make([]string, len(capture.Formats))
	for i, f := range capture.Formats {
		names[i] = strings.ToUpper(f.String())
	}
	w.formatSelect = widget.NewSelect(names, func(name string) {
		if f, err := capture.ParseFormat(name); err == nil {
			w.viewer.SetFormat(f)
		}
	})

	w.captureButton = widget.NewButton("Capture", w.captureImage)
	w.captureButton.Importance = widget.HighImportance

	w.history = widget.NewList(
		func() int { return w.viewer.History().Len() },
		func() fyne.CanvasObject {
			img := canvas.NewImageFromImage(nil)
			img.FillMode = canvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(thumbnailSize, thumbnailSize*3/4))
			return container.NewHBox(img, widget.NewLabel(""))
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			c, err := w.viewer.History().Get(id)
			if err != nil {
				return
			}
			row := o.(*fyne.Container)
			img := row.Objects[0].(*canvas.Image)
			img.Image = capture.Thumbnail(c.Image, thumbnailSize)
			img.Refresh()
			row.Objects[1].(*widget.Label).SetText(capture.FileName(id, c.Format))
		},
	)
	w.history.OnSelected = func(id widget.ListItemID) { w.selected = id }
	w.history.OnUnselected = func(widget.ListItemID) { w.selected = -1 }

	w.status = widget.NewLabel("")
	w.syncControls()
}

// syncControls copies the viewer state into the controls
func (w *Window) syncControls() {
	w.showPosition(w.viewer.Camera().Position)
	w.swatch.FillColor = w.viewer.Background()
	w.swatch.Refresh()
	w.transparentCheck.SetChecked(w.viewer.Transparent())
	w.formatSelect.SetSelected(strings.ToUpper(w.viewer.Format().String()))
	w.selected = -1
	w.history.UnselectAll()
	w.history.Refresh()
}

func (w *Window) newPositionEntry() *widget.Entry {
	e := widget.NewEntry()
	e.OnSubmitted = func(string) { w.applyPosition() }
	return e
}

// applyPosition moves the camera to the values in the x/y/z entries.
// Entries that do not parse count as zero.
func (w *Window) applyPosition() {
	parse := func(e *widget.Entry) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(e.Text), 64)
		if err != nil {
			return 0
		}
		return v
	}
	w.viewer.SetCameraPosition(geometry.NewVector3(parse(w.posX), parse(w.posY), parse(w.posZ)))
	w.view.Refresh()
}

func (w *Window) showPosition(p geometry.Vector3) {
	w.posX.SetText(formatCoord(p.X))
	w.posY.SetText(formatCoord(p.Y))
	w.posZ.SetText(formatCoord(p.Z))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func (w *Window) pickBackground() {
	picker := dialog.NewColorPicker("Background", "Pick a background color", w.setBackground, w.window)
	picker.Advanced = true
	picker.SetColor(w.viewer.Background())
	picker.Show()
}

func (w *Window) setBackground(c color.Color) {
	w.viewer.SetBackground(c)
	w.swatch.FillColor = w.viewer.Background()
	w.swatch.Refresh()
	w.view.Refresh()
}

func (w *Window) showWelcomeScreen() {
	title := widget.NewLabel("Welcome to goview")
	title.TextStyle = fyne.TextStyle{Bold: true}

	hint := widget.NewLabel(fmt.Sprintf("Open or drop a model (%s)", strings.Join(loader.Extensions, ", ")))

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(title),
		container.NewCenter(hint),
		layout.NewSpacer(),
		container.NewCenter(widget.NewButton("Open Model", w.showFileDialog)),
		layout.NewSpacer(),
	)
	w.window.SetContent(content)
}

func (w *Window) showLoading(path string) {
	bar := widget.NewProgressBarInfinite()
	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(widget.NewLabel("Loading "+path)),
		bar,
		layout.NewSpacer(),
	)
	w.window.SetContent(content)
}

func (w *Window) showFileDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		w.Open(reader.URI().Path())
	}, w.window)
	d.SetFilter(storage.NewExtensionFileFilter(loader.Extensions))
	d.Show()
}

// Open loads path in the background and shows the model once it is ready
func (w *Window) Open(path string) {
	w.stopWatching()
	w.showLoading(path)

	go func() {
		w.viewer.Reset()
		_, err := w.viewer.Load(context.Background(), path)
		fyne.Do(func() { w.loaded(path, err) })
	}()
}

// loaded switches to the main UI after a load attempt
func (w *Window) loaded(path string, err error) {
	if err != nil {
		slog.Error("failed to load model", "path", path, "error", err)
		w.showWelcomeScreen()
		dialog.ShowError(fmt.Errorf("failed to load %s: %w", path, err), w.window)
		return
	}

	w.syncControls()
	w.showMainUI()
	w.startWatching()
}

func (w *Window) startWatching() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go func() {
		err := w.viewer.Watch(ctx, time.Duration(w.settings.WatchDebounce), func(err error) {
			fyne.Do(func() {
				if err != nil {
					w.status.SetText("Reload failed: " + err.Error())
					return
				}
				w.status.SetText("Reloaded")
				w.view.Refresh()
			})
		})
		if err != nil {
			slog.Warn("file watching disabled", "error", err)
		}
	}()
}

func (w *Window) stopWatching() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Window) showMainUI() {
	m := w.viewer.Model()
	info := widget.NewLabel(fmt.Sprintf("%s\nTriangles: %d", m.Name, m.TriangleCount()))

	position := container.New(layout.NewFormLayout(),
		widget.NewLabel("X"), w.posX,
		widget.NewLabel("Y"), w.posY,
		widget.NewLabel("Z"), w.posZ,
	)

	historyScroll := container.NewVScroll(w.history)
	historyScroll.SetMinSize(fyne.NewSize(0, 300))

	panel := container.NewVBox(
		info,
		widget.NewSeparator(),
		widget.NewLabel("Camera Position:"),
		position,
		widget.NewButton("Reframe", w.reframe),
		widget.NewSeparator(),
		widget.NewLabel("Background:"),
		container.NewHBox(w.swatch, w.colorButton),
		w.transparentCheck,
		widget.NewSeparator(),
		widget.NewLabel("Image Format:"),
		w.formatSelect,
		w.captureButton,
		widget.NewSeparator(),
		widget.NewLabel("Captures:"),
		historyScroll,
		container.NewGridWithColumns(3,
			widget.NewButton("Save", w.saveSelected),
			widget.NewButton("Save All", w.saveAll),
			widget.NewButton("Remove", w.removeSelected),
		),
		widget.NewSeparator(),
		widget.NewButton("Back", w.back),
		w.status,
	)

	scroll := container.NewVScroll(panel)
	scroll.SetMinSize(fyne.NewSize(300, 0))

	w.window.SetContent(container.NewBorder(nil, nil, nil, scroll, w.view))
	w.view.Refresh()
}

func (w *Window) reframe() {
	if err := w.viewer.Frame(); err != nil {
		w.status.SetText(err.Error())
	}
	w.view.Refresh()
}

func (w *Window) captureImage() {
	c, err := w.viewer.Capture()
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.history.Refresh()
	w.status.SetText(fmt.Sprintf("Captured %s", capture.FileName(w.viewer.History().Len()-1, c.Format)))
}

func (w *Window) saveSelected() {
	if w.selected < 0 {
		w.status.SetText("Select a capture first")
		return
	}
	index := w.selected
	c, err := w.viewer.History().Get(index)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(c.Data); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save capture: %w", err), w.window)
			return
		}
		w.status.SetText("Saved " + writer.URI().Name())
	}, w.window)
	d.SetFileName(capture.FileName(index, c.Format))
	d.Show()
}

func (w *Window) saveAll() {
	if w.viewer.History().Len() == 0 {
		w.status.SetText("Nothing to save")
		return
	}
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if dir == nil {
			return
		}
		paths, err := w.viewer.History().SaveAll(dir.Path())
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		w.status.SetText(fmt.Sprintf("Saved %d captures", len(paths)))
	}, w.window)
}

func (w *Window) removeSelected() {
	if w.selected < 0 {
		w.status.SetText("Select a capture first")
		return
	}
	if err := w.viewer.History().Remove(w.selected); err != nil {
		dialog.ShowError(err, w.window)
		return
	}
	w.selected = -1
	w.history.UnselectAll()
	w.history.Refresh()
}

// back drops the model and the captures and returns to the welcome screen
func (w *Window) back() {
	w.stopWatching()
	w.viewer.Reset()
	w.syncControls()
	w.status.SetText("")
	w.showWelcomeScreen()
}
