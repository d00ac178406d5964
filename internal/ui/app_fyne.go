//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"goshapestudio/internal/config"
	"goshapestudio/internal/crash"
	"goshapestudio/internal/editor"
	"goshapestudio/internal/export"
	"goshapestudio/internal/geom"
	applog "goshapestudio/internal/log"
	"goshapestudio/internal/shape"
	"goshapestudio/internal/snap"
	"goshapestudio/internal/storage"
	"goshapestudio/internal/stylepack"
	"goshapestudio/internal/telemetry"
	"goshapestudio/internal/version"
)

// editorStateID is the key the UI stores its editor memory under in the
// document's index database.
const editorStateID = "ui"

// Run starts the Fyne-based desktop shell around the shape editor.
func Run(docDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var dh *storage.DocumentHandle
	defer func() { crash.Recover(dh) }()

	fyneApp := app.NewWithID("goshapestudio")
	w := fyneApp.NewWindow("Go Shape Studio")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	viewLabel := widget.NewLabel("Zoom: 100%  Snap: on")
	sc := NewShapeCanvas()
	sc.showGrid = prefs.BoolWithFallback("canvas.grid", true)
	if cfg, _, cerr := config.Load(); cerr == nil {
		sc.opts = editorOptions(cfg.Editor)
	} else {
		l.Warn("config not loaded, using editor defaults", slog.Any("err", cerr))
	}

	// Shape outline (left): one row per leaf shape in address order.
	shapesDisplay := []string{}
	shapesList := widget.NewList(
		func() int { return len(shapesDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(shapesDisplay) {
				o.(*widget.Label).SetText(shapesDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	shapesList.OnSelected = func(id widget.ListItemID) {
		l.Info("shape selected", slog.Int("index", int(id)))
	}
	refreshShapesList := func() {
		shapesDisplay = shapesDisplay[:0]
		if dh != nil && dh.Doc.Root.Root != nil {
			shape.EachShape(dh.Doc.Root.Root, func(i int, s shape.Shape) bool {
				shapesDisplay = append(shapesDisplay, fmt.Sprintf("%d %s (%d pts)", i, shape.KindOf(s), shape.PointCount(s)))
				return false
			})
		}
		shapesList.Refresh()
	}
	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Shapes"), widget.NewSeparator()), nil, nil, nil,
		shapesList,
	)

	// History and snapshots (right)
	historyLabel := widget.NewLabel("History: empty")
	refreshHistory := func() {
		if name, ok := sc.LastActionName(); ok {
			historyLabel.SetText(fmt.Sprintf("History: %d (last: %s)", sc.HistoryLen(), name))
		} else {
			historyLabel.SetText("History: empty")
		}
	}
	snapDisplay := []string{}
	snapIDs := []int64{}
	snapshotsList := widget.NewList(
		func() int { return len(snapDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(snapDisplay) {
				o.(*widget.Label).SetText(snapDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)
	refreshSnapshots := func() {
		snapDisplay = snapDisplay[:0]
		snapIDs = snapIDs[:0]
		if dh != nil {
			infos, err := storage.ListSnapshots(context.Background(), dh, "", 50)
			if err != nil {
				l.Error("list snapshots failed", slog.Any("err", err))
			}
			for _, si := range infos {
				label := si.Label
				if strings.TrimSpace(label) == "" {
					label = "snapshot"
				}
				snapDisplay = append(snapDisplay, fmt.Sprintf("%s %s", si.TS.Local().Format("15:04:05"), label))
				snapIDs = append(snapIDs, si.ID)
			}
		}
		snapshotsList.Refresh()
	}
	snapshotsList.OnSelected = func(id widget.ListItemID) {
		idx := int(id)
		if dh == nil || idx < 0 || idx >= len(snapIDs) {
			return
		}
		snapID := snapIDs[idx]
		dialog.ShowConfirm("Restore Snapshot", "Replace the current document with this snapshot?", func(ok bool) {
			snapshotsList.UnselectAll()
			if !ok {
				return
			}
			doc, err := storage.LoadSnapshot(context.Background(), dh, snapID)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			dh.Doc = *doc
			sc.DocumentReplaced()
			refreshShapesList()
			refreshHistory()
			status.SetText("Snapshot restored")
		}, w)
	}
	takeSnapshotBtn := widget.NewButton("Take Snapshot", func() {
		if dh == nil {
			dialog.ShowInformation("Snapshot", "No document open.", w)
			return
		}
		entry := widget.NewEntry()
		entry.SetPlaceHolder("label")
		dialog.ShowForm("Take Snapshot", "Save", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Label", entry),
		}, func(ok bool) {
			if !ok {
				return
			}
			id, err := storage.SaveSnapshot(context.Background(), dh, entry.Text, time.Now())
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			l.Info("snapshot saved", slog.Int64("id", id))
			refreshSnapshots()
			status.SetText("Snapshot saved")
		}, w)
	})
	gridCheck := widget.NewCheck("Grid", func(v bool) {
		sc.showGrid = v
		sc.Refresh()
	})
	gridCheck.SetChecked(sc.showGrid)
	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("Document"), widget.NewSeparator(), historyLabel, gridCheck, takeSnapshotBtn, widget.NewSeparator(), widget.NewLabel("Snapshots")),
		nil, nil, nil,
		snapshotsList,
	)

	sc.OnEdited = func() {
		refreshShapesList()
		refreshHistory()
		snapState := "on"
		if sc.opts.SnapByDefault == sc.mods.Alt {
			snapState = "off"
		}
		viewLabel.SetText(fmt.Sprintf("Zoom: %.0f%%  Snap: %s", sc.state.Transform.Scale*100, snapState))
	}

	statusBar := container.NewBorder(nil, nil, nil, viewLabel, status)
	mainContent := container.NewBorder(nil, statusBar, left, right, sc)

	// Dashboard shown while no document is open: recent documents plus
	// the new/open entry points.
	var openDocument func(dir string)
	var showDashboard func()
	showMain := func() { w.SetContent(mainContent) }

	newDocumentDialog := func() {
		dirEntry := widget.NewEntry()
		dirEntry.SetPlaceHolder(filepath.Join("~", "shapes", "untitled"))
		nameEntry := widget.NewEntry()
		nameEntry.SetPlaceHolder("Untitled")
		dialog.ShowForm("New Document", "Create", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Directory", dirEntry),
			widget.NewFormItem("Name", nameEntry),
		}, func(ok bool) {
			if !ok {
				return
			}
			dir := strings.TrimSpace(dirEntry.Text)
			name := strings.TrimSpace(nameEntry.Text)
			if dir == "" {
				dialog.ShowError(fmt.Errorf("directory is required"), w)
				return
			}
			if name == "" {
				name = filepath.Base(dir)
			}
			if _, err := storage.InitDocument(dir, storage.NewDocument(name)); err != nil {
				dialog.ShowError(err, w)
				return
			}
			openDocument(dir)
		}, w)
	}

	showDashboard = func() {
		title := canvas.NewText("Go Shape Studio", color.NRGBA{R: 30, G: 110, B: 230, A: 255})
		title.TextSize = 28
		title.TextStyle = fyne.TextStyle{Bold: true}
		subtitle := widget.NewLabel("Version " + version.String())
		recent := loadRecentDocuments(prefs)
		recentList := widget.NewList(
			func() int { return len(recent) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) {
				if i >= 0 && int(i) < len(recent) {
					o.(*widget.Label).SetText(recent[i])
				}
			},
		)
		recentList.OnSelected = func(id widget.ListItemID) {
			if int(id) >= 0 && int(id) < len(recent) {
				openDocument(recent[id])
			}
		}
		buttons := container.NewHBox(
			widget.NewButton("New Document…", newDocumentDialog),
			widget.NewButton("Open Document…", func() {
				fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
					if err != nil {
						dialog.ShowError(err, w)
						return
					}
					if uri == nil {
						return
					}
					openDocument(uri.Path())
				}, w)
				fd.Show()
			}),
		)
		head := container.NewVBox(title, subtitle, buttons, widget.NewSeparator(), widget.NewLabel("Recent Documents"))
		w.SetContent(container.NewBorder(head, nil, nil, nil, recentList))
	}

	openDocument = func(dir string) {
		abs, _ := filepath.Abs(dir)
		handle, err := storage.Open(abs)
		if err != nil {
			l.Error("open document failed", slog.String("dir", abs), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		dh = handle
		style, serr := stylepack.LoadStyle(abs)
		if serr != nil {
			l.Warn("editor style fell back to defaults", slog.Any("err", serr))
		}
		mem := storage.NewMemoryStore(abs)
		st, lerr := editor.LoadState(mem, editorStateID)
		if lerr != nil {
			l.Warn("editor state not restored", slog.Any("err", lerr))
			st = editor.NewState()
		}
		sc.Attach(dh, st, style, mem)
		addRecentDocument(prefs, abs)
		w.SetTitle("Go Shape Studio — " + dh.Doc.Name)
		status.SetText("Opened " + abs)
		l.Info("document opened", slog.String("dir", abs), slog.String("name", dh.Doc.Name))
		telemetry.Event("document_opened", map[string]any{"shapes": shape.CountShapes(dh.Doc.Root.Root)})
		refreshShapesList()
		refreshSnapshots()
		refreshHistory()
		showMain()
	}

	saveDocument := func() error {
		if dh == nil {
			return fmt.Errorf("no document open")
		}
		sc.PersistState()
		if err := storage.Save(dh); err != nil {
			return err
		}
		status.SetText("Saved " + dh.Doc.Name)
		telemetry.Event("document_saved", nil)
		return nil
	}

	closeDocument := func() {
		if dh == nil {
			return
		}
		if err := saveDocument(); err != nil {
			l.Error("save on close failed", slog.Any("err", err))
		}
		sc.Detach()
		dh = nil
		w.SetTitle("Go Shape Studio")
		refreshShapesList()
		refreshSnapshots()
		showDashboard()
	}

	// File menu
	newItem := fyne.NewMenuItem("New…", func() { newDocumentDialog() })
	openItem := fyne.NewMenuItem("Open…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uri == nil {
				return
			}
			openDocument(uri.Path())
		}, w)
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save", func() {
		if err := saveDocument(); err != nil {
			dialog.ShowError(err, w)
		}
	})
	closeDocItem := fyne.NewMenuItem("Close Document", func() { closeDocument() })
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	closeDocItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}

	importStylePackItem := fyne.NewMenuItem("Import Style Pack…", func() {
		if dh == nil {
			dialog.ShowInformation("Import Style Pack", "No document open.", w)
			return
		}
		fo := dialog.NewFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			packPath := uc.URI().Path()
			_ = uc.Close()
			n, err := stylepack.InstallPack(dh.Root, packPath)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			// Reload the editor style so an installed editor.yaml shows up.
			style, _ := stylepack.LoadStyle(dh.Root)
			sc.SetStyle(style)
			dialog.ShowInformation("Import Style Pack", fmt.Sprintf("Installed %d file(s).", n), w)
		}, w)
		fo.SetFilter(fstorage.NewExtensionFileFilter([]string{".zip"}))
		fo.Show()
	})
	exportStylePackItem := fyne.NewMenuItem("Export Styles as Pack…", func() {
		if dh == nil {
			dialog.ShowInformation("Export Style Pack", "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if err := stylepack.ExportDocumentStyles(dh.Root, outPath); err != nil {
				dialog.ShowError(err, w)
			} else {
				dialog.ShowInformation("Export Style Pack", "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName("styles.zip")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".zip"}))
		save.Show()
	})
	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem, fyne.NewMenuItemSeparator(), importStylePackItem, exportStylePackItem, fyne.NewMenuItemSeparator(), closeDocItem)

	// Edit menu
	undoItem := fyne.NewMenuItem("Undo", func() {
		if !sc.Undo() {
			status.SetText("Nothing to undo")
		}
	})
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	deleteItem := fyne.NewMenuItem("Delete Selected Points", func() { sc.DeleteSelected() })
	editMenu := fyne.NewMenu("Edit", undoItem, deleteItem)

	// Insert menu: two-click creation gestures, paths collect four points.
	requireDoc := func(fn func()) func() {
		return func() {
			if dh == nil {
				dialog.ShowInformation("Insert", "No document open.", w)
				return
			}
			fn()
		}
	}
	insertLineItem := fyne.NewMenuItem("Line Segment", requireDoc(func() {
		if sc.BeginCreation(2, editor.BuildLineSegment) {
			status.SetText("Click start and end point")
		}
	}))
	insertPathItem := fyne.NewMenuItem("Path", requireDoc(func() {
		if sc.BeginCreation(4, editor.BuildPath) {
			status.SetText("Click four path points")
		}
	}))
	insertRectItem := fyne.NewMenuItem("Rectangle", requireDoc(func() {
		if sc.BeginCreation(2, editor.BuildRect) {
			status.SetText("Click two corners")
		}
	}))
	insertCircleItem := fyne.NewMenuItem("Circle", requireDoc(func() {
		if sc.BeginCreation(2, editor.BuildCircle) {
			status.SetText("Click center, then a rim point")
		}
	}))
	insertQuadItem := fyne.NewMenuItem("Quadratic Bezier", requireDoc(func() {
		sc.DropShape(shape.KindQuadraticBezier)
		status.SetText("Quadratic bezier dropped; drag to place")
	}))
	insertCubicItem := fyne.NewMenuItem("Cubic Bezier", requireDoc(func() {
		sc.DropShape(shape.KindCubicBezier)
		status.SetText("Cubic bezier dropped; drag to place")
	}))
	insertMenu := fyne.NewMenu("Insert", insertLineItem, insertPathItem, insertRectItem, insertCircleItem, fyne.NewMenuItemSeparator(), insertQuadItem, insertCubicItem)

	// Export menu
	exportSVGItem := fyne.NewMenuItem("Export as SVG…", func() {
		if dh == nil {
			dialog.ShowInformation("Export SVG", "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			err = export.ExportDocumentSVG(dh, outPath, export.SVGOptions{IncludeGrid: true, IncludeHandles: true})
			if err != nil {
				dialog.ShowError(err, w)
			} else {
				telemetry.Event("export", map[string]any{"format": "svg"})
				dialog.ShowInformation("Export SVG", "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName(dh.Doc.Name + ".svg")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".svg"}))
		save.Show()
	})
	exportPDFItem := fyne.NewMenuItem("Export as PDF…", func() {
		if dh == nil {
			dialog.ShowInformation("Export PDF", "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			err = export.ExportDocumentPDF(dh, outPath, export.PDFOptions{IncludeGrid: true})
			if err != nil {
				dialog.ShowError(err, w)
			} else {
				telemetry.Event("export", map[string]any{"format": "pdf"})
				dialog.ShowInformation("Export PDF", "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName(dh.Doc.Name + ".pdf")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf"}))
		save.Show()
	})
	exportPNGItem := fyne.NewMenuItem("Export as PNG…", func() {
		if dh == nil {
			dialog.ShowInformation("Export PNG", "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			err = export.ExportDocumentPNG(dh, outPath, export.PNGOptions{})
			if err != nil {
				dialog.ShowError(err, w)
			} else {
				telemetry.Event("export", map[string]any{"format": "png"})
				dialog.ShowInformation("Export PNG", "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName(dh.Doc.Name + ".png")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png"}))
		save.Show()
	})
	exportBundleItem := fyne.NewMenuItem("Export as Bundle…", func() {
		if dh == nil {
			dialog.ShowInformation("Export Bundle", "No document open.", w)
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			err = export.ExportBundle(dh, outPath, export.BundleOptions{})
			if err != nil {
				dialog.ShowError(err, w)
			} else {
				telemetry.Event("export", map[string]any{"format": "bundle"})
				dialog.ShowInformation("Export Bundle", "Exported to "+outPath, w)
			}
		}, w)
		save.SetFileName(dh.Doc.Name + ".zip")
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".zip"}))
		save.Show()
	})
	exportMenu := fyne.NewMenu("Export", exportSVGItem, exportPDFItem, exportPNGItem, exportBundleItem)

	aboutItem := fyne.NewMenuItem("About Go Shape Studio", func() {
		exe, _ := os.Executable()
		cwd, _ := os.Getwd()
		info := fmt.Sprintf("Go Shape Studio\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorking Dir: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cwd)
		dialog.ShowInformation("Installation Environment", info, w)
	})
	copyrightItem := fyne.NewMenuItem("Copyright…", func() {
		currentYear := time.Now().Year()
		msg := fmt.Sprintf("Go Shape Studio\nCopyright © 2023-%d The Go Shape Studio Authors\n\nLicensed under the Apache License, Version 2.0.\nSee the LICENSE file for details.", currentYear)
		dialog.ShowInformation("Copyright", msg, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem, copyrightItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, insertMenu, exportMenu, aboutMenu))

	// Modifier tracking and editor key chords. Fyne tap/drag events carry
	// no modifier state, so we mirror it from key down/up.
	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(e *fyne.KeyEvent) {
			if updateModifier(sc, e.Name, true) {
				return
			}
			switch e.Name {
			case fyne.KeyDelete, fyne.KeyBackspace:
				sc.QueueKey(editor.KeyChord{Key: "delete"})
			}
		})
		dc.SetOnKeyUp(func(e *fyne.KeyEvent) {
			updateModifier(sc, e.Name, false)
		})
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyI, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		sc.QueueKey(editor.KeyChord{Key: "i", Ctrl: true})
	})

	// Persist preferences and editor memory on close
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		prefs.SetBool("canvas.grid", sc.showGrid)
		if dh != nil {
			sc.PersistState()
			if err := storage.Save(dh); err != nil {
				l.Error("save on exit failed", slog.Any("err", err))
			}
		}
		w.Close()
	})

	if docDir != "" {
		openDocument(docDir)
	}
	if dh == nil {
		showDashboard()
	}

	w.ShowAndRun()
	return nil
}

// updateModifier applies a modifier key transition and reports whether
// the key was a modifier.
func updateModifier(sc *ShapeCanvas, name fyne.KeyName, down bool) bool {
	m := sc.Modifiers()
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		m.Shift = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		m.Ctrl = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		m.Alt = down
	default:
		return false
	}
	sc.SetModifiers(m)
	return true
}

// ShapeCanvas hosts the editor inside a Fyne widget. It accumulates the
// pointer and key edges Fyne reports into one editor.Input per event and
// paints the frame the editor returns.
type ShapeCanvas struct {
	widget.BaseWidget

	ed    *editor.Editor
	state *editor.State
	root  *shape.Shape
	store editor.Store
	style stylepack.EditorStyle
	opts  *editor.Options

	frame    editor.Frame
	pending  editor.Input
	hover    *geom.Vec2
	mods     editor.Modifiers
	dragging bool

	showGrid bool
	// OnEdited runs after every editor step so the shell can refresh its
	// side panes.
	OnEdited func()
}

func NewShapeCanvas() *ShapeCanvas {
	sc := &ShapeCanvas{
		style:    stylepack.DefaultStyle(),
		opts:     editor.DefaultOptions(),
		showGrid: true,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

// editorOptions maps the user config onto the editor defaults. Zero
// config values keep the defaults.
func editorOptions(cfg config.EditorConfig) *editor.Options {
	opts := editor.DefaultOptions()
	if cfg.SnapDistance > 0 {
		opts.SnapDistance = float32(cfg.SnapDistance)
	}
	opts.SnapByDefault = cfg.SnapEnabled
	if cfg.MinScale > 0 {
		opts.MinScale = float32(cfg.MinScale)
	}
	if cfg.MaxScale > 0 {
		opts.MaxScale = float32(cfg.MaxScale)
	}
	if cfg.MaxHistoryDepth > 0 {
		opts.HistoryDepth = cfg.MaxHistoryDepth
	}
	return opts
}

// Attach points the canvas at an open document. The editor mutates the
// document's shape tree in place, so saving the handle saves the edits.
func (sc *ShapeCanvas) Attach(dh *storage.DocumentHandle, st *editor.State, style stylepack.EditorStyle, store editor.Store) {
	sc.root = &dh.Doc.Root.Root
	sc.state = st
	sc.store = store
	sc.style = style
	sc.ed = editor.New(sc.root, st, sc.opts)
	sc.frame = editor.Frame{}
	sc.step()
}

// Detach disconnects the canvas from the document.
func (sc *ShapeCanvas) Detach() {
	sc.PersistState()
	sc.ed = nil
	sc.state = nil
	sc.root = nil
	sc.store = nil
	sc.frame = editor.Frame{}
	sc.Refresh()
}

// DocumentReplaced rebuilds the editor after the document struct was
// swapped underneath the canvas (snapshot restore).
func (sc *ShapeCanvas) DocumentReplaced() {
	if sc.root == nil {
		return
	}
	st := editor.NewState()
	if sc.state != nil {
		st.Transform = sc.state.Transform
	}
	sc.state = st
	sc.ed = editor.New(sc.root, st, sc.opts)
	sc.step()
}

// SetStyle swaps the editor chrome style and repaints.
func (sc *ShapeCanvas) SetStyle(style stylepack.EditorStyle) {
	sc.style = style
	sc.Refresh()
}

// PersistState saves the editor memory (view transform, selection,
// constraints) into the document's index database.
func (sc *ShapeCanvas) PersistState() {
	if sc.store == nil || sc.state == nil {
		return
	}
	if err := editor.SaveState(sc.store, editorStateID, sc.state); err != nil {
		applog.WithComponent("ui").Error("persist editor state failed", slog.Any("err", err))
	}
}

func (sc *ShapeCanvas) Modifiers() editor.Modifiers     { return sc.mods }
func (sc *ShapeCanvas) SetModifiers(m editor.Modifiers) { sc.mods = m }

// QueueKey feeds one key chord into the next editor step.
func (sc *ShapeCanvas) QueueKey(k editor.KeyChord) {
	sc.pending.Keys = append(sc.pending.Keys, k)
	sc.step()
}

// Undo reverts the newest history entry.
func (sc *ShapeCanvas) Undo() bool {
	if sc.ed == nil {
		return false
	}
	ok := sc.ed.Undo()
	sc.step()
	return ok
}

// DeleteSelected removes the selected control points.
func (sc *ShapeCanvas) DeleteSelected() {
	if sc.ed == nil {
		return
	}
	sc.ed.DeleteSelected()
	sc.step()
}

// BeginCreation starts an n-click creation gesture on the canvas.
func (sc *ShapeCanvas) BeginCreation(count int, build editor.BuildShape) bool {
	if sc.ed == nil {
		return false
	}
	ok := sc.ed.BeginCreation(count, build)
	sc.step()
	return ok
}

// DropShape inserts a collapsed shape at the view center and leaves its
// last point grabbed for placement.
func (sc *ShapeCanvas) DropShape(kind shape.Kind) bool {
	if sc.ed == nil {
		return false
	}
	size := sc.Size()
	center := sc.state.Transform.Unapply(geom.V(size.Width/2, size.Height/2))
	ok := sc.ed.DropShapeAt(kind, center)
	sc.step()
	return ok
}

func (sc *ShapeCanvas) LastActionName() (string, bool) {
	if sc.ed == nil {
		return "", false
	}
	return sc.ed.LastActionName()
}

func (sc *ShapeCanvas) HistoryLen() int {
	if sc.state == nil {
		return 0
	}
	return sc.state.History.Len()
}

// step runs one editor frame over the accumulated input and repaints.
func (sc *ShapeCanvas) step() {
	if sc.ed == nil {
		sc.Refresh()
		return
	}
	in := sc.pending
	sc.pending = editor.Input{}
	if sc.hover != nil {
		h := *sc.hover
		in.Hover = &h
	}
	in.Mods = sc.mods
	size := sc.Size()
	viewRect := geom.Rect{Max: geom.V(size.Width, size.Height)}
	sc.frame = sc.ed.Update(viewRect, in)
	if sc.OnEdited != nil {
		sc.OnEdited()
	}
	sc.Refresh()
}

func (sc *ShapeCanvas) setHover(pos fyne.Position) {
	p := geom.V(pos.X, pos.Y)
	sc.hover = &p
}

// MouseIn, MouseMoved and MouseOut track the hover position.
func (sc *ShapeCanvas) MouseIn(e *desktop.MouseEvent) {
	sc.setHover(e.Position)
	sc.step()
}

func (sc *ShapeCanvas) MouseMoved(e *desktop.MouseEvent) {
	sc.setHover(e.Position)
	sc.step()
}

func (sc *ShapeCanvas) MouseOut() {
	sc.hover = nil
	sc.step()
}

// Tapped is a primary press and release without a drag in between.
func (sc *ShapeCanvas) Tapped(e *fyne.PointEvent) {
	sc.setHover(e.Position)
	sc.pending.PrimaryPressed = true
	sc.pending.PrimaryClicked = true
	sc.step()
}

func (sc *ShapeCanvas) TappedSecondary(e *fyne.PointEvent) {
	sc.setHover(e.Position)
	sc.pending.SecondaryPressed = true
	sc.step()
}

// Dragged moves the active gesture; the first event of a drag carries
// the press and drag start edges.
func (sc *ShapeCanvas) Dragged(e *fyne.DragEvent) {
	sc.setHover(e.Position)
	if !sc.dragging {
		sc.dragging = true
		sc.pending.PrimaryPressed = true
		sc.pending.DragStarted = true
	}
	sc.step()
}

func (sc *ShapeCanvas) DragEnd() {
	sc.dragging = false
	sc.pending.DragReleased = true
	sc.step()
}

// Scrolled pans the view, or zooms around the pointer while ctrl is
// held.
func (sc *ShapeCanvas) Scrolled(e *fyne.ScrollEvent) {
	if sc.mods.Ctrl {
		sc.pending.ZoomDelta = float32(math.Exp(float64(e.Scrolled.DY) * 0.02))
	} else {
		sc.pending.ScrollDelta = geom.V(e.Scrolled.DX, e.Scrolled.DY)
	}
	sc.step()
}

func (sc *ShapeCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func (sc *ShapeCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	return &shapeCanvasRenderer{sc: sc, bg: bg, objects: []fyne.CanvasObject{bg}}
}

// shapeCanvasRenderer repaints the editor frame with pooled canvas
// primitives. Pools are acquired in draw order each layout; surplus
// objects from previous frames are hidden.
type shapeCanvasRenderer struct {
	sc      *ShapeCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject

	lines   []*canvas.Line
	circles []*canvas.Circle
	rects   []*canvas.Rectangle
	texts   []*canvas.Text

	usedLines, usedCircles, usedRects, usedTexts int
}

func (r *shapeCanvasRenderer) Destroy()                     {}
func (r *shapeCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *shapeCanvasRenderer) MinSize() fyne.Size           { return r.sc.PreferredSize() }
func (r *shapeCanvasRenderer) Refresh() {
	r.Layout(r.sc.Size())
	canvas.Refresh(r.sc)
}

func (r *shapeCanvasRenderer) line() *canvas.Line {
	if r.usedLines < len(r.lines) {
		ln := r.lines[r.usedLines]
		r.usedLines++
		ln.Show()
		r.objects = append(r.objects, ln)
		return ln
	}
	ln := canvas.NewLine(color.Black)
	r.lines = append(r.lines, ln)
	r.usedLines++
	r.objects = append(r.objects, ln)
	return ln
}

func (r *shapeCanvasRenderer) circle() *canvas.Circle {
	if r.usedCircles < len(r.circles) {
		c := r.circles[r.usedCircles]
		r.usedCircles++
		c.Show()
		r.objects = append(r.objects, c)
		return c
	}
	c := canvas.NewCircle(color.Transparent)
	r.circles = append(r.circles, c)
	r.usedCircles++
	r.objects = append(r.objects, c)
	return c
}

func (r *shapeCanvasRenderer) rect() *canvas.Rectangle {
	if r.usedRects < len(r.rects) {
		rc := r.rects[r.usedRects]
		r.usedRects++
		rc.Show()
		r.objects = append(r.objects, rc)
		return rc
	}
	rc := canvas.NewRectangle(color.Transparent)
	r.rects = append(r.rects, rc)
	r.usedRects++
	r.objects = append(r.objects, rc)
	return rc
}

func (r *shapeCanvasRenderer) text() *canvas.Text {
	if r.usedTexts < len(r.texts) {
		t := r.texts[r.usedTexts]
		r.usedTexts++
		t.Show()
		r.objects = append(r.objects, t)
		return t
	}
	t := canvas.NewText("", color.Black)
	r.texts = append(r.texts, t)
	r.usedTexts++
	r.objects = append(r.objects, t)
	return t
}

func (r *shapeCanvasRenderer) Layout(size fyne.Size) {
	r.usedLines, r.usedCircles, r.usedRects, r.usedTexts = 0, 0, 0, 0
	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	sc := r.sc
	if sc.state != nil {
		if sc.showGrid {
			r.drawGrid(size)
		}
		if sc.root != nil {
			shape.EachShape(*sc.root, func(_ int, s shape.Shape) bool {
				r.drawShape(s, false)
				return false
			})
		}
		r.drawFrame(size)
	}

	for i := r.usedLines; i < len(r.lines); i++ {
		r.lines[i].Hide()
	}
	for i := r.usedCircles; i < len(r.circles); i++ {
		r.circles[i].Hide()
	}
	for i := r.usedRects; i < len(r.rects); i++ {
		r.rects[i].Hide()
	}
	for i := r.usedTexts; i < len(r.texts); i++ {
		r.texts[i].Hide()
	}
}

// view maps a content position to a widget position.
func (r *shapeCanvasRenderer) view(p geom.Vec2) fyne.Position {
	v := r.sc.state.Transform.Apply(p)
	return fyne.NewPos(v.X, v.Y)
}

func (r *shapeCanvasRenderer) gridColor(kinds []snap.LineKind) color.Color {
	st := r.sc.style.Grid
	best := snap.LineSub
	for _, k := range kinds {
		if k < best {
			best = k
		}
	}
	switch best {
	case snap.LineZero:
		return toNRGBA(st.Axis)
	case snap.LinePrimary:
		return toNRGBA(st.Major)
	default:
		return toNRGBA(st.Minor)
	}
}

func (r *shapeCanvasRenderer) drawGrid(size fyne.Size) {
	sc := r.sc
	grid := sc.frame.Grid
	if grid == nil {
		return
	}
	viewRect := geom.Rect{Max: geom.V(size.Width, size.Height)}
	content := sc.state.Transform.UnapplyRect(viewRect).Normalized()
	grid.VisitX(content.Min.X, content.Max.X, func(x float32, kinds []snap.LineKind) bool {
		vx := sc.state.Transform.Apply(geom.V(x, 0)).X
		ln := r.line()
		ln.StrokeColor = r.gridColor(kinds)
		ln.StrokeWidth = 1
		ln.Position1 = fyne.NewPos(vx, 0)
		ln.Position2 = fyne.NewPos(vx, size.Height)
		return false
	})
	grid.VisitY(content.Min.Y, content.Max.Y, func(y float32, kinds []snap.LineKind) bool {
		vy := sc.state.Transform.Apply(geom.V(0, y)).Y
		ln := r.line()
		ln.StrokeColor = r.gridColor(kinds)
		ln.StrokeWidth = 1
		ln.Position1 = fyne.NewPos(0, vy)
		ln.Position2 = fyne.NewPos(size.Width, vy)
		return false
	})
}

func (r *shapeCanvasRenderer) polyline(pts []geom.Vec2, st shape.Stroke, closed, preview bool) {
	if len(pts) < 2 {
		return
	}
	col := toNRGBA(st.Color)
	if preview {
		col = previewColor(st.Color)
	}
	width := st.Width
	if width <= 0 {
		width = 1
	}
	for i := 1; i < len(pts); i++ {
		ln := r.line()
		ln.StrokeColor = col
		ln.StrokeWidth = width
		ln.Position1 = r.view(pts[i-1])
		ln.Position2 = r.view(pts[i])
	}
	if closed && len(pts) > 2 {
		ln := r.line()
		ln.StrokeColor = col
		ln.StrokeWidth = width
		ln.Position1 = r.view(pts[len(pts)-1])
		ln.Position2 = r.view(pts[0])
	}
}

// drawShape paints one leaf shape in view space. Beziers are flattened
// to short polylines; meshes show their triangle edges.
func (r *shapeCanvasRenderer) drawShape(s shape.Shape, preview bool) {
	sc := r.sc
	switch s := s.(type) {
	case *shape.LineSegment:
		r.polyline(s.Points[:], s.Stroke, false, preview)
	case *shape.Path:
		r.polyline(s.Points, s.Stroke, s.Closed, preview)
	case *shape.Circle:
		c := r.circle()
		c.FillColor = toNRGBA(s.Fill)
		c.StrokeColor = toNRGBA(s.Stroke.Color)
		if preview {
			c.StrokeColor = previewColor(s.Stroke.Color)
			c.FillColor = color.Transparent
		}
		c.StrokeWidth = maxf(s.Stroke.Width, 1)
		c.Position1 = r.view(geom.V(s.Center.X-s.Radius, s.Center.Y-s.Radius))
		c.Position2 = r.view(geom.V(s.Center.X+s.Radius, s.Center.Y+s.Radius))
	case *shape.Ellipse:
		c := r.circle()
		c.FillColor = toNRGBA(s.Fill)
		c.StrokeColor = toNRGBA(s.Stroke.Color)
		c.StrokeWidth = maxf(s.Stroke.Width, 1)
		c.Position1 = r.view(geom.V(s.Center.X-s.RadiusX, s.Center.Y-s.RadiusY))
		c.Position2 = r.view(geom.V(s.Center.X+s.RadiusX, s.Center.Y+s.RadiusY))
	case *shape.Rect:
		rc := r.rect()
		rc.FillColor = toNRGBA(s.Fill)
		rc.StrokeColor = toNRGBA(s.Stroke.Color)
		if preview {
			rc.StrokeColor = previewColor(s.Stroke.Color)
			rc.FillColor = color.Transparent
		}
		rc.StrokeWidth = maxf(s.Stroke.Width, 1)
		p0 := r.view(s.Min)
		p1 := r.view(s.Max)
		rc.Move(p0)
		rc.Resize(fyne.NewSize(p1.X-p0.X, p1.Y-p0.Y))
	case *shape.Text:
		t := r.text()
		t.Text = s.Text
		t.Color = toNRGBA(s.Color)
		t.TextSize = s.Size * sc.state.Transform.Scale
		t.Move(r.view(s.Pos))
		t.Refresh()
	case *shape.QuadraticBezier:
		pts := flattenQuadratic(s.Points[0], s.Points[1], s.Points[2])
		r.polyline(pts, s.Stroke, s.Closed, preview)
	case *shape.CubicBezier:
		pts := flattenCubic(s.Points[0], s.Points[1], s.Points[2], s.Points[3])
		r.polyline(pts, s.Stroke, s.Closed, preview)
	case *shape.Mesh:
		edge := shape.Stroke{Width: 1, Color: shape.Color{R: 120, G: 120, B: 120, A: 255}}
		for i := 0; i+2 < len(s.Indices); i += 3 {
			a, b, c := s.Indices[i], s.Indices[i+1], s.Indices[i+2]
			if int(a) >= len(s.Vertices) || int(b) >= len(s.Vertices) || int(c) >= len(s.Vertices) {
				continue
			}
			tri := []geom.Vec2{s.Vertices[a].Pos, s.Vertices[b].Pos, s.Vertices[c].Pos}
			r.polyline(tri, edge, true, preview)
		}
	}
}

func (r *shapeCanvasRenderer) drawFrame(size fyne.Size) {
	sc := r.sc
	frame := sc.frame
	style := sc.style

	// Unfinished creation preview
	if frame.PreviewShape != nil {
		r.drawShape(frame.PreviewShape, true)
	}
	for _, p := range frame.PreviewPoints {
		c := r.circle()
		c.FillColor = color.Transparent
		c.StrokeColor = toNRGBA(style.Handles.Outline)
		c.StrokeWidth = 1
		v := r.view(p)
		rad := style.Handles.Radius
		c.Position1 = fyne.NewPos(v.X-rad, v.Y-rad)
		c.Position2 = fyne.NewPos(v.X+rad, v.Y+rad)
	}

	// Rubber band (already in view space)
	if frame.SelectionRect != nil {
		band := frame.SelectionRect.Normalized()
		rc := r.rect()
		oc := style.Handles.Outline
		rc.FillColor = color.NRGBA{R: oc.R, G: oc.G, B: oc.B, A: 40}
		rc.StrokeColor = toNRGBA(oc)
		rc.StrokeWidth = 1
		rc.Move(fyne.NewPos(band.Min.X, band.Min.Y))
		rc.Resize(fyne.NewSize(band.Width(), band.Height()))
	}

	// Handle stems below handles
	for _, pv := range frame.Points {
		for _, conn := range pv.Connected {
			ln := r.line()
			ln.StrokeColor = toNRGBA(style.Handles.Outline)
			ln.StrokeWidth = 1
			ln.Position1 = fyne.NewPos(pv.Pos.X, pv.Pos.Y)
			ln.Position2 = fyne.NewPos(conn.X, conn.Y)
		}
	}
	for _, pv := range frame.Points {
		c := r.circle()
		rad := style.Handles.Radius
		if pv.Secondary {
			rad *= 0.75
		}
		if pv.Hovered {
			rad += 1
		}
		fill := style.Handles.Fill
		if pv.Selected {
			fill = style.Handles.Selected
		}
		c.FillColor = toNRGBA(fill)
		c.StrokeColor = toNRGBA(style.Handles.Outline)
		c.StrokeWidth = 1
		c.Position1 = fyne.NewPos(pv.Pos.X-rad, pv.Pos.Y-rad)
		c.Position2 = fyne.NewPos(pv.Pos.X+rad, pv.Pos.Y+rad)
	}

	// Snap resolution: target markers plus the resolved point.
	for _, tgt := range frame.SnapTargets {
		switch tgt.Kind {
		case snap.TargetPoint:
			c := r.circle()
			c.FillColor = color.Transparent
			c.StrokeColor = toNRGBA(style.Snap.Highlight)
			c.StrokeWidth = 1
			v := r.view(tgt.Pos)
			rad := style.Snap.HighlightRadius
			c.Position1 = fyne.NewPos(v.X-rad, v.Y-rad)
			c.Position2 = fyne.NewPos(v.X+rad, v.Y+rad)
		case snap.TargetGridX:
			vx := sc.state.Transform.Apply(geom.V(tgt.Line, 0)).X
			ln := r.line()
			ln.StrokeColor = toNRGBA(style.Snap.Highlight)
			ln.StrokeWidth = 1
			ln.Position1 = fyne.NewPos(vx, 0)
			ln.Position2 = fyne.NewPos(vx, size.Height)
		case snap.TargetGridY:
			vy := sc.state.Transform.Apply(geom.V(0, tgt.Line)).Y
			ln := r.line()
			ln.StrokeColor = toNRGBA(style.Snap.Highlight)
			ln.StrokeWidth = 1
			ln.Position1 = fyne.NewPos(0, vy)
			ln.Position2 = fyne.NewPos(size.Width, vy)
		}
	}
	if frame.SnapPoint != nil {
		c := r.circle()
		c.FillColor = toNRGBA(style.Snap.Highlight)
		c.StrokeColor = toNRGBA(style.Snap.Highlight)
		c.StrokeWidth = 1
		v := r.view(*frame.SnapPoint)
		c.Position1 = fyne.NewPos(v.X-2, v.Y-2)
		c.Position2 = fyne.NewPos(v.X+2, v.Y+2)
	}
}

const bezierFlattenSteps = 16

func flattenQuadratic(p0, p1, p2 geom.Vec2) []geom.Vec2 {
	pts := make([]geom.Vec2, 0, bezierFlattenSteps+1)
	for i := 0; i <= bezierFlattenSteps; i++ {
		t := float32(i) / bezierFlattenSteps
		a := p0.Lerp(p1, t)
		b := p1.Lerp(p2, t)
		pts = append(pts, a.Lerp(b, t))
	}
	return pts
}

func flattenCubic(p0, p1, p2, p3 geom.Vec2) []geom.Vec2 {
	pts := make([]geom.Vec2, 0, bezierFlattenSteps+1)
	for i := 0; i <= bezierFlattenSteps; i++ {
		t := float32(i) / bezierFlattenSteps
		a := p0.Lerp(p1, t)
		b := p1.Lerp(p2, t)
		c := p2.Lerp(p3, t)
		ab := a.Lerp(b, t)
		bc := b.Lerp(c, t)
		pts = append(pts, ab.Lerp(bc, t))
	}
	return pts
}

func toNRGBA(c shape.Color) color.Color {
	if c.A == 0 {
		return color.Transparent
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// previewColor renders an unfinished creation half transparent.
func previewColor(c shape.Color) color.Color {
	if c.A == 0 {
		c = shape.Black
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 128}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Recent document persistence helpers for the dashboard
const recentPrefsKey = "recent.documents"
const recentMax = 10

func loadRecentDocuments(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	if items == nil {
		items = []string{}
	}
	// Filter out non-existing paths
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentDocuments(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentDocument(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentDocuments(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		// de-dup (case-insensitive on Windows)
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentDocuments(p, out)
}
