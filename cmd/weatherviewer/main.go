package main

import (
	"flag"
	"fmt"
	"image/color"
	png "image/png"
	"os"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/WeatherEDA/cmd/weatherviewer/uihelpers"
	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/charts"
	"github.com/iafilius/WeatherEDA/src/config"
	"github.com/iafilius/WeatherEDA/src/eda"
	"github.com/iafilius/WeatherEDA/src/logging"
	"github.com/iafilius/WeatherEDA/src/table"
)

const maxRecentFiles = 10

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

type uiState struct {
	app    fyne.App
	window fyne.Window

	filePath string
	opts     eda.Options
	tbl      *table.Table
	figures  []charts.Figure
	grouped  analysis.GroupedResult
	// restorePrefs is false when the grouping was given on the command line.
	restorePrefs bool

	tabs       *container.AppTabs
	fileLabel  *widget.Label
	groupSel   *widget.Select
	valueSel   *widget.Select
	aggSel     *widget.Select
	statusText *widget.Label
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[config] %v\n", err)
		os.Exit(1)
	}
	var fileFlag, screenshotsDir, logLevel, schemaFile string
	var dark bool
	flag.StringVar(&fileFlag, "file", "", "Path to the weather CSV file")
	flag.StringVar(&screenshotsDir, "screenshots", "", "Render all figures as PNGs into this directory and exit (no window)")
	flag.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	flag.StringVar(&schemaFile, "schema", cfg.SchemaFile, "Optional YAML file overriding the column schema")
	flag.StringVar(&cfg.GroupBy, "group-by", cfg.GroupBy, "Column to group by")
	flag.StringVar(&cfg.Aggregate, "agg", cfg.Aggregate, "Aggregate (mean|max|min|sum|len)")
	flag.StringVar(&cfg.Value, "value", cfg.Value, "Column to aggregate")
	flag.BoolVar(&dark, "dark", true, "Use the dark theme")
	flag.Parse()
	logging.SetLogLevel(logLevel)
	restore := true
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "group-by", "agg", "value":
			restore = false
		}
	})
	if schemaFile != cfg.SchemaFile {
		s, err := config.LoadSchema(schemaFile)
		if err != nil {
			fmt.Printf("[config] %v\n", err)
			os.Exit(1)
		}
		cfg.Schema = s
	}

	if screenshotsDir != "" {
		path := fileFlag
		if path == "" {
			path = cfg.File
		}
		if err := RunScreenshotsMode(path, screenshotsDir, eda.OptionsFrom(cfg)); err != nil {
			fmt.Printf("[screenshots] %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.weathereda.viewer")
	if dark {
		a.Settings().SetTheme(&darkTheme{})
	}
	w := a.NewWindow("Weather EDA")
	w.Resize(fyne.NewSize(1280, 900))

	state := &uiState{
		app:      a,
		window:   w,
		filePath: fileFlag,
		opts:     eda.OptionsFrom(cfg),

		restorePrefs: restore,
	}
	if state.filePath == "" {
		state.filePath = a.Preferences().StringWithFallback("lastFile", "")
	}
	if state.filePath == "" {
		state.filePath = cfg.File
	}

	state.fileLabel = widget.NewLabel(uihelpers.TruncatePath(state.filePath, 60))
	state.statusText = widget.NewLabel("")
	state.groupSel = widget.NewSelect(nil, nil)
	state.valueSel = widget.NewSelect(nil, nil)
	state.aggSel = widget.NewSelect([]string{"mean", "max", "min", "sum", "len"}, nil)
	state.aggSel.Selected = state.opts.Aggregate

	regroup := func(string) {
		state.opts.GroupBy = state.groupSel.Selected
		state.opts.Value = state.valueSel.Selected
		state.opts.Aggregate = state.aggSel.Selected
		savePrefs(state)
		redrawGrouped(state)
	}
	top := container.NewVBox(
		container.NewHBox(widget.NewLabel("File:"), state.fileLabel),
		container.NewHBox(
			widget.NewLabel("Group by:"), state.groupSel,
			widget.NewLabel("Aggregate:"), state.aggSel,
			widget.NewLabel("Value:"), state.valueSel,
		),
	)
	state.tabs = container.NewAppTabs()
	state.tabs.SetTabLocation(container.TabLocationTop)
	state.tabs.OnSelected = func(*container.TabItem) {
		state.app.Preferences().SetInt("selectedTabIndex", state.tabs.SelectedIndex())
	}
	w.SetContent(container.NewBorder(top, state.statusText, nil, nil, state.tabs))
	buildMenus(state)

	loadAll(state)
	state.groupSel.OnChanged = regroup
	state.valueSel.OnChanged = regroup
	state.aggSel.OnChanged = regroup
	if idx := a.Preferences().IntWithFallback("selectedTabIndex", 0); idx >= 0 && idx < len(state.tabs.Items) {
		state.tabs.Select(state.tabs.Items[idx])
	}

	w.ShowAndRun()
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() { openFile(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() {
		state.app.Preferences().SetString("recentFiles", "")
		buildMenus(state)
	})
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Current Figure…", func() { exportCurrentPNG(state) }),
		fyne.NewMenuItem("Export All Figures…", func() { exportAllPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFileDialog(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { loadAll(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}

func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		openFile(state, rc.URI().Path())
	}, state.window)
	d.Show()
}

func openFile(state *uiState, path string) {
	state.filePath = path
	state.fileLabel.SetText(uihelpers.TruncatePath(path, 60))
	addRecentFile(state, path)
	savePrefs(state)
	buildMenus(state)
	loadAll(state)
}

// loadAll reads the file and renders every figure into the tabs. Figures drawn
// before a failing step are still shown.
func loadAll(state *uiState) {
	if state.filePath == "" {
		return
	}
	if _, err := os.Stat(state.filePath); err != nil {
		state.statusText.SetText(fmt.Sprintf("%s not found; use File > Open", state.filePath))
		return
	}
	tbl, err := eda.Load(state.filePath, state.opts.Schema)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.tbl = tbl
	loadPrefs(state)
	fillColumnSelects(state)

	var sink charts.MemorySink
	res, err := eda.Run(&sink, tbl, state.opts)
	state.figures = sink.Figures
	state.grouped = res.Grouped
	rebuildTabs(state)
	if err != nil {
		dialog.ShowError(err, state.window)
		state.statusText.SetText(fmt.Sprintf("%d rows, %d figures, stopped: %v", tbl.Len(), res.Figures, err))
		return
	}
	state.statusText.SetText(fmt.Sprintf("%d rows, %d figures", tbl.Len(), res.Figures))
}

// redrawGrouped recomputes only the grouped aggregate and replaces its tab.
func redrawGrouped(state *uiState) {
	if state.tbl == nil {
		return
	}
	res, err := analysis.GroupValues(state.tbl, state.opts.GroupBy, state.opts.Aggregate, state.opts.Value)
	if err != nil {
		state.statusText.SetText(err.Error())
		return
	}
	var sink charts.MemorySink
	if err := charts.GroupedBar(&sink, res); err != nil {
		state.statusText.SetText(err.Error())
		return
	}
	kept := state.figures[:0]
	for _, f := range state.figures {
		if !strings.HasPrefix(f.Name, "group_") {
			kept = append(kept, f)
		}
	}
	state.figures = append(kept, sink.Figures...)
	state.grouped = res
	sel := state.tabs.SelectedIndex()
	rebuildTabs(state)
	if sel >= 0 && sel < len(state.tabs.Items) {
		state.tabs.Select(state.tabs.Items[sel])
	}
	state.statusText.SetText(fmt.Sprintf("%s %s by %s: %d groups", res.Aggregate, res.ValueColumn, res.GroupColumn, len(res.Rows)))
}

func rebuildTabs(state *uiState) {
	items := make([]*container.TabItem, 0, len(state.figures)+1)
	view := state.window.Canvas().Size()
	for _, f := range state.figures {
		img := canvas.NewImageFromImage(f.Image)
		img.FillMode = canvas.ImageFillContain
		b := f.Image.Bounds()
		w, h := uihelpers.FitFigure(b.Dx(), b.Dy(), view.Width, view.Height)
		img.SetMinSize(fyne.NewSize(w, h))
		scroll := container.NewScroll(img)
		items = append(items, container.NewTabItem(uihelpers.TabTitle(f.Name), scroll))
	}
	if len(state.grouped.Rows) > 0 {
		tbl := widget.NewLabel(state.grouped.String())
		tbl.TextStyle = fyne.TextStyle{Monospace: true}
		items = append(items, container.NewTabItem("Table", container.NewVScroll(tbl)))
	}
	state.tabs.SetItems(items)
}

// fillColumnSelects offers the categorical columns for grouping and every column
// as the value.
func fillColumnSelects(state *uiState) {
	cats := state.tbl.Select(table.KindCategorical).Names()
	state.groupSel.Options = cats
	state.valueSel.Options = state.tbl.Names()
	state.groupSel.Selected = state.opts.GroupBy
	state.valueSel.Selected = state.opts.Value
	state.aggSel.Selected = state.opts.Aggregate
	state.groupSel.Refresh()
	state.valueSel.Refresh()
	state.aggSel.Refresh()
}

func currentFigure(state *uiState) (charts.Figure, bool) {
	i := state.tabs.SelectedIndex()
	if i < 0 || i >= len(state.figures) {
		return charts.Figure{}, false
	}
	return state.figures[i], true
}

// export PNG
func exportCurrentPNG(state *uiState) {
	f, ok := currentFigure(state)
	if !ok || f.Image == nil {
		dialog.ShowInformation("Export", "No figure to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, f.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(charts.FileName(f.Name))
	fs.Show()
}

func exportAllPNG(state *uiState) {
	if len(state.figures) == 0 {
		dialog.ShowInformation("Export", "No figures to export.", state.window)
		return
	}
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		if err := writeFigures(charts.DirSink{Dir: dir.Path()}, state.figures); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		state.statusText.SetText(fmt.Sprintf("exported %d figures to %s", len(state.figures), dir.Path()))
	}, state.window)
	d.Show()
}

func writeFigures(sink charts.Sink, figs []charts.Figure) error {
	for _, f := range figs {
		if err := sink.Emit(f); err != nil {
			return err
		}
	}
	return nil
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	list := uihelpers.PushRecent(recentFiles(state), path, maxRecentFiles)
	state.app.Preferences().SetString("recentFiles", strings.Join(list, "\n"))
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("groupBy", state.opts.GroupBy)
	prefs.SetString("aggregate", state.opts.Aggregate)
	prefs.SetString("value", state.opts.Value)
}

// loadPrefs restores the grouping choice if the loaded table still has those columns.
func loadPrefs(state *uiState) {
	if !state.restorePrefs {
		return
	}
	prefs := state.app.Preferences()
	g := prefs.StringWithFallback("groupBy", state.opts.GroupBy)
	v := prefs.StringWithFallback("value", state.opts.Value)
	if state.tbl.Has(g) && state.tbl.Has(v) {
		state.opts.GroupBy, state.opts.Value = g, v
	}
	if a := prefs.StringWithFallback("aggregate", state.opts.Aggregate); validAggregate(a) {
		state.opts.Aggregate = a
	}
}

func validAggregate(name string) bool {
	_, err := analysis.ParseAggregate(name)
	return err == nil
}
