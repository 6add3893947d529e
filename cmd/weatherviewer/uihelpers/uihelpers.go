package uihelpers

import (
	"path/filepath"
	"strings"
)

// ComputeContainRect fits an image of imgW x imgH into a view of viewW x viewH while
// keeping the aspect ratio. Returns the draw origin, the drawn size and the scale.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return x, y, w, h, scale
}

// ComputeFigureMinSize returns the minimum on-screen size of a figure tab.
// The figure keeps its aspect ratio; width is clamped to [640, 1400].
func ComputeFigureMinSize(imgW, imgH int) (float32, float32) {
	if imgW <= 0 || imgH <= 0 {
		return 640, 360
	}
	w := float32(imgW)
	if w < 640 {
		w = 640
	}
	if w > 1400 {
		w = 1400
	}
	return w, w * float32(imgH) / float32(imgW)
}

// FitFigure returns the on-screen size of a figure tab for a view of viewW x viewH.
// The figure is shrunk to fit the view but never grows past ComputeFigureMinSize;
// an unknown (zero) view falls back to that size.
func FitFigure(imgW, imgH int, viewW, viewH float32) (float32, float32) {
	w, h := ComputeFigureMinSize(imgW, imgH)
	if imgW <= 0 || imgH <= 0 {
		return w, h
	}
	_, _, cw, ch, scale := ComputeContainRect(float32(imgW), float32(imgH), viewW, viewH)
	if scale == 0 || cw >= w {
		return w, h
	}
	return cw, ch
}

// TabTitle turns a figure name like "cont_boxplot" into a short tab label.
func TabTitle(name string) string {
	switch {
	case name == "line_chart":
		return "Trend"
	case strings.HasPrefix(name, "categorical_"):
		return "Counts: " + strings.TrimPrefix(name, "categorical_")
	case strings.HasPrefix(name, "cont_"):
		kind := strings.TrimPrefix(name, "cont_")
		if kind == "" {
			return "Panels"
		}
		return strings.ToUpper(kind[:1]) + kind[1:]
	case strings.HasPrefix(name, "group_"):
		return "Grouped"
	}
	return name
}

// PushRecent puts path at the front of list, drops duplicates and keeps at most max entries.
func PushRecent(list []string, path string, max int) []string {
	out := []string{path}
	for _, f := range list {
		if f != path && f != "" && len(out) < max {
			out = append(out, f)
		}
	}
	return out
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
