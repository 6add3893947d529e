package uihelpers

import (
	"math"
	"strings"
	"testing"
)

func TestComputeContainRect(t *testing.T) {
	// wide view: height limits
	x, y, w, h, s := ComputeContainRect(1500, 1000, 1200, 400)
	if math.Abs(float64(s)-0.4) > 1e-6 {
		t.Fatalf("scale %v want 0.4", s)
	}
	if w != 600 || h != 400 || x != 300 || y != 0 {
		t.Fatalf("got x=%v y=%v w=%v h=%v", x, y, w, h)
	}
	// tall view: width limits
	x, y, w, h, _ = ComputeContainRect(1000, 560, 500, 1000)
	if w != 500 || x != 0 || math.Abs(float64(h)-280) > 1e-3 || math.Abs(float64(y)-360) > 1e-3 {
		t.Fatalf("got x=%v y=%v w=%v h=%v", x, y, w, h)
	}
	if _, _, _, _, s := ComputeContainRect(0, 10, 10, 10); s != 0 {
		t.Fatalf("zero image should give zero scale, got %v", s)
	}
}

func TestComputeFigureMinSize(t *testing.T) {
	cases := []struct {
		w, h         int
		wantW, wantH float32
	}{
		{1500, 1000, 1400, 1400 * 1000.0 / 1500.0},
		{1000, 560, 1000, 560},
		{320, 200, 640, 400},
		{0, 0, 640, 360},
	}
	for _, c := range cases {
		gw, gh := ComputeFigureMinSize(c.w, c.h)
		if gw != c.wantW || math.Abs(float64(gh-c.wantH)) > 1e-3 {
			t.Fatalf("%dx%d => %vx%v want %vx%v", c.w, c.h, gw, gh, c.wantW, c.wantH)
		}
	}
}

func TestFitFigure(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		vw, vh       float32
		wantW, wantH float32
	}{
		{"short window shrinks to fit", 1500, 1000, 1200, 400, 600, 400},
		{"large window capped", 1500, 1000, 3000, 3000, 1400, 1400 * 1000.0 / 1500.0},
		{"small image keeps minimum", 320, 200, 1280, 900, 640, 400},
		{"unknown view", 1500, 1000, 0, 0, 1400, 1400 * 1000.0 / 1500.0},
	}
	for _, c := range cases {
		gw, gh := FitFigure(c.w, c.h, c.vw, c.vh)
		if math.Abs(float64(gw-c.wantW)) > 1e-3 || math.Abs(float64(gh-c.wantH)) > 1e-3 {
			t.Fatalf("%s: got %vx%v want %vx%v", c.name, gw, gh, c.wantW, c.wantH)
		}
	}
}

func TestTabTitle(t *testing.T) {
	cases := map[string]string{
		"line_chart":                            "Trend",
		"categorical_Weather":                   "Counts: Weather",
		"cont_boxplot":                          "Boxplot",
		"cont_distplot":                         "Distplot",
		"group_mean_Visibility (km)_by_Weather": "Grouped",
		"other":                                 "other",
	}
	for in, want := range cases {
		if got := TabTitle(in); got != want {
			t.Fatalf("TabTitle(%q)=%q want %q", in, got, want)
		}
	}
}

func TestPushRecent(t *testing.T) {
	got := PushRecent([]string{"a.csv", "b.csv", "c.csv"}, "b.csv", 3)
	if strings.Join(got, ",") != "b.csv,a.csv,c.csv" {
		t.Fatalf("got %v", got)
	}
	got = PushRecent([]string{"a", "b", "c"}, "d", 2)
	if strings.Join(got, ",") != "d,a" {
		t.Fatalf("cap not applied: %v", got)
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("/tmp/w.csv", 60); got != "/tmp/w.csv" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/home/someone/data/exports/station/montreal/2012/weather_2012.csv"
	got := TruncatePath(long, 40)
	if !strings.HasSuffix(got, "/...weather_2012.csv") {
		t.Fatalf("base name lost: %q", got)
	}
	if len(got) > 40 {
		t.Fatalf("too long: %q (%d)", got, len(got))
	}
	if got := TruncatePath(long, 10); got != "...weather_2012.csv" {
		t.Fatalf("tiny budget: %q", got)
	}
}
