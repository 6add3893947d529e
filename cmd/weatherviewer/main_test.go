package main

import (
	"errors"
	"image"
	"testing"

	"github.com/iafilius/WeatherEDA/src/charts"
)

type failAfter struct {
	n    int
	seen int
}

func (s *failAfter) Emit(charts.Figure) error {
	if s.seen >= s.n {
		return errors.New("disk full")
	}
	s.seen++
	return nil
}

func TestWriteFigures(t *testing.T) {
	figs := []charts.Figure{
		{Name: "line_chart", Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
		{Name: "cont_boxplot", Image: image.NewRGBA(image.Rect(0, 0, 4, 4))},
	}
	var mem charts.MemorySink
	if err := writeFigures(&mem, figs); err != nil {
		t.Fatalf("writeFigures: %v", err)
	}
	if len(mem.Figures) != 2 || mem.Figures[1].Name != "cont_boxplot" {
		t.Fatalf("unexpected figures: %+v", mem.Figures)
	}
	fa := &failAfter{n: 1}
	if err := writeFigures(fa, figs); err == nil {
		t.Fatal("expected the sink error to be returned")
	}
	if fa.seen != 1 {
		t.Fatalf("expected to stop after the failing figure, saw %d", fa.seen)
	}
}

func TestValidAggregate(t *testing.T) {
	for _, a := range []string{"mean", "max", "min", "sum", "len"} {
		if !validAggregate(a) {
			t.Fatalf("%s should be valid", a)
		}
	}
	if validAggregate("median") {
		t.Fatal("median should be rejected")
	}
}
