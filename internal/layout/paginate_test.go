package layout

// Notes:
// - Geometry is built by hand with a 100pt content height so expected
//   slices are easy to read
// - Coverage of the split search is checked through observable slices only

import (
	"math/rand"
	"reflect"
	"testing"
)

func testGeometry(contentHeight float64) Geometry {
	return Geometry{
		Width:        300,
		Height:       contentHeight + 100,
		Margins:      Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
		HeaderOffset: 20,
		FooterOffset: 20,
		BandHeight:   18,
	}
}

// lines returns a text-like measure of n lines of height h.
func lines(n int, h float64) Measure {
	m := Measure{Height: float64(n) * h}
	for i := 1; i < n; i++ {
		m.Breaks = append(m.Breaks, float64(i)*h)
	}
	return m
}

// ---------------------------------------------------------------------------
// TestPaginate - Break placement
// ---------------------------------------------------------------------------

func TestPaginate(t *testing.T) {
	t.Parallel()

	heading := Measure{Height: 20, KeepWithNext: true}

	tests := []struct {
		name     string
		measures []Measure
		want     []PageSlices
	}{
		{
			name:     "no blocks still yields a page",
			measures: nil,
			want:     []PageSlices{{}},
		},
		{
			name:     "everything fits",
			measures: []Measure{{Height: 40}, {Height: 60}},
			want:     []PageSlices{{{Block: 0, To: 40}, {Block: 1, To: 60}}},
		},
		{
			name:     "split at last line that fits",
			measures: []Measure{lines(15, 10)},
			want: []PageSlices{
				{{Block: 0, From: 0, To: 100}},
				{{Block: 0, From: 100, To: 150}},
			},
		},
		{
			name:     "widows pull a line over",
			measures: []Measure{lines(11, 10)},
			want: []PageSlices{
				{{Block: 0, From: 0, To: 90}},
				{{Block: 0, From: 90, To: 110}},
			},
		},
		{
			name:     "orphans push the block over",
			measures: []Measure{{Height: 85}, lines(5, 10)},
			want: []PageSlices{
				{{Block: 0, To: 85}},
				{{Block: 1, To: 50}},
			},
		},
		{
			name:     "atomic block moves to next page",
			measures: []Measure{{Height: 70}, {Height: 40}},
			want: []PageSlices{
				{{Block: 0, To: 70}},
				{{Block: 1, To: 40}},
			},
		},
		{
			name:     "forced break",
			measures: []Measure{{Height: 10}, {ForceBreak: true}, {Height: 10}},
			want: []PageSlices{
				{{Block: 0, To: 10}},
				{{Block: 2, To: 10}},
			},
		},
		{
			name:     "leading and repeated forced breaks add no blank page",
			measures: []Measure{{ForceBreak: true}, {ForceBreak: true}, {Height: 10}},
			want:     []PageSlices{{{Block: 2, To: 10}}},
		},
		{
			name:     "heading kept with next block",
			measures: []Measure{{Height: 60}, heading, {Height: 30}},
			want: []PageSlices{
				{{Block: 0, To: 60}},
				{{Block: 1, To: 20}, {Block: 2, To: 30}},
			},
		},
		{
			name:     "heading stays when next block can split",
			measures: []Measure{{Height: 60}, heading, lines(6, 10)},
			want: []PageSlices{
				{{Block: 0, To: 60}, {Block: 1, To: 20}, {Block: 2, To: 20}},
				{{Block: 2, From: 20, To: 60}},
			},
		},
		{
			name:     "oversize atomic block is cut and flagged",
			measures: []Measure{{Height: 250}},
			want: []PageSlices{
				{{Block: 0, From: 0, To: 100, Overflow: true}},
				{{Block: 0, From: 100, To: 200, Overflow: true}},
				{{Block: 0, From: 200, To: 250}},
			},
		},
		{
			name:     "zero height block kept",
			measures: []Measure{{Height: 0}},
			want:     []PageSlices{{{Block: 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Paginate(testGeometry(100), tt.measures, DefaultRules())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Paginate() =\n%v\nwant\n%v", got, tt.want)
			}
		})
	}
}

func TestPaginate_NoContentHeight(t *testing.T) {
	t.Parallel()

	measures := []Measure{lines(3, 10), {Height: 0}, {ForceBreak: true}, {Height: 40}}
	want := []PageSlices{
		{{Block: 0, To: 30, Overflow: true}},
		{{Block: 1, Overflow: true}},
		{{Block: 3, To: 40, Overflow: true}},
	}
	for _, h := range []float64{0, -20} {
		if got := Paginate(testGeometry(h), measures, DefaultRules()); !reflect.DeepEqual(got, want) {
			t.Errorf("Paginate(content height %v) =\n%v\nwant\n%v", h, got, want)
		}
	}
}

func TestAllowedBreaks(t *testing.T) {
	t.Parallel()

	m := lines(6, 10) // breaks 10..50
	tests := []struct {
		name  string
		rules Rules
		want  []float64
	}{
		{name: "no rules", rules: Rules{}, want: []float64{10, 20, 30, 40, 50}},
		{name: "two and two", rules: Rules{Orphans: 2, Widows: 2}, want: []float64{20, 30, 40}},
		{name: "three and one", rules: Rules{Orphans: 3, Widows: 1}, want: []float64{30, 40, 50}},
		{name: "too strict", rules: Rules{Orphans: 4, Widows: 4}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := allowedBreaks(m.Breaks, m.Height, tt.rules); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("allowedBreaks() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPaginate_Properties - Coverage, order, budget and determinism
// ---------------------------------------------------------------------------

func randomMeasures(r *rand.Rand, n int) []Measure {
	out := make([]Measure, n)
	for i := range out {
		switch r.Intn(6) {
		case 0:
			out[i] = Measure{Height: float64(10 + r.Intn(150))}
		case 1:
			out[i] = Measure{Height: float64(10 + r.Intn(30)), KeepWithNext: true}
		case 2:
			out[i] = Measure{ForceBreak: true}
		default:
			out[i] = lines(1+r.Intn(30), float64(8+r.Intn(8)))
		}
	}
	return out
}

func TestPaginate_Properties(t *testing.T) {
	t.Parallel()

	geom := testGeometry(100)
	r := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		measures := randomMeasures(r, 1+r.Intn(25))
		pages := Paginate(geom, measures, DefaultRules())

		if again := Paginate(geom, measures, DefaultRules()); !reflect.DeepEqual(pages, again) {
			t.Fatalf("run %d: pagination not deterministic", run)
		}

		next, pos := 0, 0.0
		skipBreaks := func() {
			for next < len(measures) && measures[next].ForceBreak {
				next++
			}
		}
		skipBreaks()
		for pi, page := range pages {
			used := 0.0
			for _, s := range page {
				if next >= len(measures) || s.Block != next || s.From != pos {
					t.Fatalf("run %d page %d: got slice %+v, expected block %d from %v", run, pi, s, next, pos)
				}
				used += s.Height()
				pos = s.To
				if s.To == measures[next].Height {
					next, pos = next+1, 0
					skipBreaks()
				}
			}
			if used > geom.ContentHeight()+epsilon {
				t.Fatalf("run %d page %d: used %v > budget", run, pi, used)
			}
		}
		if next != len(measures) {
			t.Fatalf("run %d: content lost from block %d", run, next)
		}
	}
}
