package geom

import (
	"math"
	"testing"
)

func TestFromCornersNormalizes(t *testing.T) {
	r := FromCorners(60, 40, 10, 10)
	if r.X != 10 || r.Y != 10 || r.Width != 50 || r.Height != 30 {
		t.Errorf("unexpected rect: %+v", r)
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"touching corner", Rect{X: 10, Y: 10, Width: 5, Height: 5}, true},
		{"outside", Rect{X: 10.5, Y: 0, Width: 5, Height: 5}, false},
		{"contained", Rect{X: 2, Y: 2, Width: 1, Height: 1}, true},
		{"degenerate point inside", Rect{X: 3, Y: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnionAndBounds(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: -5, Width: 5, Height: 5}
	u := a.Union(b)
	if u.X != 0 || u.Y != -5 || u.MaxX() != 25 || u.MaxY() != 10 {
		t.Errorf("unexpected union: %+v", u)
	}

	bounds, ok := BoundsOf([]Rect{a, b, {X: 40, Y: 40}})
	if !ok {
		t.Fatal("expected bounds")
	}
	if bounds.MaxX() != 40 || bounds.MaxY() != 40 {
		t.Errorf("unexpected bounds: %+v", bounds)
	}
	if _, ok := BoundsOf(nil); ok {
		t.Error("expected no bounds for empty input")
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v, step, want float64
	}{
		{10, 20, 20},
		{9.9, 20, 0},
		{29, 20, 20},
		{31, 20, 40},
		{-11, 20, -20},
		{7, 0, 7},
	}
	for _, tt := range tests {
		if got := RoundTo(tt.v, tt.step); got != tt.want {
			t.Errorf("RoundTo(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 10, Y: 0}
	if d := PointSegmentDistance(Point{X: 5, Y: 3}, a, b); d != 3 {
		t.Errorf("expected 3, got %v", d)
	}
	if d := PointSegmentDistance(Point{X: 13, Y: 4}, a, b); d != 5 {
		t.Errorf("expected 5 beyond the endpoint, got %v", d)
	}
	if d := PointSegmentDistance(Point{X: 3, Y: 4}, a, a); d != 5 {
		t.Errorf("expected 5 for degenerate segment, got %v", d)
	}
}

func TestSimplifyPath(t *testing.T) {
	points := []Point{{0, 0}, {1, 0.1}, {2, -0.1}, {3, 0}, {3, 5}}
	got := SimplifyPath(points, 0.5)
	want := []Point{{0, 0}, {3, 0}, {3, 5}}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}

	short := []Point{{1, 1}, {2, 2}}
	if out := SimplifyPath(short, 1); len(out) != 2 {
		t.Errorf("expected short paths to be returned unchanged, got %v", out)
	}
}

func TestPathBounds(t *testing.T) {
	r := PathBounds([]Point{{2, 3}, {-1, 8}, {4, 0}})
	if r.X != -1 || r.Y != 0 || r.Width != 5 || r.Height != 8 {
		t.Errorf("unexpected bounds: %+v", r)
	}
}

func TestEdgesOf(t *testing.T) {
	edges := EdgesOf(Rect{X: 0, Y: 0, Width: 100, Height: 50}, true)
	if len(edges) != 6 {
		t.Fatalf("expected 6 edges, got %d", len(edges))
	}
	var sawCenterX bool
	for _, e := range edges {
		if e.Axis == AxisX && e.Kind == EdgeCenter {
			sawCenterX = true
			if e.Position != 50 {
				t.Errorf("expected center x at 50, got %v", e.Position)
			}
		}
	}
	if !sawCenterX {
		t.Error("missing center x edge")
	}
	if n := len(EdgesOf(Rect{Width: 1, Height: 1}, false)); n != 4 {
		t.Errorf("expected 4 edges without centers, got %d", n)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	m := Viewport(100, -40, 2)
	sx, sy := m.TransformPoint(10, 20)
	if sx != 120 || sy != 0 {
		t.Fatalf("unexpected screen point (%v, %v)", sx, sy)
	}
	wx, wy := m.Invert().TransformPoint(sx, sy)
	if math.Abs(wx-10) > 1e-9 || math.Abs(wy-20) > 1e-9 {
		t.Errorf("inverse mismatch: (%v, %v)", wx, wy)
	}
}
