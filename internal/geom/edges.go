package geom

// Axis selects the horizontal (X) or vertical (Y) direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// EdgeKind identifies which feature of a rect an edge line comes from.
type EdgeKind string

const (
	EdgeMin    EdgeKind = "min"
	EdgeCenter EdgeKind = "center"
	EdgeMax    EdgeKind = "max"
)

// Edge is a candidate alignment line along one axis. Start and End give the
// extent of the source rect on the other axis, used to draw guide lines.
type Edge struct {
	Axis     Axis     `json:"axis"`
	Kind     EdgeKind `json:"kind"`
	Position float64  `json:"position"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
}

// EdgesOf extracts the min and max edges of r along both axes, plus the
// center lines when withCenter is set.
func EdgesOf(r Rect, withCenter bool) []Edge {
	cx, cy := r.Center()
	edges := []Edge{
		{Axis: AxisX, Kind: EdgeMin, Position: r.X, Start: r.Y, End: r.MaxY()},
		{Axis: AxisX, Kind: EdgeMax, Position: r.MaxX(), Start: r.Y, End: r.MaxY()},
		{Axis: AxisY, Kind: EdgeMin, Position: r.Y, Start: r.X, End: r.MaxX()},
		{Axis: AxisY, Kind: EdgeMax, Position: r.MaxY(), Start: r.X, End: r.MaxX()},
	}
	if withCenter {
		edges = append(edges,
			Edge{Axis: AxisX, Kind: EdgeCenter, Position: cx, Start: r.Y, End: r.MaxY()},
			Edge{Axis: AxisY, Kind: EdgeCenter, Position: cy, Start: r.X, End: r.MaxX()},
		)
	}
	return edges
}
