package document

import (
	"fmt"
	"sort"
)

// Field names shared by every element. The history engine diffs elements
// field by field using these keys.
const (
	FieldX1      = "x1"
	FieldY1      = "y1"
	FieldX2      = "x2"
	FieldY2      = "y2"
	FieldOrder   = "order"
	FieldVersion = "version"
	FieldLocked  = "locked"
	FieldGroup   = "group"
	FieldPoints  = "points"
	FieldText    = "text"
)

// GeometryFields are the keys touched by every translate or resize gesture.
var GeometryFields = []string{FieldX1, FieldX2, FieldY1, FieldY2, FieldVersion}

type accessor struct {
	get func(e *Element) any
	set func(e *Element, v any) error
}

func floatField(ptr func(e *Element) *float64) accessor {
	return accessor{
		get: func(e *Element) any { return *ptr(e) },
		set: func(e *Element, v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			*ptr(e) = f
			return nil
		},
	}
}

func stringField(ptr func(e *Element) *string) accessor {
	return accessor{
		get: func(e *Element) any { return *ptr(e) },
		set: func(e *Element, v any) error {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("expected string, got %T", v)
			}
			*ptr(e) = s
			return nil
		},
	}
}

func boolField(ptr func(e *Element) *bool) accessor {
	return accessor{
		get: func(e *Element) any { return *ptr(e) },
		set: func(e *Element, v any) error {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("expected bool, got %T", v)
			}
			*ptr(e) = b
			return nil
		},
	}
}

func intField(ptr func(e *Element) *int) accessor {
	return accessor{
		get: func(e *Element) any { return *ptr(e) },
		set: func(e *Element, v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			*ptr(e) = int(f)
			return nil
		},
	}
}

var fields = map[string]accessor{
	FieldX1:      floatField(func(e *Element) *float64 { return &e.X1 }),
	FieldY1:      floatField(func(e *Element) *float64 { return &e.Y1 }),
	FieldX2:      floatField(func(e *Element) *float64 { return &e.X2 }),
	FieldY2:      floatField(func(e *Element) *float64 { return &e.Y2 }),
	FieldOrder:   intField(func(e *Element) *int { return &e.Order }),
	FieldVersion: intField(func(e *Element) *int { return &e.Version }),
	FieldLocked:  boolField(func(e *Element) *bool { return &e.Locked }),
	FieldGroup:   stringField(func(e *Element) *string { return &e.Group }),

	"shape":          stringField(func(e *Element) *string { return &e.Shape }),
	"fillColor":      stringField(func(e *Element) *string { return &e.FillColor }),
	"fillOpacity":    floatField(func(e *Element) *float64 { return &e.FillOpacity }),
	"strokeColor":    stringField(func(e *Element) *string { return &e.StrokeColor }),
	"strokeWidth":    floatField(func(e *Element) *float64 { return &e.StrokeWidth }),
	"strokeStyle":    stringField(func(e *Element) *string { return &e.StrokeStyle }),
	"opacity":        floatField(func(e *Element) *float64 { return &e.Opacity }),
	FieldText:        stringField(func(e *Element) *string { return &e.Text }),
	"textColor":      stringField(func(e *Element) *string { return &e.TextColor }),
	"textFont":       stringField(func(e *Element) *string { return &e.TextFont }),
	"textSize":       floatField(func(e *Element) *float64 { return &e.TextSize }),
	"textAlign":      stringField(func(e *Element) *string { return &e.TextAlign }),
	"startArrowhead": stringField(func(e *Element) *string { return &e.StartArrowhead }),
	"endArrowhead":   stringField(func(e *Element) *string { return &e.EndArrowhead }),
	"noteColor":      stringField(func(e *Element) *string { return &e.NoteColor }),
	"assetId":        stringField(func(e *Element) *string { return &e.AssetID }),
	"link":           stringField(func(e *Element) *string { return &e.Link }),
	"title":          stringField(func(e *Element) *string { return &e.Title }),
	"sticker":        stringField(func(e *Element) *string { return &e.Sticker }),
	"libraryItemId":  stringField(func(e *Element) *string { return &e.LibraryItemID }),
	FieldPoints: {
		get: func(e *Element) any { return clonePoints(e.Points) },
		set: func(e *Element, v any) error {
			switch pts := v.(type) {
			case [][2]float64:
				e.Points = clonePoints(pts)
			case nil:
				e.Points = nil
			default:
				return fmt.Errorf("expected points, got %T", v)
			}
			return nil
		},
	},
}

// FieldNames returns every diffable field key in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsField reports whether key names a diffable field.
func IsField(key string) bool {
	_, ok := fields[key]
	return ok
}

// structural fields carry z-order, history, grouping, locking and geometry.
var structural = map[string]bool{
	FieldX1: true, FieldY1: true, FieldX2: true, FieldY2: true,
	FieldOrder: true, FieldVersion: true, FieldGroup: true,
	FieldLocked: true, FieldPoints: true,
}

// IsProperty reports whether key names a style or content field that a
// toolbar may set on a selection.
func IsProperty(key string) bool {
	return IsField(key) && !structural[key]
}

// Get returns a copy of the value stored under key.
func (e *Element) Get(key string) (any, error) {
	f, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f.get(e), nil
}

// Set stores v under key. Numbers may be passed as any Go numeric type.
func (e *Element) Set(key string, v any) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if err := f.set(e, v); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Values snapshots the given fields. Unknown keys are skipped.
func (e *Element) Values(keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if f, ok := fields[k]; ok {
			out[k] = f.get(e)
		}
	}
	return out
}

// Apply writes every value of the map onto the element.
func (e *Element) Apply(values map[string]any) error {
	for k, v := range values {
		if err := e.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// CloneValue deep copies a field value.
func CloneValue(v any) any {
	if pts, ok := v.([][2]float64); ok {
		return clonePoints(pts)
	}
	return v
}

func clonePoints(pts [][2]float64) [][2]float64 {
	if pts == nil {
		return nil
	}
	out := make([][2]float64, len(pts))
	copy(out, pts)
	return out
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
