package carve

import "fmt"

// Orientation selects the direction of the seams removed by a carving pass.
type Orientation int

const (
	// ColumnSeam is a vertical seam running top to bottom, one pixel per row.
	// Removing it reduces the image width by one.
	ColumnSeam Orientation = iota + 1
	// RowSeam is a horizontal seam running left to right, one pixel per column.
	// Removing it reduces the image height by one.
	RowSeam
)

func (o Orientation) String() string {
	switch o {
	case ColumnSeam:
		return "cols"
	case RowSeam:
		return "rows"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Valid reports whether o is one of the two supported orientations.
func (o Orientation) Valid() bool {
	switch o {
	case ColumnSeam, RowSeam:
		return true
	default:
		return false
	}
}

// span returns the length of the seam (along) and the size of the dimension
// being reduced (across) for a w×h plane.
func (o Orientation) span(w, h int) (along, across int, err error) {
	switch o {
	case ColumnSeam:
		return h, w, nil
	case RowSeam:
		return w, h, nil
	default:
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidOrientation, o)
	}
}

// Mode selects which passes a Processor runs.
type Mode int

const (
	// Columns removes vertical seams only.
	Columns Mode = iota + 1
	// Rows removes horizontal seams only.
	Rows
	// Both runs a column pass, then a row pass over its output.
	Both
)

// ParseMode converts the textual form used by the CLI into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "cols", "columns", "1":
		return Columns, nil
	case "rows", "2":
		return Rows, nil
	case "both", "3":
		return Both, nil
	}
	return 0, fmt.Errorf("unknown mode %q: expected cols, rows or both", s)
}

func (m Mode) String() string {
	switch m {
	case Columns:
		return "cols"
	case Rows:
		return "rows"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Orientations lists the carving passes run for the mode, in order.
func (m Mode) Orientations() ([]Orientation, error) {
	switch m {
	case Columns:
		return []Orientation{ColumnSeam}, nil
	case Rows:
		return []Orientation{RowSeam}, nil
	case Both:
		return []Orientation{ColumnSeam, RowSeam}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrientation, m)
	}
}
