package board

// Kind identifies the type of a recorded operation.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindClear  Kind = "clear"
)

// Valid returns true if the operation kind is recognized.
func (k Kind) Valid() bool {
	switch k {
	case KindStroke, KindClear:
		return true
	}
	return false
}

// Tool selects how a stroke is applied to the surface.
type Tool string

const (
	ToolDraw  Tool = "draw"
	ToolErase Tool = "erase"
)

// Valid returns true if the tool is recognized.
func (t Tool) Valid() bool {
	switch t {
	case ToolDraw, ToolErase:
		return true
	}
	return false
}

// Point is a single 2-D coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StrokePayload carries the drawable content of a stroke operation as
// submitted by a client. It is empty for clear operations.
type StrokePayload struct {
	Points []Point `json:"points,omitempty"`
	Color  string  `json:"color,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Tool   Tool    `json:"tool,omitempty"`
}

// Operation is one immutable, authority-ordered recorded action.
//
// The id, author identity and timestamp are assigned by the authority when
// the operation is appended, never by the submitting client. Ids are unique
// and strictly increasing within a room, starting at 0.
type Operation struct {
	ID         int64  `json:"id"`
	Kind       Kind   `json:"type"`
	AuthorID   string `json:"userId"`
	AuthorName string `json:"userName"`
	StrokePayload
	// Timestamp is authority-assigned, in Unix milliseconds. Client clocks
	// are never trusted for ordering.
	Timestamp int64 `json:"timestamp"`
}

// Snapshot is the complete state of a log at a point in time. It is what a
// newly joined or reconnecting participant is initialized from.
type Snapshot struct {
	Operations       []Operation `json:"operations"`
	UndoneOperations []int64     `json:"undoneOperations"`
	OperationCounter int64       `json:"operationCounter"`
}

// Stats summarizes a log for status reporting.
type Stats struct {
	OperationCount int `json:"operationCount"`
	StrokeCount    int `json:"strokeCount"`
	UndoneCount    int `json:"undoneCount"`
	VisibleCount   int `json:"visibleCount"`
}
