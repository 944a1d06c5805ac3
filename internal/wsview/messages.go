package wsview

import (
	"github.com/go-json-experiment/json"

	"tagsphere/internal/cloud"
)

const (
	typeInit    = "init"
	typeFrame   = "frame"
	typeLayout  = "layout"
	typePointer = "pointer"
	typeTouch   = "touch"
)

type initMessage struct {
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Labels      []string `json:"labels"`
	MinFontSize float64  `json:"minFontSize"`
}

type itemFrame struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Z       float64 `json:"z"`
}

type frameMessage struct {
	Type  string      `json:"type"`
	Items []itemFrame `json:"items"`
}

type rectMessage struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sizeMessage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// clientMessage is the union of everything the page sends; Type selects the
// meaningful fields.
type clientMessage struct {
	Type      string         `json:"type"`
	Container rectMessage    `json:"container"`
	Viewport  sizeMessage    `json:"viewport"`
	Items     []sizeMessage  `json:"items"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Touches   []pointMessage `json:"touches"`
}

func decodeClientMessage(data []byte) (*clientMessage, error) {
	msg := &clientMessage{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r rectMessage) rect() cloud.Rect {
	return cloud.Rect{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

func touchPoints(touches []pointMessage) []cloud.Point {
	points := make([]cloud.Point, len(touches))
	for i, t := range touches {
		points[i] = cloud.Point{X: t.X, Y: t.Y}
	}
	return points
}
