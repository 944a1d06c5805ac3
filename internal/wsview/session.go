package wsview

import (
	"log/slog"

	"github.com/go-json-experiment/json"

	"tagsphere/internal/cloud"
)

// surface mirrors the page layout reported by the client and turns every render
// pass into one frame message.
type surface struct {
	container      cloud.Rect
	viewportWidth  float64
	viewportHeight float64
	items          []sizeMessage

	frame  frameMessage
	write  func(data []byte) error
	closed bool
	failed func(err error)
}

var _ cloud.Surface = &surface{}
var _ cloud.Flusher = &surface{}

func newSurface(n int, viewportWidth, viewportHeight float64, write func([]byte) error, failed func(error)) *surface {
	s := &surface{
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
		frame: frameMessage{
			Type:  typeFrame,
			Items: make([]itemFrame, n),
		},
		write:  write,
		failed: failed,
	}
	for i := range s.frame.Items {
		s.frame.Items[i].Scale = 1
	}
	return s
}

func (s *surface) Container() cloud.Rect {
	return s.container
}

func (s *surface) Viewport() (float64, float64) {
	return s.viewportWidth, s.viewportHeight
}

// ItemSize is the size reported by the page, which ignores CSS transforms, times
// the scale last sent for the item. It is zero until the page has reported its layout.
func (s *surface) ItemSize(i int) (float64, float64) {
	if i >= len(s.items) {
		return 0, 0
	}
	scale := s.frame.Items[i].Scale
	return s.items[i].Width * scale, s.items[i].Height * scale
}

func (s *surface) Apply(i int, t cloud.Transform) {
	s.frame.Items[i] = itemFrame{
		X:       t.X,
		Y:       t.Y,
		Scale:   t.Scale,
		Opacity: t.Opacity,
		Z:       t.Depth,
	}
}

func (s *surface) Flush() {
	if s.closed {
		return
	}
	data, err := json.Marshal(&s.frame)
	if err == nil {
		err = s.write(data)
	}
	if err != nil {
		s.closed = true
		s.failed(err)
	}
}

func (s *surface) setLayout(msg *clientMessage) {
	s.container = msg.Container.rect()
	if msg.Viewport.Width > 0 && msg.Viewport.Height > 0 {
		s.viewportWidth = msg.Viewport.Width
		s.viewportHeight = msg.Viewport.Height
	}
	s.items = msg.Items
}

// session is one page connected to the server. Everything but the reader runs on
// the scheduler goroutine.
type session struct {
	id      string
	surface *surface
	engine  *cloud.Engine
	logger  *slog.Logger
}

func (s *session) handle(msg *clientMessage) {
	switch msg.Type {
	case typeLayout:
		s.surface.setLayout(msg)
		s.engine.Resize()
	case typePointer:
		s.engine.PointerMove(msg.X, msg.Y)
	case typeTouch:
		s.engine.TouchMove(touchPoints(msg.Touches))
	default:
		s.logger.Debug("ignoring client message", slog.String("type", msg.Type))
	}
}
