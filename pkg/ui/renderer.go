package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/protocol"
)

// BoardRenderer draws the grid, the food and every snake from the client's
// current world view. The own snake renders from the predicted body, so
// turns feel immediate even before the server confirms them.
type BoardRenderer struct {
	widget.BaseWidget

	client       *game.Client
	baseCellSize float32
}

func NewBoardRenderer(client *game.Client, baseCellSize float32) *BoardRenderer {
	r := &BoardRenderer{
		client:       client,
		baseCellSize: baseCellSize,
	}
	r.ExtendBaseWidget(r)
	return r
}

func (b *BoardRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{
		board:   b,
		objects: []fyne.CanvasObject{},
	}
}

type boardWidgetRenderer struct {
	board   *BoardRenderer
	objects []fyne.CanvasObject
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {}

func (r *boardWidgetRenderer) cellSize(width, height int32) float32 {
	size := r.board.baseCellSize
	if width > 40 || height > 30 {
		scaleX := float32(40) / float32(width)
		scaleY := float32(30) / float32(height)
		scale := scaleX
		if scaleY < scale {
			scale = scaleY
		}
		size = r.board.baseCellSize * scale
		if size < 8 {
			size = 8
		}
	}
	return size
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	cfg := r.board.client.Config()
	size := r.cellSize(cfg.Width, cfg.Height)
	return fyne.NewSize(float32(cfg.Width)*size, float32(cfg.Height)*size)
}

func (r *boardWidgetRenderer) Refresh() {
	cfg := r.board.client.Config()
	view := r.board.client.Snapshot()
	size := r.cellSize(cfg.Width, cfg.Height)

	r.objects = r.objects[:0]

	bg := canvas.NewRectangle(color.RGBA{15, 15, 15, 255})
	bg.Resize(fyne.NewSize(float32(cfg.Width)*size, float32(cfg.Height)*size))
	r.objects = append(r.objects, bg)

	gridColor := color.RGBA{30, 30, 30, 255}
	for i := int32(0); i <= cfg.Width; i++ {
		line := canvas.NewLine(gridColor)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(float32(i)*size, 0)
		line.Position2 = fyne.NewPos(float32(i)*size, float32(cfg.Height)*size)
		r.objects = append(r.objects, line)
	}
	for i := int32(0); i <= cfg.Height; i++ {
		line := canvas.NewLine(gridColor)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(0, float32(i)*size)
		line.Position2 = fyne.NewPos(float32(cfg.Width)*size, float32(i)*size)
		r.objects = append(r.objects, line)
	}

	if view.Food != protocol.FoodUnspawned {
		food := canvas.NewCircle(color.RGBA{255, 60, 60, 255})
		food.Resize(fyne.NewSize(size*0.6, size*0.6))
		food.Move(fyne.NewPos(
			float32(view.Food.X)*size+size*0.2,
			float32(view.Food.Y)*size+size*0.2,
		))
		r.objects = append(r.objects, food)
	}

	for _, p := range view.Players {
		if len(p.Body) == 0 {
			continue
		}
		snakeColor := parseHexColor(p.Color)
		if !p.Alive {
			snakeColor.A = 100
		}

		for i, cell := range p.Body {
			if i == 0 {
				head := canvas.NewCircle(snakeColor)
				head.Resize(fyne.NewSize(size*0.9, size*0.9))
				head.Move(fyne.NewPos(
					float32(cell.X)*size+size*0.05,
					float32(cell.Y)*size+size*0.05,
				))
				r.objects = append(r.objects, head)
				continue
			}
			seg := canvas.NewRectangle(snakeColor)
			seg.Resize(fyne.NewSize(size*0.8, size*0.8))
			seg.Move(fyne.NewPos(
				float32(cell.X)*size+size*0.1,
				float32(cell.Y)*size+size*0.1,
			))
			r.objects = append(r.objects, seg)
		}
	}

	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// parseHexColor decodes "#rrggbb"; anything else renders white.
func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	hex := func(c byte) uint8 {
		switch {
		case c >= '0' && c <= '9':
			return c - '0'
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10
		}
		return 0
	}
	return color.RGBA{
		R: hex(s[1])<<4 | hex(s[2]),
		G: hex(s[3])<<4 | hex(s[4]),
		B: hex(s[5])<<4 | hex(s[6]),
		A: 255,
	}
}
