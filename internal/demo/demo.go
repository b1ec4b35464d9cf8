// Package demo is a small animated scene to record when no other content is
// hosted.
package demo

import (
	"image/color"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type ball struct {
	x, y   float32
	dx, dy float32
	r      float32
	clr    color.RGBA
}

// Scene bounces a few coloured balls around the window.
type Scene struct {
	balls  []ball
	width  float32
	height float32
	bg     color.RGBA
}

// New creates a scene with n balls in a width x height area.
func New(n, width, height int) *Scene {
	s := &Scene{
		width:  float32(width),
		height: float32(height),
		bg:     color.RGBA{R: 0x20, G: 0x24, B: 0x30, A: 0xff},
	}
	for range n {
		s.balls = append(s.balls, ball{
			x:  rand.Float32() * s.width,
			y:  rand.Float32() * s.height,
			dx: rand.Float32()*6 - 3,
			dy: rand.Float32()*6 - 3,
			r:  8 + rand.Float32()*24,
			clr: color.RGBA{
				R: uint8(64 + rand.IntN(192)),
				G: uint8(64 + rand.IntN(192)),
				B: uint8(64 + rand.IntN(192)),
				A: 0xff,
			},
		})
	}
	return s
}

func (s *Scene) Update() error {
	for i := range s.balls {
		b := &s.balls[i]
		b.x += b.dx
		b.y += b.dy
		if b.x < b.r || b.x > s.width-b.r {
			b.dx = -b.dx
		}
		if b.y < b.r || b.y > s.height-b.r {
			b.dy = -b.dy
		}
	}
	return nil
}

func (s *Scene) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	s.width, s.height = float32(b.Dx()), float32(b.Dy())
	screen.Fill(s.bg)
	for _, ball := range s.balls {
		vector.DrawFilledCircle(screen, ball.x, ball.y, ball.r, ball.clr, true)
	}
}
