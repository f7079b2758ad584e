// File: render.go
package main

import (
	"bytes"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"shapeCaptcha/internal/challenge"
)

// RenderConfig 挑战图片的画布几何参数
type RenderConfig struct {
	Width, Height           int // 画布大小，任意位置的区域都能完整显示
	FrameWidth, FrameHeight int // 摄像头画面缩放到这个尺寸
	GridCountX, GridCountY  int
	FontSize                float64
	DrawLabels              bool
}

var glyphColors = map[challenge.Color]string{
	challenge.Red:   "#FF0000",
	challenge.Green: "#008000",
	challenge.Blue:  "#0000FF",
}

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size}), nil
}

// CalculateRenderConfig 计算画布大小，保证区域放在边界内任意位置都不会被裁掉
func CalculateRenderConfig(cfg challenge.Config) RenderConfig {
	w := max(cfg.FrameWidth, cfg.Bounds.MaxLeft-1+cfg.Bounds.Size)
	h := max(cfg.FrameHeight, cfg.Bounds.MaxTop-1+cfg.Bounds.Size)
	cell := float64(cfg.Bounds.Size) / float64(max(cfg.Rows, cfg.Cols))
	return RenderConfig{
		Width:       w,
		Height:      h,
		FrameWidth:  cfg.FrameWidth,
		FrameHeight: cfg.FrameHeight,
		GridCountX:  cfg.Cols,
		GridCountY:  cfg.Rows,
		FontSize:    math.Max(6, cell/4),
		DrawLabels:  true,
	}
}

// RenderChallenge 在画面上锁定的区域里绘制选择网格，返回 PNG 字节
func RenderChallenge(frame image.Image, region challenge.Region, grid *challenge.Grid, cfg RenderConfig) ([]byte, error) {
	dc := gg.NewContext(cfg.Width, cfg.Height)
	// 黑底
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.DrawImage(FitFrame(frame, cfg.FrameWidth, cfg.FrameHeight), 0, 0)

	if grid != nil {
		if err := drawGrid(dc, region, grid, cfg); err != nil {
			return nil, err
		}
	}

	// 输出 PNG
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawGrid(dc *gg.Context, region challenge.Region, grid *challenge.Grid, cfg RenderConfig) error {
	unitX := float64(region.Size) / float64(cfg.GridCountX)
	unitY := float64(region.Size) / float64(cfg.GridCountY)
	left, top := float64(region.Left), float64(region.Top)

	for _, c := range grid.Cells {
		col, row := c.ID%cfg.GridCountX, c.ID/cfg.GridCountX
		x := left + float64(col)*unitX
		y := top + float64(row)*unitY

		// 已选中的格子绿色半透明
		if c.Selected {
			dc.SetRGBA(0, 1, 0, 0.3)
			dc.DrawRectangle(x, y, unitX, unitY)
			dc.Fill()
		}
		dc.SetHexColor("#CCCCCC")
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, unitX, unitY)
		dc.Stroke()

		if c.HasShape {
			drawGlyph(dc, c.Shape, c.Color, x+unitX/2, y+unitY/2, math.Min(unitX, unitY)*0.3)
		}
	}

	// 区域边框
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawRectangle(left+1, top+1, float64(region.Size)-2, float64(region.Size)-2)
	dc.Stroke()

	if !cfg.DrawLabels {
		return nil
	}
	face, err := labelFace(cfg.FontSize)
	if err != nil {
		return err
	}
	// 标签文字 A1, B1, ...
	dc.SetFontFace(face)
	dc.SetRGB(0.627, 0.627, 0.627)
	for _, c := range grid.Cells {
		col, row := c.ID%cfg.GridCountX, c.ID/cfg.GridCountX
		x := left + float64(col)*unitX + cfg.FontSize*0.25
		y := top + float64(row)*unitY + cfg.FontSize*0.25
		dc.DrawStringAnchored(c.Label, x, y, 0, 1)
	}
	return nil
}

// drawGlyph 以 (cx, cy) 为中心、r 为半径画一个图形
func drawGlyph(dc *gg.Context, shape challenge.Shape, color challenge.Color, cx, cy, r float64) {
	hex, ok := glyphColors[color]
	if !ok {
		hex = glyphColors[challenge.DefaultColor(shape)]
	}
	dc.SetHexColor(hex)
	switch shape {
	case challenge.Triangle:
		dc.MoveTo(cx, cy-r)
		dc.LineTo(cx+r, cy+r)
		dc.LineTo(cx-r, cy+r)
		dc.ClosePath()
	case challenge.Square:
		dc.DrawRectangle(cx-r, cy-r, 2*r, 2*r)
	case challenge.Circle:
		dc.DrawCircle(cx, cy, r)
	default:
		return
	}
	dc.Fill()
}
