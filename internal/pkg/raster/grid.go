package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// GridOptions 绘本页排版参数
type GridOptions struct {
	Cols       int
	Rows       int
	CellWidth  int
	CellHeight int
	Gutter     int
	Background color.Color
}

// DefaultGridOptions 2x2 排版
func DefaultGridOptions() GridOptions {
	return GridOptions{
		Cols:       2,
		Rows:       2,
		CellWidth:  512,
		CellHeight: 512,
		Gutter:     16,
		Background: color.White,
	}
}

// ComposeGrid 按行优先将若干画面缩放后排成一页，画面数不超过 Cols*Rows
// 保持画面比例，居中放入单元格
func ComposeGrid(panels []image.Image, opts GridOptions) *image.RGBA {
	w := opts.Cols*opts.CellWidth + (opts.Cols+1)*opts.Gutter
	h := opts.Rows*opts.CellHeight + (opts.Rows+1)*opts.Gutter
	page := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(page, page.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, p := range panels {
		if i >= opts.Cols*opts.Rows {
			break
		}
		col, row := i%opts.Cols, i/opts.Cols
		cell := image.Rect(0, 0, opts.CellWidth, opts.CellHeight).Add(image.Pt(
			opts.Gutter+col*(opts.CellWidth+opts.Gutter),
			opts.Gutter+row*(opts.CellHeight+opts.Gutter),
		))
		draw.CatmullRom.Scale(page, fit(p.Bounds(), cell), p, p.Bounds(), draw.Over, nil)
	}
	return page
}

// fit 在 cell 中按比例居中放置 src 尺寸
func fit(src, cell image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return cell
	}
	cw, ch := cell.Dx(), cell.Dy()
	w, h := cw, sh*cw/sw
	if h > ch {
		w, h = sw*ch/sh, ch
	}
	x := cell.Min.X + (cw-w)/2
	y := cell.Min.Y + (ch-h)/2
	return image.Rect(x, y, x+w, y+h)
}
