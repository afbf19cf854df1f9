// Package pdfbook 把排版页写成 PDF 绘本
package pdfbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// ErrNoPages 没有可写入的页面
var ErrNoPages = errors.New("pdfbook: no pages")

// Page 一页 PNG 图片及其像素尺寸
type Page struct {
	Data   []byte
	Width  int
	Height int
}

// Write 每张图片占一页，页面大小等于图片尺寸（1px = 1pt）
func Write(w io.Writer, title string, pages []Page) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	for i, p := range pages {
		if p.Width <= 0 || p.Height <= 0 || len(p.Data) == 0 {
			return fmt.Errorf("pdfbook: page %d is empty", i+1)
		}
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: float64(pages[0].Width), Ht: float64(pages[0].Height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("panelforge", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	for i, p := range pages {
		name := fmt.Sprintf("page_%02d", i+1)
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(p.Data))
		wd, ht := float64(p.Width), float64(p.Height)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: wd, Ht: ht})
		pdf.ImageOptions(name, 0, 0, wd, ht, false, opt, 0, "")
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdfbook: %w", err)
	}
	return pdf.Output(w)
}
