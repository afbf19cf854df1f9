package id

import (
	"fmt"

	"github.com/google/uuid"
)

// New 生成新的UUID（string格式）
func New() string {
	return uuid.New().String()
}

// IsValid 验证UUID格式是否有效
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ImageKey 单张生成图片的存储 key
func ImageKey() string {
	return fmt.Sprintf("images/%s.png", New())
}

// CompositeKey 单张合成图的存储 key
func CompositeKey() string {
	return fmt.Sprintf("composites/%s.png", New())
}

// PanelRawKey 绘本中某一格原始画面的存储 key
func PanelRawKey(bookID string, index int) string {
	return fmt.Sprintf("books/%s/panel_%02d_raw.png", bookID, index)
}

// PanelKey 绘本中某一格合成画面的存储 key
func PanelKey(bookID string, index int) string {
	return fmt.Sprintf("books/%s/panel_%02d.png", bookID, index)
}

// PageKey 绘本页的存储 key
func PageKey(bookID string, number int) string {
	return fmt.Sprintf("books/%s/page_%02d.png", bookID, number)
}

// BookPDFKey 绘本 PDF 的存储 key
func BookPDFKey(bookID string) string {
	return fmt.Sprintf("books/%s/book.pdf", bookID)
}
