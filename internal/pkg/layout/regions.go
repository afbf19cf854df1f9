package layout

import "image"

// Region 候选区域
type Region struct {
	Name string
	Rect image.Rectangle
}

// Regions 八个候选区域，顺序即无图片时的默认优先级
func Regions(w, h int) []Region {
	return []Region{
		{"top-left", image.Rect(0, 0, w/2, h/3)},
		{"top-right", image.Rect(w/2, 0, w, h/3)},
		{"top-center", image.Rect(w/4, 0, 3*w/4, h/3)},
		{"middle-left", image.Rect(0, h/3, w/3, 2*h/3)},
		{"middle-right", image.Rect(2*w/3, h/3, w, 2*h/3)},
		{"bottom-left", image.Rect(0, 2*h/3, w/2, h)},
		{"bottom-right", image.Rect(w/2, 2*h/3, w, h)},
		{"bottom-center", image.Rect(w/4, 2*h/3, 3*w/4, h)},
	}
}
