package imagegen

// Style 画风：在提示词前加固定前缀
type Style struct {
	Name   string
	Prefix string
}

// DefaultStyle 默认画风
const DefaultStyle = "manga"

var styles = []Style{
	{Name: "manga", Prefix: "manga style, black and white manga, detailed ink linework, screentone shading, "},
	{Name: "sketch", Prefix: "pencil sketch, hand-drawn sketch, rough lines, graphite texture, "},
	{Name: "anime", Prefix: "anime style, vibrant anime art, cel-shaded, clean lines, "},
	{Name: "comic", Prefix: "comic book style, bold outlines, dynamic shading, "},
	{Name: "ink", Prefix: "ink drawing, traditional ink art, brush strokes, monochrome, "},
	{Name: "webtoon", Prefix: "webtoon style, digital manhwa, clean digital art, "},
}

// Styles 返回全部画风（固定顺序）
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// LookupStyle 按名称查找画风
func LookupStyle(name string) (Style, bool) {
	for _, s := range styles {
		if s.Name == name {
			return s, true
		}
	}
	return Style{}, false
}

// Enhance 返回带画风前缀的提示词
func (s Style) Enhance(prompt string) string {
	return s.Prefix + prompt
}
