package bubble

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-ego/gse"
	"github.com/rs/zerolog/log"
)

// Wrapper 按词折行：英文按空白分词，中日韩文本用 gse 分词
type Wrapper struct {
	once      sync.Once
	mu        sync.Mutex
	segmenter *gse.Segmenter // gse 分词器，首次遇到 CJK 文本时加载
}

// NewWrapper 创建折行器
func NewWrapper() *Wrapper {
	return &Wrapper{}
}

func (w *Wrapper) cut(text string) []string {
	w.once.Do(func() {
		segmenter, err := gse.New()
		if err != nil {
			// 降级到按字符分割
			log.Warn().Err(err).Msg("failed to load gse dictionary, falling back to rune wrapping")
			return
		}
		w.segmenter = &segmenter
	})

	if w.segmenter == nil {
		var runes []string
		for _, r := range text {
			runes = append(runes, string(r))
		}
		return runes
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.segmenter.Cut(text, true)
}

// Tokens 将文本切分为可折行的片段，空白作为独立片段保留
func (w *Wrapper) Tokens(text string) []string {
	if !HasCJK(text) {
		var tokens []string
		for i, f := range strings.Fields(text) {
			if i > 0 {
				tokens = append(tokens, " ")
			}
			tokens = append(tokens, f)
		}
		return tokens
	}
	return w.cut(text)
}

// Wrap 将文本折成宽度不超过 maxWidth 的若干行
// 单个英文单词超宽时独占一行，CJK 词超宽时按字拆开
func (w *Wrapper) Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	cur := ""

	var push func(tok string)
	push = func(tok string) {
		if cur == "" {
			tok = strings.TrimLeftFunc(tok, unicode.IsSpace)
			if tok == "" {
				return
			}
		}
		cand := cur + tok
		if cur == "" || measure(strings.TrimRightFunc(cand, unicode.IsSpace)) <= maxWidth {
			if cur == "" && measure(tok) > maxWidth && HasCJK(tok) && utf8.RuneCountInString(tok) > 1 {
				for _, r := range tok {
					push(string(r))
				}
				return
			}
			cur = cand
			return
		}
		if HasCJK(tok) && utf8.RuneCountInString(tok) > 1 && measure(tok) > maxWidth {
			for _, r := range tok {
				push(string(r))
			}
			return
		}
		lines = append(lines, strings.TrimSpace(cur))
		cur = ""
		push(tok)
	}

	for _, tok := range w.Tokens(text) {
		push(tok)
	}
	if s := strings.TrimSpace(cur); s != "" {
		lines = append(lines, s)
	}
	return lines
}

// HasCJK 是否包含中日韩文字
func HasCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
