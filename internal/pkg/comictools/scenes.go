package comictools

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// 行首编号："1." "1)" "1:" "(1)" "#1"
	numberPrefix = regexp.MustCompile(`^[#(]?\d+\s*[.)）:：、\-]?\s*`)
	// 行首标签："Panel 1:" "Scene 2 -"
	labelPrefix = regexp.MustCompile(`(?i)^(panel|scene)\s*\d*\s*[:：.\-]\s*`)
	// 句子边界
	sentenceEnd = regexp.MustCompile(`[.!?。！？]+["”']?\s+|[。！？]+`)
)

// ParseScenes 解析模型返回的编号列表
// 只保留以数字或列表符号开头的行，去掉编号、标签、方括号与 markdown 加粗
func ParseScenes(text string) []string {
	var scenes []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "**")) // **1. xxx**

		first, size := utf8.DecodeRuneInString(line)
		switch {
		case numberPrefix.MatchString(line):
			line = numberPrefix.ReplaceAllString(line, "")
		case first == '-' || first == '•' || first == '*':
			line = strings.TrimSpace(line[size:])
		case labelPrefix.MatchString(line):
		default:
			continue
		}

		line = cleanScene(line)
		if hasWord(line) {
			scenes = append(scenes, line)
		}
	}
	return scenes
}

func cleanScene(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.TrimSpace(s)
	s = labelPrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = strings.TrimSpace(s[1 : len(s)-1])
		s = labelPrefix.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

func hasWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// NormalizeScenes 将画面数调整为 n
// 多于 n 截断；少于 n 时先在句子边界拆分最长的描述，仍不足则重复最后一个
func NormalizeScenes(scenes []string, n int) []string {
	if len(scenes) == 0 || n <= 0 {
		return nil
	}
	if len(scenes) >= n {
		out := make([]string, n)
		copy(out, scenes[:n])
		return out
	}

	out := make([]string, len(scenes))
	copy(out, scenes)
	for len(out) < n {
		idx := longestSplittable(out)
		if idx < 0 {
			break
		}
		first, second := splitSentences(out[idx])
		out = append(out[:idx], append([]string{first, second}, out[idx+1:]...)...)
	}
	for len(out) < n {
		out = append(out, out[len(out)-1])
	}
	return out
}

// longestSplittable 返回包含至少两句话的最长描述下标
func longestSplittable(scenes []string) int {
	best, bestLen := -1, 0
	for i, s := range scenes {
		if len(Sentences(s)) < 2 {
			continue
		}
		if l := utf8.RuneCountInString(s); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

func splitSentences(s string) (string, string) {
	parts := Sentences(s)
	half := (len(parts) + 1) / 2
	return strings.Join(parts[:half], " "), strings.Join(parts[half:], " ")
}

// Sentences 按句子边界切分
func Sentences(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(s, -1) {
		if part := strings.TrimSpace(s[last:loc[1]]); part != "" {
			out = append(out, part)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(s[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}
