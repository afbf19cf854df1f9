package comictools

import (
	"regexp"
	"strings"
	"unicode"

	"panelforge/internal/model/comic"
)

// 直接引语：英文双引号、中文弯引号、直角引号
var quotePattern = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|「([^」]+)」`)

var pronouns = wordSet("he she they i we it you his her their")

// ExtractDialogue 从画面描述中提取直接引语作为台词
// 气泡类型由引语前后的动词与引语本身判断，说话人取动词旁的专有名词
func ExtractDialogue(description string, max int) []comic.DialogueLine {
	lines := []comic.DialogueLine{}
	if max <= 0 {
		return lines
	}

	matches := quotePattern.FindAllStringSubmatchIndex(description, -1)
	for i, m := range matches {
		text := ""
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				text = strings.TrimSpace(description[m[2*g]:m[2*g+1]])
				break
			}
		}
		if text == "" {
			continue
		}

		// 上下文：引语所在句子，不跨越相邻引语
		ctxStart := 0
		if i > 0 {
			ctxStart = matches[i-1][1]
		}
		ctxEnd := len(description)
		if i+1 < len(matches) {
			ctxEnd = matches[i+1][0]
		}
		before := description[ctxStart:m[0]]
		if locs := sentenceEnd.FindAllStringIndex(before, -1); len(locs) > 0 {
			before = before[locs[len(locs)-1][1]:]
		}
		after := description[m[1]:ctxEnd]
		if loc := sentenceEnd.FindStringIndex(after); loc != nil {
			after = after[:loc[0]]
		}
		context := before + " " + after

		lines = append(lines, comic.DialogueLine{
			Text:       text,
			BubbleType: ClassifyBubble(text, context),
			Speaker:    findSpeaker(context),
		})
		if len(lines) == max {
			break
		}
	}
	return lines
}

// findSpeaker 在动词前后寻找首字母大写的名字，如 "Fox said" / "said Fox"
func findSpeaker(context string) string {
	fields := strings.FieldsFunc(context, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for i, w := range fields {
		lw := strings.ToLower(w)
		if !speechVerbs[lw] && !thoughtVerbs[lw] && !shoutVerbs[lw] {
			continue
		}
		if i > 0 && isName(fields[i-1]) {
			return fields[i-1]
		}
		if i+1 < len(fields) && isName(fields[i+1]) {
			return fields[i+1]
		}
	}
	return ""
}

func isName(w string) bool {
	if w == "" || pronouns[strings.ToLower(w)] {
		return false
	}
	r := []rune(w)
	return unicode.IsUpper(r[0])
}
