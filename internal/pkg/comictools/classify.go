package comictools

import (
	"strings"
	"unicode"

	"panelforge/internal/model/comic"
)

// 动词表，用于判断引语的气泡类型
var (
	speechVerbs = wordSet(`say said says ask asked asks reply replied replies answer answered answers
		whisper whispered whispers mutter muttered mutters state stated states mention mentioned
		tell told tells speak spoke speaks respond responded responds remark remarked announce
		announced declare declared call called add added continue continued`)

	thoughtVerbs = wordSet(`think thought thinks wonder wondered wonders ponder pondered ponders
		consider considered considers realize realized realizes figure figured imagine imagined
		believe believed feel felt feels remember remembered recall recalled muse mused reflect
		reflected reckon reckoned`)

	shoutVerbs = wordSet(`shout shouted shouts yell yelled yells scream screamed screams cry cried
		cries holler hollered bellow bellowed roar roared roars exclaim exclaimed exclaims shriek shrieked`)
)

func wordSet(s string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		m[w] = true
	}
	return m
}

// words 小写单词列表
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// ClassifyBubble 根据台词文本与上下文判断气泡类型
// 喊叫动词、全大写、"!!"、三词以内的感叹句为 shout；思考动词为 thought；其余为 speech
func ClassifyBubble(text, context string) comic.BubbleType {
	ctxWords := words(context)
	for _, w := range ctxWords {
		if shoutVerbs[w] {
			return comic.BubbleShout
		}
	}
	if isShouted(text) {
		return comic.BubbleShout
	}
	for _, w := range ctxWords {
		if thoughtVerbs[w] {
			return comic.BubbleThought
		}
	}
	return comic.BubbleSpeech
}

func isShouted(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if strings.Contains(text, "!!") {
		return true
	}
	if strings.HasSuffix(text, "!") && len(strings.Fields(text)) <= 3 {
		return true
	}

	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			if unicode.IsUpper(r) {
				letters++
			}
		}
	}
	return letters >= 2
}

// NormalizeBubbleType 合法类型原样返回，否则按文本推断
func NormalizeBubbleType(raw, text string) comic.BubbleType {
	t := comic.BubbleType(strings.ToLower(strings.TrimSpace(raw)))
	if t.Valid() {
		return t
	}
	return ClassifyBubble(text, "")
}

// FontSize 根据气泡类型与文本长度给出字号
func FontSize(t comic.BubbleType, text string) float64 {
	n := len([]rune(text))
	switch {
	case t == comic.BubbleShout:
		return 24
	case n < 20:
		return 22
	case n < 50:
		return 20
	default:
		return 18
	}
}
