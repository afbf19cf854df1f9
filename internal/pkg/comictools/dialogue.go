package comictools

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"panelforge/internal/model/comic"
)

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// CleanJSONContent 清理 LLM 返回的 JSON 内容
// 移除 markdown 代码块标记以及 JSON 前后的说明文字
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// 截取第一个 [ 或 { 到与之对应的最后一个括号
	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return content
	}
	closing := "]"
	if content[start] == '{' {
		closing = "}"
	}
	if end := strings.LastIndex(content, closing); end > start {
		return content[start : end+1]
	}
	return content[start:]
}

// rawLine 模型返回的单条台词
type rawLine struct {
	Text       string `json:"text"`
	BubbleType string `json:"bubble_type"`
	Speaker    string `json:"speaker,omitempty"`
}

// rawPanel 模型返回的单格台词
type rawPanel struct {
	Panel int       `json:"panel"`
	Lines []rawLine `json:"lines"`
}

// ErrInvalidDialogueJSON 模型输出无法解析为台词 JSON
var ErrInvalidDialogueJSON = errors.New("invalid dialogue JSON")

// ParseDialogueJSON 解析台词 JSON，返回与画面一一对应的台词
// 缺失的画面得到空台词；每格最多 linesPerPanel 条；空文本被丢弃；未知气泡类型按文本推断
func ParseDialogueJSON(content string, panelCount, linesPerPanel int) ([]comic.PanelDialogue, error) {
	cleaned := CleanJSONContent(content)

	var panels []rawPanel
	if err := json.Unmarshal([]byte(cleaned), &panels); err != nil {
		var wrapped struct {
			Panels []rawPanel `json:"panels"`
		}
		if err2 := json.Unmarshal([]byte(cleaned), &wrapped); err2 != nil || wrapped.Panels == nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDialogueJSON, err)
		}
		panels = wrapped.Panels
	}

	out := make([]comic.PanelDialogue, panelCount)
	for i := range out {
		out[i] = comic.PanelDialogue{Index: i + 1, Lines: []comic.DialogueLine{}}
	}

	for pos, p := range panels {
		idx := p.Panel
		if idx == 0 {
			idx = pos + 1
		}
		if idx < 1 || idx > panelCount {
			continue
		}
		target := &out[idx-1]
		for _, l := range p.Lines {
			text := strings.TrimSpace(l.Text)
			if text == "" || len(target.Lines) >= linesPerPanel {
				continue
			}
			target.Lines = append(target.Lines, comic.DialogueLine{
				Text:       text,
				BubbleType: NormalizeBubbleType(l.BubbleType, text),
				Speaker:    strings.TrimSpace(l.Speaker),
			})
		}
	}
	return out, nil
}
