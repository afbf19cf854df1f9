package comictools

import (
	"fmt"
	"strings"
)

// ScenePrompt 场景切分提示词，要求模型按编号列表输出 n 个画面
func ScenePrompt(story string, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Break this story into %d short comic panel descriptions.\n", n)
	sb.WriteString("Each line should vividly describe one visual scene suitable for a comic artist.\n")
	sb.WriteString("Be specific about character positions, camera angle and mood.\n")
	fmt.Fprintf(&sb, "Story: %s\n", strings.TrimSpace(story))
	sb.WriteString("Output format (exactly one numbered line per panel, nothing else):\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "%d. [Scene %d]\n", i, i)
	}
	return sb.String()
}

// DialoguePrompt 台词生成提示词，一次请求覆盖所有画面
func DialoguePrompt(descriptions []string, linesPerPanel int) string {
	var sb strings.Builder
	sb.WriteString("You are a professional comic book writer. ")
	fmt.Fprintf(&sb, "For each of the %d panels below, write up to %d short dialogue lines ", len(descriptions), linesPerPanel)
	sb.WriteString("(maximum 15 words per bubble - short is better).\n\n")
	for i, d := range descriptions {
		fmt.Fprintf(&sb, "Panel %d: %s\n", i+1, strings.TrimSpace(d))
	}
	sb.WriteString(`
For each line choose a bubble_type:
  - "speech"  normal talking
  - "thought" internal thoughts, pondering, remembering
  - "shout"   yelling, excitement, surprise, loud sounds
Name the speaker when it is clear from the panel.

CRITICAL: Output ONLY a valid JSON array. No markdown, no explanation.
Format:
[
  {"panel": 1, "lines": [{"text": "Short line here!", "bubble_type": "shout", "speaker": "Fox"}]},
  {"panel": 2, "lines": []}
]
`)
	return sb.String()
}
