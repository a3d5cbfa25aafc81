package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapWords 按单词贪心换行
// 参数:
//   - textStr: 要换行的文本，其中的 '\n' 始终保留为换行
//   - maxWidth: 最大宽度，单位与 measure 一致；<= 0 时只按 '\n' 拆分
//   - measure: 测量一行宽度
//
// 返回:
//   - []string: 换行后的文本（空段落为空行）
//
// 换行规则:
//   - 只在空白处断行，连续空白折叠为一个空格
//   - 单个单词超宽时独占一行，不拆分
func WrapWords(textStr string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(textStr, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if maxWidth > 0 && measure != nil && measure(candidate) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// WrapText 按字体测量宽度换行（像素）
func WrapText(textStr string, font text.Face, maxWidth float64) []string {
	if font == nil {
		return WrapWords(textStr, 0, nil)
	}
	return WrapWords(textStr, maxWidth, func(s string) float64 {
		return measureTextWidth(s, font)
	})
}

// WrapRunes 按字符数换行，用于等宽的终端
func WrapRunes(textStr string, maxColumns int) []string {
	return WrapWords(textStr, float64(maxColumns), func(s string) float64 {
		return float64(utf8.RuneCountInString(s))
	})
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font text.Face) float64 {
	if textStr == "" || font == nil {
		return 0
	}
	return text.Advance(textStr, font)
}
