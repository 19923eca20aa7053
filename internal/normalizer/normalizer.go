package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.Und)

// Key 生成归一化匹配键
// 规则：NFD 分解去除变音符号，仅保留 ASCII 字母与数字，统一小写。
// "Café Déli"、"cafe deli"、"CAFE-DELI!!" 产生相同的键。
// 空值或纯符号输入返回空字符串。
func Key(text string) string {
	if text == "" {
		return ""
	}

	decomposed := norm.NFD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		// 跳过组合记号（变音符号）
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// TitleName 规范化人名展示：去除首尾空白并转为标题大小写
func TitleName(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(s))
}
