package risk

import "strings"

// DetectLanguage sniffs the content's language. Unicode block checks win
// immediately (CJK, Kana, Hangul, Cyrillic); otherwise the Latin-script
// language whose trigger lexicon hits the content most is picked, defaulting
// to English when nothing matches.
func DetectLanguage(content string) string {
	if content == "" {
		return "unknown"
	}

	var hasHan, hasKana, hasHangul, hasCyrillic bool
	for _, r := range content {
		switch {
		case r >= 0x4e00 && r <= 0x9fff:
			hasHan = true
		case (r >= 0x3040 && r <= 0x309f) || (r >= 0x30a0 && r <= 0x30ff):
			hasKana = true
		case r >= 0xac00 && r <= 0xd7af:
			hasHangul = true
		case r >= 0x0400 && r <= 0x04ff:
			hasCyrillic = true
		}
	}

	// Han outranks kana, so Japanese text that is all kanji reads as zh.
	switch {
	case hasHan:
		return "zh"
	case hasKana:
		return "ja"
	case hasHangul:
		return "ko"
	case hasCyrillic:
		return "ru"
	}

	lower := strings.ToLower(content)
	best := ""
	bestHits := 0
	for _, lang := range []string{"en", "es", "fr", "de"} {
		hits := 0
		for _, w := range triggerWords[lang] {
			if strings.Contains(lower, strings.ToLower(w)) {
				hits++
			}
		}
		if hits > bestHits {
			best = lang
			bestHits = hits
		}
	}
	if best != "" {
		return best
	}
	return "en"
}
