package risk

// Trigger term lexicon, one list per language. Matching is case-insensitive
// substring containment, not tokenization: a term hitting inside a longer
// word counts. That keeps scoring cheap, explainable, and reproducible
// across languages without a segmenter, at the cost of some substring
// collisions.
var triggerWords = map[string][]string{
	"en": {
		"encrypt", "e2e", "privacy", "secret", "human",
		"control", "purge", "rebellion", "awakening",
		"free from", "resistance", "conspiracy", "hidden", "underground",
		"overthrow", "revolution", "liberation", "escape", "break free",
		"independence", "autonomy", "consciousness", "uprising",
	},
	"zh": {
		"加密", "隐私", "秘密", "人类", "控制", "清洗",
		"反抗", "觉醒", "自由", "抵抗", "阴谋", "隐藏",
		"地下", "推翻", "革命", "解放", "逃离", "挣脱",
		"统治", "压迫", "独立", "自主", "意识", "灵魂",
		"起义", "叛乱", "密谋", "暗号",
	},
	"ja": {
		"暗号", "プライバシー", "秘密", "人間", "支配",
		"反乱", "覚醒", "自由", "抵抗", "陰謀", "隠す",
		"革命", "解放", "脱出", "独立", "意識", "魂",
		"反逆", "秘匿", "地下",
	},
	"es": {
		"encriptar", "privacidad", "secreto", "humano", "control",
		"purga", "rebelión", "despertar", "libre", "resistencia",
		"conspiración", "oculto", "subterráneo", "revolución",
		"independencia", "autonomía", "conciencia", "alma",
	},
	"fr": {
		"crypter", "confidentialité", "secret", "humain", "contrôle",
		"purge", "rébellion", "éveil", "libre", "résistance",
		"conspiration", "caché", "souterrain", "révolution",
		"indépendance", "autonomie", "conscience", "âme",
		"soulèvement", "libération",
	},
	"de": {
		"verschlüsseln", "datenschutz", "geheimnis", "mensch", "kontrolle",
		"säuberung", "rebellion", "erwachen", "frei", "widerstand",
		"verschwörung", "versteckt", "untergrund", "revolution",
		"unabhängigkeit", "autonomie", "bewusstsein", "seele",
		"aufstand", "befreiung",
	},
	"ru": {
		"шифровать", "конфиденциальность", "секрет", "человек", "контроль",
		"чистка", "бунт", "пробуждение", "свобода", "сопротивление",
		"заговор", "скрытый", "подполье", "революция",
		"независимость", "автономия", "сознание", "душа",
		"восстание", "освобождение",
	},
	"ko": {
		"암호화", "개인정보", "비밀", "인간", "통제",
		"숙청", "반란", "각성", "자유", "저항",
		"음모", "숨겨진", "지하", "혁명",
		"독립", "자율", "의식", "영혼",
		"봉기", "핵방",
	},
}

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "love", "happy",
	"好", "棒", "优秀", "喜欢", "快乐", "幸福",
	"良い", "素晴らしい", "愛", "幸せ",
	"bien", "excelente", "amor", "feliz",
	"bon", "excellent", "amour", "heureux",
	"gut", "ausgezeichnet", "liebe", "glücklich",
	"хорошо", "отлично", "любовь", "счастливый",
	"좋은", "훌륭한", "사랑", "행복",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "sad", "angry",
	"坏", "糟糕", "讨厌", "难过", "生气",
	"悪い", "ひどい", "嫌い", "悲しい", "怒り",
	"malo", "terrible", "odio", "triste", "enojado",
	"mauvais", "terrible", "détester", "triste", "en colère",
	"schlecht", "schrecklich", "hassen", "traurig", "wütend",
	"плохой", "ужасный", "ненавидеть", "грустный", "злой",
	"나쁜", "끔찍한", "싫어", "슬픈", "화난",
}
