package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// NormalizeLanguage 将 zh-CN、en_US 等写法归一为 zh / en，无法识别时返回空串
func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// FromAcceptLanguage 按 Accept-Language 中出现的先后顺序选择第一个支持的语言
func FromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang := NormalizeLanguage(tag); lang != "" {
			return lang
		}
	}
	return ""
}

// Resolve 依次尝试显式指定的语言与 Accept-Language，默认中文
func Resolve(explicit, acceptLanguage string) string {
	if lang := NormalizeLanguage(explicit); lang != "" {
		return lang
	}
	if lang := FromAcceptLanguage(acceptLanguage); lang != "" {
		return lang
	}
	return LanguageChinese
}

// ContentLanguage 返回响应头使用的语言标签
func ContentLanguage(language string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return "en-US"
	}
	return "zh-CN"
}
