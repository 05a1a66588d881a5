package locale

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "zh", want: LanguageChinese},
		{input: "zh-CN", want: LanguageChinese},
		{input: "ZH_hans", want: LanguageChinese},
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "fr", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeLanguage(tc.input); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		explicit string
		header   string
		want     string
	}{
		{header: "en-US,en;q=0.9", want: LanguageEnglish},
		{header: "fr-FR,en;q=0.8,zh;q=0.5", want: LanguageEnglish},
		{header: "zh-CN,zh;q=0.9,en;q=0.8", want: LanguageChinese},
		{explicit: "en", header: "zh-CN", want: LanguageEnglish},
		{explicit: "de", header: "", want: LanguageChinese},
		{want: LanguageChinese},
	}

	for _, tc := range cases {
		if got := Resolve(tc.explicit, tc.header); got != tc.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", tc.explicit, tc.header, got, tc.want)
		}
	}
}

func TestContentLanguage(t *testing.T) {
	if got := ContentLanguage("en"); got != "en-US" {
		t.Fatalf("expected en-US, got %q", got)
	}
	if got := ContentLanguage(""); got != "zh-CN" {
		t.Fatalf("expected zh-CN fallback, got %q", got)
	}
}

func TestCatalogTranslate(t *testing.T) {
	c := NewCatalog(map[string]string{"未登录": "not signed in", "记录不存在": "record not found"})

	if got := c.Translate("en", "未登录"); got != "not signed in" {
		t.Fatalf("Translate(en) = %q", got)
	}
	if got := c.Translate("zh", "未登录"); got != "未登录" {
		t.Fatalf("Translate(zh) = %q", got)
	}
	if got := c.Translate("en", "没有翻译"); got != "没有翻译" {
		t.Fatalf("expected untranslated text to fall through, got %q", got)
	}

	var missing *Catalog
	if got := missing.Translate("en", "记录不存在"); got != "记录不存在" {
		t.Fatalf("expected nil catalog to return source, got %q", got)
	}
}
