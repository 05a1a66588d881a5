package locale

// Catalog 保存中文文案到英文文案的映射，中文是源语言
type Catalog struct {
	english map[string]string
}

// NewCatalog 以 zh→en 映射构造文案表
func NewCatalog(entries map[string]string) *Catalog {
	c := &Catalog{english: make(map[string]string, len(entries))}
	for zh, en := range entries {
		c.english[zh] = en
	}
	return c
}

// Translate 返回 language 对应的文案；缺少英文时原样返回中文
func (c *Catalog) Translate(language, chinese string) string {
	if c == nil || NormalizeLanguage(language) != LanguageEnglish {
		return chinese
	}
	if english, ok := c.english[chinese]; ok && english != "" {
		return english
	}
	return chinese
}
