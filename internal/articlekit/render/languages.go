package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Человекочитаемые имена языков блока кода. Ключи - значения language,
// которые пишет редактор.
var languageLabels = map[string]string{
	"js":       "JavaScript",
	"ts":       "TypeScript",
	"html":     "HTML",
	"css":      "CSS",
	"php":      "PHP",
	"python":   "Python",
	"java":     "Java",
	"cpp":      "C++",
	"csharp":   "C#",
	"go":       "Go",
	"rust":     "Rust",
	"swift":    "Swift",
	"kotlin":   "Kotlin",
	"ruby":     "Ruby",
	"sql":      "SQL",
	"shell":    "Shell",
	"markdown": "Markdown",
}

// LanguageLabel возвращает подпись блока кода для значения language.
// Неизвестный непустой язык дает общую подпись "Code". Пустой язык
// включает автоопределение по содержимому: "Auto: <имя>" либо
// "Plain Text", если определить не удалось.
func LanguageLabel(language, code string) string {
	if language != "" {
		if label, ok := languageLabels[strings.ToLower(language)]; ok {
			return label
		}
		return "Code"
	}

	if name := detectLanguage(code); name != "" {
		return "Auto: " + name
	}
	return "Plain Text"
}

func detectLanguage(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	return lexer.Config().Name
}
