package render

import (
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

var codeFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.WithLineNumbers(false),
)

// HighlightCSS возвращает таблицу стилей подсветки для встраивания в
// страницу превью.
func HighlightCSS() string {
	var sb strings.Builder
	if err := codeFormatter.WriteCSS(&sb, styles.Get("monokai")); err != nil {
		slog.Error("Write highlight CSS", "err", err)
		return ""
	}
	return sb.String()
}

func renderCodeBlock(sb *strings.Builder, b *edtypes.CodeBlock) {
	label := LanguageLabel(b.Language, b.Code)

	sb.WriteString(`<div class="code-block rounded-lg overflow-hidden my-4">`)
	sb.WriteString(`<div class="code-block-header flex justify-between bg-zinc-800 px-3 py-1">`)
	sb.WriteString(`<span class="code-lang text-xs text-zinc-400">` + html.EscapeString(label) + `</span>`)
	sb.WriteString(`<button class="copy-btn text-xs" data-copy>Copy</button>`)
	sb.WriteString(`</div>`)

	if highlighted := highlight(b.Language, b.Code); highlighted != "" {
		sb.WriteString(highlighted)
	} else {
		sb.WriteString("<pre><code>" + html.EscapeString(b.Code) + "</code></pre>")
	}
	sb.WriteString(`</div>`)
}

func highlight(language, code string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	} else {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return ""
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		slog.Warn("Tokenize code block", "language", language, "err", err)
		return ""
	}

	var sb strings.Builder
	if err := codeFormatter.Format(&sb, styles.Get("monokai"), iterator); err != nil {
		slog.Warn("Format code block", "language", language, "err", err)
		return ""
	}
	return sb.String()
}

// CopyState отслеживает состояние кнопки копирования блока кода:
// после успешного копирования кнопка показывает подтверждение и
// сама возвращается к исходному виду через окно CopyResetWindow.
type CopyState struct {
	mu       sync.Mutex
	copiedAt time.Time

	// Подменяется в тестах
	now func() time.Time
}

const CopyResetWindow = 2 * time.Second

func NewCopyState() *CopyState {
	return &CopyState{now: time.Now}
}

// MarkCopied фиксирует успешное копирование.
func (s *CopyState) MarkCopied() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copiedAt = s.now()
}

// Copied возвращает true, пока окно подтверждения не истекло.
func (s *CopyState) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.copiedAt.IsZero() {
		return false
	}
	return s.now().Sub(s.copiedAt) < CopyResetWindow
}

// Label возвращает текущую подпись кнопки.
func (s *CopyState) Label() string {
	if s.Copied() {
		return "Copied!"
	}
	return "Copy"
}
