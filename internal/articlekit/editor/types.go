package editor

import (
	"github.com/md7o/articlekit/internal/articlekit/editor/edtypes"
)

// Реэкспорт типов модели документа для удобства потребителей пакета
type (
	TextAlign   = edtypes.TextAlign
	Document    = edtypes.Document
	Content     = edtypes.Content
	Paragraph   = edtypes.Paragraph
	Heading     = edtypes.Heading
	CodeBlock   = edtypes.CodeBlock
	BulletList  = edtypes.BulletList
	OrderedList = edtypes.OrderedList
	Image       = edtypes.Image
	Span        = edtypes.Span
	Mark        = edtypes.Mark
	MarkSet     = edtypes.MarkSet
	MarkType    = edtypes.MarkType
)

// Реэкспорт констант
const (
	LeftAlign   = edtypes.LeftAlign
	CenterAlign = edtypes.CenterAlign
	RightAlign  = edtypes.RightAlign

	MarkBold      = edtypes.MarkBold
	MarkItalic    = edtypes.MarkItalic
	MarkHighlight = edtypes.MarkHighlight
	MarkCode      = edtypes.MarkCode
	MarkLink      = edtypes.MarkLink
)

// Реэкспорт функций
var (
	ParseTextAlign = edtypes.ParseTextAlign
)
