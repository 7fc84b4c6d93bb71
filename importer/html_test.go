package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMarkdownToHTML_Headings verifies heading substitution, longest prefix
// first.
func TestMarkdownToHTML_Headings(t *testing.T) {
	html := MarkdownToHTML("# Назва\n\n## Розділ\n\n### Підрозділ")
	assert.Equal(t, "<h1>Назва</h1><h2>Розділ</h2><h3>Підрозділ</h3>", html)
}

// TestMarkdownToHTML_Inline verifies links, images, bold, and italic, with
// bold applied before italic.
func TestMarkdownToHTML_Inline(t *testing.T) {
	html := MarkdownToHTML("Це **жирний** та *курсив* і [посилання](https://pon.org.ua/doc).")
	assert.Equal(t,
		`<p>Це <strong>жирний</strong> та <em>курсив</em> і <a href="https://pon.org.ua/doc">посилання</a>.</p>`,
		html)
}

// TestMarkdownToHTML_Image verifies image markdown becomes an img tag and is
// passed through unwrapped.
func TestMarkdownToHTML_Image(t *testing.T) {
	html := MarkdownToHTML("![фото](https://pon.org.ua/img.jpg)")
	assert.Equal(t, `<img src="https://pon.org.ua/img.jpg" alt="фото" />`, html)
}

// TestMarkdownToHTML_UnorderedList verifies consecutive dash lines group
// into a single ul.
func TestMarkdownToHTML_UnorderedList(t *testing.T) {
	html := MarkdownToHTML("- перший\n- другий\n\nАбзац після списку.")
	assert.Equal(t, "<ul><li>перший</li><li>другий</li></ul><p>Абзац після списку.</p>", html)
}

// TestMarkdownToHTML_OrderedList verifies numbered lines group into an ol.
func TestMarkdownToHTML_OrderedList(t *testing.T) {
	html := MarkdownToHTML("1. один\n2. два\n3. три")
	assert.Equal(t, "<ol><li>один</li><li>два</li><li>три</li></ol>", html)
}

// TestMarkdownToHTML_ListSwitch verifies the list closes and reopens when
// the marker kind changes mid-stream.
func TestMarkdownToHTML_ListSwitch(t *testing.T) {
	html := MarkdownToHTML("- пункт\n1. номер\n- знову пункт")
	assert.Equal(t, "<ul><li>пункт</li></ul><ol><li>номер</li></ol><ul><li>знову пункт</li></ul>", html)
}

// TestMarkdownToHTML_TrailingList verifies a list at the end of input is
// closed.
func TestMarkdownToHTML_TrailingList(t *testing.T) {
	html := MarkdownToHTML("Текст.\n\n- хвостовий пункт")
	assert.Equal(t, "<p>Текст.</p><ul><li>хвостовий пункт</li></ul>", html)
}

// TestMarkdownToHTML_EmptyLinesDropped verifies blank lines produce nothing.
func TestMarkdownToHTML_EmptyLinesDropped(t *testing.T) {
	html := MarkdownToHTML("Один.\n\n\n\nДва.")
	assert.Equal(t, "<p>Один.</p><p>Два.</p>", html)
}

// TestMarkdownToHTML_Empty verifies empty input yields empty output.
func TestMarkdownToHTML_Empty(t *testing.T) {
	assert.Equal(t, "", MarkdownToHTML(""))
}
