package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveArticle returns a client pointed at a test server that serves the
// given HTML for every request.
func serveArticle(t *testing.T, html string) (*Client, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/novyny/", "test-agent")
	require.NoError(t, err)
	return c, srv.URL + "/novyny/1-test.html"
}

// TestFetchArticle_Complete verifies title, date, main image, gallery, and
// markdown content extraction from a full article page.
func TestFetchArticle_Complete(t *testing.T) {
	c, articleURL := serveArticle(t, `
		<html><body>
		<h1>Назва статті</h1>
		<time datetime="2024-03-15T10:00:00Z">15 березня 2024</time>
		<div class="fullstory">
			<img src="/uploads/main.jpg">
			<p>Перший абзац тексту.</p>
			<img src="/uploads/gallery1.jpg">
			<img src="/uploads/gallery2.jpg">
		</div>
		</body></html>`)

	article, err := c.FetchArticle(context.Background(), articleURL, "")
	require.NoError(t, err)
	require.NotNil(t, article)

	assert.Equal(t, "Назва статті", article.Title)
	assert.Equal(t, "2024-03-15T10:00:00Z", article.PublishedDate, "datetime attribute wins over text")
	assert.Equal(t, articleURL, article.SourceURL)
	assert.Equal(t, c.origin+"/uploads/main.jpg", article.ImageURL, "first body image becomes main")
	assert.Equal(t, []string{
		c.origin + "/uploads/gallery1.jpg",
		c.origin + "/uploads/gallery2.jpg",
	}, article.ImageURLs, "gallery excludes the main image, keeps order")
	assert.Equal(t, "Перший абзац тексту.", article.Content)
}

// TestFetchArticle_TitleCascade verifies the selector cascade when there is
// no h1.
func TestFetchArticle_TitleCascade(t *testing.T) {
	c, articleURL := serveArticle(t, `
		<html><body>
		<div class="post-title">Заголовок з класу</div>
		<div class="post-content"><p>Текст.</p></div>
		</body></html>`)

	article, err := c.FetchArticle(context.Background(), articleURL, "")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "Заголовок з класу", article.Title)
}

// TestFetchArticle_NoTitle verifies a title-less page yields a nil article
// and no error.
func TestFetchArticle_NoTitle(t *testing.T) {
	c, articleURL := serveArticle(t, `<html><body><div class="fullstory"><p>Текст без назви.</p></div></body></html>`)

	article, err := c.FetchArticle(context.Background(), articleURL, "")
	require.NoError(t, err)
	assert.Nil(t, article)
}

// TestFetchArticle_FetchFailure verifies a non-success response is returned
// as an error so the caller can fall back to preview data.
func TestFetchArticle_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/novyny/", "test-agent")
	require.NoError(t, err)

	article, err := c.FetchArticle(context.Background(), srv.URL+"/novyny/gone.html", "")
	require.Error(t, err)
	assert.Nil(t, article)
}

// TestFetchArticle_PreviewImageWins verifies a caller-supplied preview image
// takes precedence over the first body image.
func TestFetchArticle_PreviewImageWins(t *testing.T) {
	c, articleURL := serveArticle(t, `
		<html><body>
		<h1>Назва</h1>
		<div class="fullstory"><img src="/uploads/body.jpg"><p>Текст.</p></div>
		</body></html>`)

	preview := "https://pon.org.ua/uploads/preview.jpg"
	article, err := c.FetchArticle(context.Background(), articleURL, preview)
	require.NoError(t, err)
	require.NotNil(t, article)

	assert.Equal(t, preview, article.ImageURL)
	assert.Equal(t, []string{c.origin + "/uploads/body.jpg"}, article.ImageURLs,
		"body image is gallery when it is not the main image")
}

// TestFetchArticle_DateFromText verifies the date element text is used when
// there is no datetime attribute.
func TestFetchArticle_DateFromText(t *testing.T) {
	c, articleURL := serveArticle(t, `
		<html><body>
		<h1>Назва</h1>
		<span class="post-date">15.03.2024</span>
		<div class="fullstory"><p>Текст.</p></div>
		</body></html>`)

	article, err := c.FetchArticle(context.Background(), articleURL, "")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, "15.03.2024", article.PublishedDate)
}

// TestExtractImages_Filters verifies the size filter, duplicate removal, and
// main-image exclusion.
func TestExtractImages_Filters(t *testing.T) {
	c := newTestClient(t)
	doc := docFromString(t, `
		<div class="fullstory">
			<img src="/uploads/main.jpg">
			<img src="/uploads/icon.png" width="16" height="16">
			<img src="/uploads/spacer.gif" width="1">
			<img src="/uploads/photo.jpg" width="640" height="480">
			<img src="/uploads/photo.jpg">
			<img src="/uploads/unlabeled.jpg">
			<img src="">
		</div>`)

	urls := c.extractImages(doc.Find(bodyContainerSelector), "https://pon.org.ua/uploads/main.jpg")

	assert.Equal(t, []string{
		"https://pon.org.ua/uploads/photo.jpg",
		"https://pon.org.ua/uploads/unlabeled.jpg",
	}, urls)
}

// TestParseDimension verifies that absent or non-numeric dimensions default
// past the size filter.
func TestParseDimension(t *testing.T) {
	assert.Equal(t, 640, parseDimension("640"))
	assert.Equal(t, 50, parseDimension("50%"))
	assert.Equal(t, defaultImageDimension, parseDimension(""))
	assert.Equal(t, defaultImageDimension, parseDimension("auto"))
	assert.Equal(t, 0, parseDimension("0"))
}
