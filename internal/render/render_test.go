package render_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"blog_section/internal/render"
	"blog_section/internal/section"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, buf *bytes.Buffer) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(buf)
	require.NoError(t, err)
	return doc
}

func loaded(n, total int) section.State {
	st := section.State{
		Phase:       section.Loaded,
		Total:       total,
		ShowViewAll: total > 3,
		ViewAllURL:  section.ListingURL,
		Slots:       3,
	}
	for i := 0; i < n; i++ {
		st.Cards = append(st.Cards, section.Card{
			ID:        fmt.Sprintf("id-%d", i),
			Title:     fmt.Sprintf("Title %d", i),
			Image:     fmt.Sprintf("https://cdn.example.com/%d.png", i),
			URL:       fmt.Sprintf("/blog/id-%d", i),
			Preview:   "some preview...",
			CreatedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			ReadTime:  section.ReadTimeLabel,
		})
	}
	return st
}

func TestFragment_Skeleton(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, section.State{Phase: section.Loading, Slots: 3}))

	doc := parse(t, &buf)
	require.Equal(t, 1, doc.Find(".blog-skeleton").Length())
	require.Equal(t, 3, doc.Find(".skeleton-card").Length())
	require.Equal(t, 0, doc.Find(".blog-card").Length())
	require.Equal(t, 0, doc.Find(".blog-view-all").Length())
}

func TestFragment_Cards(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, loaded(3, 3)))

	doc := parse(t, &buf)
	require.Equal(t, 0, doc.Find(".blog-skeleton").Length())

	cards := doc.Find(".blog-card")
	require.Equal(t, 3, cards.Length())

	first := cards.First()
	href, _ := first.Find("a.blog-card-link").Attr("href")
	require.Equal(t, "/blog/id-0", href)
	src, _ := first.Find("img").Attr("src")
	require.Equal(t, "https://cdn.example.com/0.png", src)
	action, _ := first.Find("form.blog-card-share").Attr("action")
	require.Equal(t, "/api/share/id-0", action)
	require.Equal(t, "Jan 05, 24", first.Find(".blog-card-date").Text())
	require.Equal(t, "Title 0", first.Find(".blog-card-title").Text())
	require.Equal(t, "some preview...", first.Find(".blog-card-preview").Text())
	require.Equal(t, section.ReadTimeLabel, first.Find(".blog-card-readtime").Text())

	require.Equal(t, 0, doc.Find(".blog-view-all").Length())
}

func TestFragment_ViewAll(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, loaded(3, 7)))

	doc := parse(t, &buf)
	link := doc.Find(".blog-view-all a")
	require.Equal(t, 1, link.Length())
	href, _ := link.Attr("href")
	require.Equal(t, "/blog", href)
}

func TestFragment_HeroCallToAction(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	for _, st := range []section.State{loaded(0, 0), loaded(3, 3), loaded(3, 7)} {
		var buf bytes.Buffer
		require.NoError(t, r.Fragment(&buf, st))

		doc := parse(t, &buf)
		require.Contains(t, doc.Find(".blog-subtext").Text(), "how your support creates lasting change")
		cta := doc.Find(".blog-hero-cta a")
		require.Equal(t, 1, cta.Length())
		require.Equal(t, "VIEW ALL STORIES", cta.Text())
		href, _ := cta.Attr("href")
		require.Equal(t, "/blog", href)
	}

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, section.State{Phase: section.Loading, Slots: 3}))
	require.Equal(t, 0, parse(t, &buf).Find(".blog-hero-cta").Length())
}

func TestFragment_EmptyAndUndated(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, loaded(0, 0)))
	doc := parse(t, &buf)
	require.Equal(t, 1, doc.Find(".blog-section").Length())
	require.Equal(t, 0, doc.Find(".blog-card").Length())

	st := loaded(1, 1)
	st.Cards[0].CreatedAt = time.Time{}
	st.Cards[0].Hovered = true
	buf.Reset()
	require.NoError(t, r.Fragment(&buf, st))
	doc = parse(t, &buf)
	require.Equal(t, 0, doc.Find(".blog-card-date").Length())
	require.Equal(t, 1, doc.Find(".blog-card.is-hovered").Length())
}

func TestFragment_EscapesTitles(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	st := loaded(1, 1)
	st.Cards[0].Title = `<script>alert("x")</script>`
	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, st))

	require.NotContains(t, buf.String(), "<script>")
	doc := parse(t, &buf)
	require.Equal(t, `<script>alert("x")</script>`, doc.Find(".blog-card-title").Text())
}

func TestPage(t *testing.T) {
	r, err := render.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, render.PageData{
		Title:   "Blog",
		State:   section.State{Phase: section.Loading, Slots: 3},
		Refresh: 2,
	}))

	doc := parse(t, &buf)
	require.Equal(t, "Blog", doc.Find("title").Text())
	refresh, ok := doc.Find(`meta[http-equiv="refresh"]`).Attr("content")
	require.True(t, ok)
	require.Equal(t, "2", refresh)
	require.Equal(t, 3, doc.Find(".skeleton-card").Length())

	buf.Reset()
	require.NoError(t, r.Page(&buf, render.PageData{Title: "Blog", State: loaded(2, 2)}))
	doc = parse(t, &buf)
	require.Equal(t, 0, doc.Find(`meta[http-equiv="refresh"]`).Length())
	require.Equal(t, 2, doc.Find(".blog-card").Length())
}
