// Package section holds the state of one mounted blog section: the fetched
// articles, the loading flag and the hovered card.
//
// A View starts in Loading, issues a single fetch when mounted and moves to
// Loaded exactly once when that fetch settles, whatever its outcome. A view
// that is unmounted first cancels the fetch and ignores any late result.
package section

import (
	"context"
	"errors"
	"sync"
	"time"

	"blog_section/internal/content"
	"blog_section/internal/logger"
	"blog_section/internal/metrics"
	"blog_section/internal/models"
)

const (
	// HeroLimit caps the cards in the hero grid and the skeleton placeholders.
	HeroLimit     = 3
	ReadTimeLabel = "5 min read"
	ListingURL    = "/blog"
)

// ErrShareNotImplemented is returned by the share control.
var ErrShareNotImplemented = errors.New("share is not implemented")

// Phase is the renderable state of a view.
type Phase int

const (
	Loading Phase = iota
	Loaded
)

func (p Phase) String() string {
	if p == Loaded {
		return "loaded"
	}
	return "loading"
}

// Fetcher supplies the article collection.
type Fetcher interface {
	FetchArticles(ctx context.Context) ([]models.Article, error)
}

// Options tune how cards are built. A zero PreviewWords means
// content.CardWordLimit.
type Options struct {
	PreviewWords int
}

func (o Options) withDefaults() Options {
	if o.PreviewWords <= 0 {
		o.PreviewWords = content.CardWordLimit
	}
	return o
}

// Card is the display form of one article.
type Card struct {
	ID        string
	Title     string
	Image     string
	URL       string
	Preview   string
	CreatedAt time.Time
	ReadTime  string
	Hovered   bool
}

// State is an immutable snapshot of a view.
type State struct {
	Phase       Phase
	Cards       []Card
	Total       int
	ShowViewAll bool
	ViewAllURL  string
	Hovered     string
	// Slots is the number of skeleton placeholders shown while loading.
	Slots int
}

func (s State) Loading() bool { return s.Phase == Loading }

// View is the state of one mounted section. Views share nothing, and each
// issues at most one fetch.
type View struct {
	fetcher Fetcher
	opts    Options
	log     *logger.Entry

	mountOnce   sync.Once
	unmountOnce sync.Once
	settled     chan struct{}
	gone        chan struct{}

	mu        sync.Mutex
	cancel    context.CancelFunc
	unmounted bool
	phase     Phase
	articles  []models.Article
	fetched   int
	hovered   string
}

// NewView returns a view in the Loading phase. Nothing is fetched until Mount.
func NewView(f Fetcher, opts Options) *View {
	return &View{
		fetcher: f,
		opts:    opts.withDefaults(),
		log:     logger.Component("section"),
		settled: make(chan struct{}),
		gone:    make(chan struct{}),
	}
}

// Mount starts the fetch. Only the first call has an effect, and a view that
// was already unmounted never fetches.
func (v *View) Mount(ctx context.Context) {
	v.mountOnce.Do(func() {
		v.mu.Lock()
		if v.unmounted {
			v.mu.Unlock()
			return
		}
		ctx, cancel := context.WithCancel(ctx)
		v.cancel = cancel
		v.mu.Unlock()

		metrics.ViewsMounted.Inc()
		go v.load(ctx)
	})
}

func (v *View) load(ctx context.Context) {
	articles, err := v.fetcher.FetchArticles(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.unmounted {
		metrics.LateResponses.Inc()
		v.log.Debug("Dropping fetch result after unmount")
		return
	}

	if err != nil {
		v.log.WithError(err).Error("Error fetching articles")
		articles = nil
	}

	// The view-all decision counts what the API returned, duplicates included.
	v.fetched = len(articles)
	articles, dups := models.UniqueByID(articles)
	if len(dups) > 0 {
		v.log.WithField("duplicate_ids", dups).Warn("Duplicate article ids in response")
	}

	v.articles = articles
	v.phase = Loaded
	close(v.settled)
}

// Unmount cancels an outstanding fetch and releases waiters. It is safe to
// call more than once.
func (v *View) Unmount() {
	v.unmountOnce.Do(func() {
		v.mu.Lock()
		v.unmounted = true
		cancel := v.cancel
		v.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		close(v.gone)
	})
}

// Wait blocks until the view is Loaded and reports whether it is. It returns
// false early when the view is unmounted or ctx ends.
func (v *View) Wait(ctx context.Context) bool {
	select {
	case <-v.settled:
		return true
	default:
	}

	select {
	case <-v.settled:
		return true
	case <-v.gone:
		return false
	case <-ctx.Done():
		return false
	}
}

// Hover marks the card under the pointer.
func (v *View) Hover(id string) {
	v.mu.Lock()
	v.hovered = id
	v.mu.Unlock()
}

// Leave clears the hovered card.
func (v *View) Leave() {
	v.Hover("")
}

// Snapshot returns the current state. Loaded snapshots carry at most
// HeroLimit cards; the view-all link shows only when more articles exist.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := State{
		Phase:      v.phase,
		Hovered:    v.hovered,
		Slots:      HeroLimit,
		ViewAllURL: ListingURL,
	}
	if v.phase == Loading {
		return st
	}

	st.Total = v.fetched
	st.ShowViewAll = st.Total > HeroLimit

	n := min(len(v.articles), HeroLimit)
	st.Cards = make([]Card, 0, n)
	for _, a := range v.articles[:n] {
		st.Cards = append(st.Cards, Card{
			ID:        a.ID,
			Title:     a.Title,
			Image:     a.FeaturedImage,
			URL:       a.URL(),
			Preview:   content.Preview(a.Content, v.opts.PreviewWords),
			CreatedAt: a.CreatedAt,
			ReadTime:  ReadTimeLabel,
			Hovered:   a.ID == v.hovered && v.hovered != "",
		})
	}
	return st
}

// Share is the handler behind a card's share control. The control swallows
// its own click, so the card never navigates; no share target exists yet.
func Share(articleID string) error {
	logger.Component("section").WithField("article_id", articleID).Info("Share article")
	return ErrShareNotImplemented
}
