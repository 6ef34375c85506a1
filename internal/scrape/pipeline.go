package scrape

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/database"
	"github.com/JakeFAU/forum-harvester/internal/fetch"
	"github.com/JakeFAU/forum-harvester/internal/forum"
	"github.com/JakeFAU/forum-harvester/internal/queue"
	"github.com/JakeFAU/forum-harvester/internal/storage"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Pipeline composes the listing walk, the per-post detail scrapes, and
// the persistence collaborators into one synchronous run. There is no
// concurrent writer anywhere: the single traversal appends to the
// accumulating dataset and suspends only at fetch boundaries.
type Pipeline struct {
	fetcher   fetch.Fetcher
	selectors Selectors
	store     database.Provider
	blobs     storage.Provider
	queue     queue.Provider
	clock     Clock
	ids       IDGenerator
	logger    *zap.Logger
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(
	fetcher fetch.Fetcher,
	selectors Selectors,
	store database.Provider,
	blobs storage.Provider,
	queueProvider queue.Provider,
	clock Clock,
	ids IDGenerator,
	logger *zap.Logger,
) (*Pipeline, error) {
	if err := selectors.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		fetcher:   fetcher,
		selectors: selectors,
		store:     store,
		blobs:     blobs,
		queue:     queueProvider,
		clock:     clock,
		ids:       ids,
		logger:    logger,
	}, nil
}

// Run walks the listing chain from seedURL, scrapes every discovered
// post's detail page, joins the tables, persists them, and publishes one
// notification per stored post. Seed and pagination fetch failures are
// fatal; per-post failures degrade to sentinel rows.
func (p *Pipeline) Run(ctx context.Context, seedURL string) (*forum.Dataset, error) {
	runID, err := p.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}

	ds := &forum.Dataset{
		RunID:     runID,
		Seed:      seedURL,
		StartedAt: p.clock.Now(),
	}

	walker := NewWalker(p.fetcher, p.selectors, seedURL, p.logger)
	walker.OnPage(p.archive)
	ds.Posts, err = walker.WalkAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing traversal: %w", err)
	}

	urls := make([]string, 0, len(ds.Posts))
	for _, post := range ds.Posts {
		urls = append(urls, post.URL)
	}

	p.scrapeDetails(ctx, ds, urls)
	if !ds.Aligned() {
		// Collect guarantees one row per input URL; this is a bug trap,
		// not an expected runtime state.
		return nil, fmt.Errorf("run %s: detail tables misaligned with %d posts", runID, len(ds.Posts))
	}

	if err := p.store.SaveDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("persist run %s: %w", runID, err)
	}
	p.notify(ctx, ds)

	p.logger.Info("Run complete",
		zap.String("run_id", runID),
		zap.String("seed", seedURL),
		zap.Int("posts", len(ds.Posts)),
	)
	return ds, nil
}

// detailBundle carries the per-post scrape results so each detail page
// is fetched exactly once.
type detailBundle struct {
	detail  forum.QuestionDetail
	badges  forum.BadgeList
	answer  forum.AnswerRow
	comment forum.CommentRow
}

func (p *Pipeline) scrapeDetails(ctx context.Context, ds *forum.Dataset, urls []string) {
	questions := NewQuestionScraper(p.selectors)
	answers := NewAnswerScraper(p.selectors)
	comments := NewCommentScraper(p.selectors)

	agg := NewAggregator(p.fetcher, p.logger)
	agg.OnPage(p.archive)

	scrapeAll := func(doc *goquery.Document, postURL string) (detailBundle, error) {
		detail, err := questions.Detail(doc, postURL)
		if err != nil {
			return detailBundle{}, err
		}
		answer, err := answers.Scrape(doc, postURL)
		if err != nil {
			return detailBundle{}, err
		}
		comment, err := comments.Scrape(doc, postURL)
		if err != nil {
			return detailBundle{}, err
		}
		return detailBundle{
			detail:  detail,
			badges:  questions.Badges(doc, postURL),
			answer:  answer,
			comment: comment,
		}, nil
	}

	// Failed posts keep their table rows: every field stays the missing
	// sentinel, only the key survives.
	missing := func(postURL string) detailBundle {
		return detailBundle{
			detail:  forum.QuestionDetail{PostURL: postURL},
			badges:  forum.BadgeList{PostURL: postURL},
			answer:  forum.AnswerRow{PostURL: postURL},
			comment: forum.CommentRow{PostURL: postURL},
		}
	}

	bundles := Collect(ctx, agg, urls, scrapeAll, missing)
	ds.Details = make([]forum.QuestionDetail, 0, len(bundles))
	ds.Badges = make([]forum.BadgeList, 0, len(bundles))
	ds.Answers = make([]forum.AnswerRow, 0, len(bundles))
	ds.Comments = make([]forum.CommentRow, 0, len(bundles))
	for _, b := range bundles {
		ds.Details = append(ds.Details, b.detail)
		ds.Badges = append(ds.Badges, b.badges)
		ds.Answers = append(ds.Answers, b.answer)
		ds.Comments = append(ds.Comments, b.comment)
	}
}

// archive snapshots a raw page into blob storage before extraction.
// Snapshot failures are logged, never fatal: the dataset matters more
// than the archive.
func (p *Pipeline) archive(ctx context.Context, page fetch.Page) {
	objectName := p.objectName(page.FinalURL)
	if err := p.blobs.Save(ctx, objectName, page.Body); err != nil {
		p.logger.Error("Failed to archive page",
			zap.String("url", page.FinalURL),
			zap.String("object", objectName),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) objectName(url string) string {
	urlHash := fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
	return path.Join(
		"pages",
		p.clock.Now().Format("2006-01-02"),
		fmt.Sprintf("%s.html", urlHash),
	)
}

func (p *Pipeline) notify(ctx context.Context, ds *forum.Dataset) {
	for _, post := range ds.Posts {
		if err := p.queue.Publish(ctx, ds.RunID, post.URL); err != nil {
			p.logger.Error("Failed to publish post notification",
				zap.String("run_id", ds.RunID),
				zap.String("url", post.URL),
				zap.Error(err),
			)
		}
	}
}
