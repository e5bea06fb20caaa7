package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/data"
	"github.com/kerbaras/mangadl/pkg/intrange"
	"github.com/kerbaras/mangadl/pkg/sources"
	"github.com/kerbaras/mangadl/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GetOptions selects what to fetch and where to put it. It is constructed
// once at startup and never mutated.
type GetOptions struct {
	// ID is the manga id; when zero the title (or AniList id) is used to
	// search for it.
	ID        uuid.UUID
	Title     string
	AnilistID int

	// Language selects the translation of the chapter feed.
	Language string
	// CoverLanguage selects cover locales; when empty covers are not
	// fetched at all.
	CoverLanguage string

	Chapters *intrange.Range
	Volumes  *intrange.Range

	// Output is the root directory; a "{title}" placeholder is replaced
	// once metadata is known.
	Output string
}

func (o *GetOptions) Validate() error {
	if o.ID == uuid.Nil && o.Title == "" && o.AnilistID == 0 {
		return fmt.Errorf("one of id, title or anilist id is required")
	}
	if o.Language == "" {
		return fmt.Errorf("language is required")
	}
	if o.Output == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// Builder turns the flat paged chapter and cover feeds into a filtered,
// grouped, path-annotated Catalog.
type Builder struct {
	source   sources.Source
	anilist  *sources.AniList
	progress ProgressFactory
	log      *zap.Logger
}

func NewBuilder(source sources.Source, logger *zap.Logger) *Builder {
	return &Builder{
		source:   source,
		anilist:  sources.NewAniList(),
		progress: NopProgress,
		log:      logger,
	}
}

// SetProgress installs a progress sink factory for pagination passes.
func (b *Builder) SetProgress(factory ProgressFactory) {
	b.progress = factory
}

// Get fetches metadata, the chapter feed and (optionally) the cover list as
// three concurrent tasks, then filters, groups by volume and sorts. Any
// failure aborts the whole fetch; no partial catalog is returned.
func (b *Builder) Get(ctx context.Context, opts GetOptions) (*data.Catalog, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	id, err := b.resolveID(ctx, opts)
	if err != nil {
		return nil, err
	}
	b.log.Debug("resolved manga id", zap.Stringer("id", id))

	var (
		meta     *sources.Metadata
		chapters []data.Chapter
		covers   []data.Cover
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = b.source.GetMetadata(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		chapters, err = b.fetchChapters(gctx, id, opts)
		return err
	})
	if opts.CoverLanguage != "" {
		g.Go(func() error {
			var err error
			covers, err = b.fetchCovers(gctx, id, opts.CoverLanguage)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root := strings.ReplaceAll(opts.Output, "{title}", meta.Title)
	catalog := &data.Catalog{
		ID:        id,
		Title:     meta.Title,
		AltTitles: meta.AltTitles,
		Authors:   meta.Authors,
		Path:      root,
		Volumes:   assemble(root, chapters, covers),
	}

	b.log.Info("catalog built",
		zap.String("title", catalog.Title),
		zap.Int("chapters", len(chapters)),
		zap.Int("covers", len(covers)),
		zap.Int("volumes", len(catalog.Volumes)))
	return catalog, nil
}

// resolveID returns the manga id directly or by searching, matching the
// AniList link when an AniList id was given.
func (b *Builder) resolveID(ctx context.Context, opts GetOptions) (uuid.UUID, error) {
	if opts.ID != uuid.Nil {
		return opts.ID, nil
	}

	title := opts.Title
	if title == "" {
		resolved, err := b.anilist.LookupTitle(ctx, opts.AnilistID)
		if err != nil {
			return uuid.Nil, err
		}
		title = resolved
	}

	results, err := b.source.Search(ctx, title, opts.Language)
	if err != nil {
		return uuid.Nil, err
	}
	if len(results) == 0 {
		return uuid.Nil, fmt.Errorf("no manga found for %q", title)
	}

	if opts.AnilistID != 0 {
		want := strconv.Itoa(opts.AnilistID)
		for _, result := range results {
			if result.AnilistID == want {
				return result.ID, nil
			}
		}
		return uuid.Nil, fmt.Errorf("no manga found for %q with anilist id %d", title, opts.AnilistID)
	}
	return results[0].ID, nil
}

func (b *Builder) fetchChapters(ctx context.Context, id uuid.UUID, opts GetOptions) ([]data.Chapter, error) {
	bar := b.progress("chapters", 0)
	defer bar.Finish("fetched chapters")

	var chapters []data.Chapter
	fetch := func(ctx context.Context, offset, limit int) (utils.Page[sources.ChapterData], error) {
		page, err := b.source.ListChapters(ctx, id, opts.Language, offset, limit)
		if err == nil {
			bar.SetLength(page.Total)
		}
		return page, err
	}
	err := utils.Paginate(ctx, sources.ChapterFeedLimit, fetch, func(record sources.ChapterData) error {
		bar.Increment()
		chapter, err := convertChapter(record)
		if err != nil {
			return err
		}
		// Zero-page entries are placeholders (external or duplicate
		// uploads); skip them without error.
		if chapter.Pages == 0 {
			return nil
		}
		if !keepChapter(chapter, opts) {
			return nil
		}
		chapters = append(chapters, chapter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

func (b *Builder) fetchCovers(ctx context.Context, id uuid.UUID, locale string) ([]data.Cover, error) {
	bar := b.progress("covers", 0)
	defer bar.Finish("fetched covers")

	var covers []data.Cover
	fetch := func(ctx context.Context, offset, limit int) (utils.Page[sources.CoverData], error) {
		page, err := b.source.ListCovers(ctx, id, locale, offset, limit)
		if err == nil {
			bar.SetLength(page.Total)
		}
		return page, err
	}
	err := utils.Paginate(ctx, sources.CoverListLimit, fetch, func(record sources.CoverData) error {
		bar.Increment()
		covers = append(covers, convertCover(record))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return covers, nil
}

func convertChapter(record sources.ChapterData) (data.Chapter, error) {
	if record.Chapter == "" {
		return data.Chapter{}, fmt.Errorf("chapter %s: %w", record.ID, data.ErrMissingChapterNumber)
	}
	number, sub, err := data.SplitNumber(record.Chapter)
	if err != nil {
		return data.Chapter{}, fmt.Errorf("chapter %s: %w: %q", record.ID, data.ErrInvalidChapterNumber, record.Chapter)
	}

	chapter := data.Chapter{
		ID:         record.ID,
		Title:      record.Title,
		Number:     number,
		SubChapter: sub,
		Pages:      record.Pages,
	}
	if record.Volume != "" {
		volume, _, err := data.SplitNumber(record.Volume)
		if err != nil {
			return data.Chapter{}, fmt.Errorf("chapter %s: %w: %q", record.ID, data.ErrInvalidVolumeNumber, record.Volume)
		}
		chapter.Volume = &volume
	}
	return chapter, nil
}

// convertCover parses the cover's volume tag; a malformed tag leaves the
// cover in the untagged bucket rather than failing the fetch.
func convertCover(record sources.CoverData) data.Cover {
	cover := data.Cover{ID: record.ID}
	if record.Volume != "" {
		if volume, sub, err := data.SplitNumber(record.Volume); err == nil {
			cover.Volume = &volume
			cover.SubVolume = sub
		}
	}
	return cover
}

// keepChapter applies the range filter policy: the chapter range applies to
// every chapter, and the volume range, when set, additionally requires a
// matching volume number.
func keepChapter(chapter data.Chapter, opts GetOptions) bool {
	if opts.Chapters != nil && !opts.Chapters.Contains(chapter.Number) {
		return false
	}
	if opts.Volumes != nil {
		if chapter.Volume == nil || !opts.Volumes.Contains(*chapter.Volume) {
			return false
		}
	}
	return true
}

type volumeKey struct {
	number int
	tagged bool
}

func keyOf(volume *int) volumeKey {
	if volume == nil {
		return volumeKey{}
	}
	return volumeKey{number: *volume, tagged: true}
}

// assemble derives paths, groups chapters and covers by volume and returns
// the volumes sorted ascending with the untagged bucket last. Only volume
// keys present among the kept chapters are emitted.
func assemble(root string, chapters []data.Chapter, covers []data.Cover) []data.Volume {
	coversByVolume := make(map[volumeKey][]data.Cover)
	for _, cover := range covers {
		cover.Path = filepath.Join(root, data.VolumeDirName(cover.Volume))
		key := keyOf(cover.Volume)
		coversByVolume[key] = append(coversByVolume[key], cover)
	}

	chaptersByVolume := make(map[volumeKey][]data.Chapter)
	var order []volumeKey
	for _, chapter := range chapters {
		chapter.Path = filepath.Join(root, data.VolumeDirName(chapter.Volume), chapter.DirName())
		key := keyOf(chapter.Volume)
		if _, seen := chaptersByVolume[key]; !seen {
			order = append(order, key)
		}
		chaptersByVolume[key] = append(chaptersByVolume[key], chapter)
	}

	volumes := make([]data.Volume, 0, len(order))
	for _, key := range order {
		group := chaptersByVolume[key]
		number := group[0].Volume
		volumes = append(volumes, data.Volume{
			Number:   number,
			Chapters: group,
			Covers:   coversByVolume[key],
			Path:     filepath.Join(root, data.VolumeDirName(number)),
		})
	}
	data.SortVolumes(volumes)
	return volumes
}
