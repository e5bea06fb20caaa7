package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/data"
	"github.com/kerbaras/mangadl/pkg/sources"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pageFanout bounds the number of in-flight page downloads per chapter.
const pageFanout = 5

// Library is the subset of the repository the downloader needs to record
// completed chapters. A nil Library disables recording.
type Library interface {
	MarkChapterDownloaded(chapterID uuid.UUID, path string) error
}

// PageProcessor transforms page bytes before they are written, e.g. the
// e-reader image optimizer.
type PageProcessor interface {
	Process(image []byte) ([]byte, error)
}

// Downloader materializes a built Catalog to disk. Volumes and covers are
// walked sequentially; pages of a chapter download with a bounded fan-out.
type Downloader struct {
	source    sources.Source
	library   Library
	processor PageProcessor
	progress  ProgressFactory
	log       *zap.Logger
}

func NewDownloader(source sources.Source, logger *zap.Logger) *Downloader {
	return &Downloader{
		source:   source,
		progress: NopProgress,
		log:      logger,
	}
}

func (d *Downloader) SetLibrary(library Library)           { d.library = library }
func (d *Downloader) SetProcessor(processor PageProcessor) { d.processor = processor }
func (d *Downloader) SetProgress(factory ProgressFactory)  { d.progress = factory }

// Download walks the catalog top to bottom. The first failing cover, page
// or write aborts the run; files already written are left in place.
func (d *Downloader) Download(ctx context.Context, catalog *data.Catalog) error {
	bar := d.progress("volumes", len(catalog.Volumes))
	for i := range catalog.Volumes {
		volume := &catalog.Volumes[i]
		if err := d.downloadVolume(ctx, volume); err != nil {
			return fmt.Errorf("failed to download %s: %w", data.VolumeDirName(volume.Number), err)
		}
		bar.Increment()
	}
	bar.Finish("downloaded volumes")
	return nil
}

func (d *Downloader) downloadVolume(ctx context.Context, volume *data.Volume) error {
	d.log.Debug("downloading volume",
		zap.String("volume", data.VolumeDirName(volume.Number)),
		zap.Int("chapters", len(volume.Chapters)),
		zap.Int("covers", len(volume.Covers)))

	for index, cover := range volume.Covers {
		if err := d.downloadCover(ctx, &cover, index); err != nil {
			return err
		}
	}

	for i := range volume.Chapters {
		chapter := &volume.Chapters[i]
		if err := d.downloadChapter(ctx, chapter); err != nil {
			return fmt.Errorf("chapter %s (%s): %w", chapter.NumberString(), chapter.ID, err)
		}
	}
	return nil
}

func (d *Downloader) downloadCover(ctx context.Context, cover *data.Cover, index int) error {
	remoteName, payload, err := d.source.DownloadCover(ctx, cover.ID)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return fmt.Errorf("cover %s: %w", cover.ID, data.ErrMissingPayload)
	}

	if err := os.MkdirAll(cover.Path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", cover.Path, err)
	}
	target := filepath.Join(cover.Path, data.CoverFileName(remoteName, index))
	if err := os.WriteFile(target, payload, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	d.log.Debug("wrote cover", zap.String("path", target))
	return nil
}

func (d *Downloader) downloadChapter(ctx context.Context, chapter *data.Chapter) error {
	pages, err := d.source.GetPages(ctx, chapter.ID)
	if err != nil {
		return err
	}

	bar := d.progress(fmt.Sprintf("Ch. %s", chapter.NumberString()), len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageFanout)
	for i, page := range pages {
		ordinal := i + 1
		g.Go(func() error {
			if err := d.downloadPage(gctx, chapter, page, ordinal, len(pages)); err != nil {
				return fmt.Errorf("page %d: %w", ordinal, err)
			}
			bar.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	bar.Finish(fmt.Sprintf("downloaded Ch. %s", chapter.NumberString()))

	if d.library != nil {
		if err := d.library.MarkChapterDownloaded(chapter.ID, chapter.Path); err != nil {
			return fmt.Errorf("failed to record chapter: %w", err)
		}
	}
	return nil
}

func (d *Downloader) downloadPage(ctx context.Context, chapter *data.Chapter, page sources.PageRef, ordinal, total int) error {
	payload, err := d.source.DownloadPage(ctx, page)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return data.ErrMissingPayload
	}

	if d.processor != nil {
		payload, err = d.processor.Process(payload)
		if err != nil {
			return fmt.Errorf("failed to process image: %w", err)
		}
	}

	// MkdirAll is idempotent, so racing page tasks are fine here.
	if err := os.MkdirAll(chapter.Path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", chapter.Path, err)
	}
	target := filepath.Join(chapter.Path, data.PageFileName(page.FileName, ordinal, total))
	if err := os.WriteFile(target, payload, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}
