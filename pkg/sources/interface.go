package sources

import (
	"context"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/utils"
)

// SearchResult is one hit from a title search.
type SearchResult struct {
	ID        uuid.UUID
	Title     string
	AnilistID string
}

// Metadata is the title-level information needed to lay out a download.
type Metadata struct {
	Title     string
	AltTitles []string
	Authors   []string
}

// ChapterData is one raw chapter record from the paginated feed. Volume and
// Chapter stay textual here; parsing them is the catalog builder's job.
type ChapterData struct {
	ID      uuid.UUID
	Title   string
	Volume  string
	Chapter string
	Pages   int
}

// CoverData is one raw cover record from the paginated cover list.
type CoverData struct {
	ID       uuid.UUID
	Volume   string
	FileName string
}

// PageRef points at one downloadable page image.
type PageRef struct {
	FileName string
	URL      string
}

// Source is the remote catalog the pipeline reads from. All calls are
// synchronous and fail-fast; there is no retry layer.
type Source interface {
	Search(ctx context.Context, title, language string) ([]SearchResult, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*Metadata, error)
	ListChapters(ctx context.Context, id uuid.UUID, language string, offset, limit int) (utils.Page[ChapterData], error)
	ListCovers(ctx context.Context, id uuid.UUID, locale string, offset, limit int) (utils.Page[CoverData], error)
	GetPages(ctx context.Context, chapterID uuid.UUID) ([]PageRef, error)
	DownloadPage(ctx context.Context, page PageRef) ([]byte, error)
	DownloadCover(ctx context.Context, coverID uuid.UUID) (string, []byte, error)
}
