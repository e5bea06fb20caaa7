package sources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/utils"
)

// Page size ceilings imposed by the MangaDex API.
const (
	ChapterFeedLimit = 500
	CoverListLimit   = 10
)

type mangaAttributes struct {
	Title     map[string]string   `json:"title"`
	AltTitles []map[string]string `json:"altTitles"`
	Links     map[string]string   `json:"links"`
}

type mangaObject struct {
	ID            uuid.UUID       `json:"id"`
	Attributes    mangaAttributes `json:"attributes"`
	Relationships []struct {
		Type       string `json:"type"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"relationships"`
}

type chapterObject struct {
	ID         uuid.UUID `json:"id"`
	Attributes struct {
		Title   string `json:"title"`
		Volume  string `json:"volume"`
		Chapter string `json:"chapter"`
		Pages   int    `json:"pages"`
	} `json:"attributes"`
}

type coverObject struct {
	ID         uuid.UUID `json:"id"`
	Attributes struct {
		Volume   string `json:"volume"`
		FileName string `json:"fileName"`
	} `json:"attributes"`
	Relationships []struct {
		ID   uuid.UUID `json:"id"`
		Type string    `json:"type"`
	} `json:"relationships"`
}

type listEnvelope[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type MangaDex struct {
	api     *utils.API
	uploads *utils.API
}

func NewMangaDex() *MangaDex {
	return &MangaDex{
		api:     utils.NewAPI("https://api.mangadex.org"),
		uploads: utils.NewAPI("https://uploads.mangadex.org"),
	}
}

func (m *MangaDex) Search(ctx context.Context, title, language string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Add("availableTranslatedLanguage[]", language)

	var resp struct {
		Data []mangaObject `json:"data"`
	}
	if err := m.api.Get(ctx, "/manga", params, &resp); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	out := make([]SearchResult, len(resp.Data))
	for i, manga := range resp.Data {
		out[i] = SearchResult{
			ID:        manga.ID,
			Title:     pickTitle(manga.Attributes.Title),
			AnilistID: manga.Attributes.Links["al"],
		}
	}
	return out, nil
}

func (m *MangaDex) GetMetadata(ctx context.Context, id uuid.UUID) (*Metadata, error) {
	params := url.Values{}
	params.Add("includes[]", "author")

	var resp struct {
		Data mangaObject `json:"data"`
	}
	if err := m.api.Get(ctx, fmt.Sprintf("/manga/%s", id), params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s: %w", id, err)
	}

	meta := &Metadata{Title: pickTitle(resp.Data.Attributes.Title)}
	for _, alt := range resp.Data.Attributes.AltTitles {
		for _, title := range alt {
			meta.AltTitles = append(meta.AltTitles, title)
		}
	}
	for _, rel := range resp.Data.Relationships {
		if rel.Type == "author" && rel.Attributes.Name != "" {
			meta.Authors = append(meta.Authors, rel.Attributes.Name)
		}
	}
	return meta, nil
}

func (m *MangaDex) ListChapters(ctx context.Context, id uuid.UUID, language string, offset, limit int) (utils.Page[ChapterData], error) {
	params := url.Values{}
	params.Add("translatedLanguage[]", language)
	params.Set("offset", fmt.Sprint(offset))
	params.Set("limit", fmt.Sprint(limit))
	params.Set("order[chapter]", "asc")

	var resp listEnvelope[chapterObject]
	if err := m.api.Get(ctx, fmt.Sprintf("/manga/%s/feed", id), params, &resp); err != nil {
		return utils.Page[ChapterData]{}, fmt.Errorf("failed to fetch chapter feed for %s: %w", id, err)
	}

	items := make([]ChapterData, len(resp.Data))
	for i, ch := range resp.Data {
		items[i] = ChapterData{
			ID:      ch.ID,
			Title:   ch.Attributes.Title,
			Volume:  ch.Attributes.Volume,
			Chapter: ch.Attributes.Chapter,
			Pages:   ch.Attributes.Pages,
		}
	}
	return utils.Page[ChapterData]{Items: items, Offset: resp.Offset, Limit: resp.Limit, Total: resp.Total}, nil
}

func (m *MangaDex) ListCovers(ctx context.Context, id uuid.UUID, locale string, offset, limit int) (utils.Page[CoverData], error) {
	params := url.Values{}
	params.Add("manga[]", id.String())
	params.Add("locales[]", locale)
	params.Set("offset", fmt.Sprint(offset))
	params.Set("limit", fmt.Sprint(limit))

	var resp listEnvelope[coverObject]
	if err := m.api.Get(ctx, "/cover", params, &resp); err != nil {
		return utils.Page[CoverData]{}, fmt.Errorf("failed to fetch covers for %s: %w", id, err)
	}

	items := make([]CoverData, len(resp.Data))
	for i, cover := range resp.Data {
		items[i] = CoverData{
			ID:       cover.ID,
			Volume:   cover.Attributes.Volume,
			FileName: cover.Attributes.FileName,
		}
	}
	return utils.Page[CoverData]{Items: items, Offset: resp.Offset, Limit: resp.Limit, Total: resp.Total}, nil
}

func (m *MangaDex) GetPages(ctx context.Context, chapterID uuid.UUID) ([]PageRef, error) {
	var resp struct {
		BaseURL string `json:"baseUrl"`
		Chapter struct {
			Hash string   `json:"hash"`
			Data []string `json:"data"`
		} `json:"chapter"`
	}
	if err := m.api.Get(ctx, fmt.Sprintf("/at-home/server/%s", chapterID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to resolve pages for chapter %s: %w", chapterID, err)
	}

	pages := make([]PageRef, len(resp.Chapter.Data))
	for i, file := range resp.Chapter.Data {
		pages[i] = PageRef{
			FileName: file,
			URL:      fmt.Sprintf("%s/data/%s/%s", resp.BaseURL, resp.Chapter.Hash, file),
		}
	}
	return pages, nil
}

func (m *MangaDex) DownloadPage(ctx context.Context, page PageRef) ([]byte, error) {
	return m.api.Fetch(ctx, page.URL)
}

func (m *MangaDex) DownloadCover(ctx context.Context, coverID uuid.UUID) (string, []byte, error) {
	var resp struct {
		Data coverObject `json:"data"`
	}
	if err := m.api.Get(ctx, fmt.Sprintf("/cover/%s", coverID), nil, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to resolve cover %s: %w", coverID, err)
	}

	var mangaID uuid.UUID
	for _, rel := range resp.Data.Relationships {
		if rel.Type == "manga" {
			mangaID = rel.ID
			break
		}
	}
	if mangaID == uuid.Nil {
		return "", nil, fmt.Errorf("cover %s has no manga relationship", coverID)
	}

	fileName := resp.Data.Attributes.FileName
	bytes, err := m.uploads.Fetch(ctx, fmt.Sprintf("%s/covers/%s/%s", m.uploads.BaseURL(), mangaID, fileName))
	if err != nil {
		return "", nil, fmt.Errorf("failed to download cover %s: %w", coverID, err)
	}
	return fileName, bytes, nil
}

// pickTitle prefers the English title and falls back to any available one.
func pickTitle(titles map[string]string) string {
	if title, ok := titles["en"]; ok {
		return title
	}
	for _, title := range titles {
		return title
	}
	return ""
}
