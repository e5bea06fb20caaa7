package sources

import (
	"context"
	"fmt"

	"github.com/kerbaras/mangadl/pkg/utils"
)

const anilistTitleQuery = `
query ($id: Int) {
  Media (id: $id, type: MANGA) {
    title {
      english
    }
  }
}
`

// AniList resolves AniList media ids to titles, used to disambiguate
// search results when the user supplies an AniList id.
type AniList struct {
	api *utils.API
}

func NewAniList() *AniList {
	return &AniList{api: utils.NewAPI("https://graphql.anilist.co")}
}

// LookupTitle returns the English title for an AniList manga id.
func (a *AniList) LookupTitle(ctx context.Context, id int) (string, error) {
	body := map[string]any{
		"query":     anilistTitleQuery,
		"variables": map[string]any{"id": id},
	}

	var resp struct {
		Data struct {
			Media struct {
				Title struct {
					English string `json:"english"`
				} `json:"title"`
			} `json:"Media"`
		} `json:"data"`
	}
	if err := a.api.Post(ctx, "/", body, &resp); err != nil {
		return "", fmt.Errorf("anilist lookup for %d failed: %w", id, err)
	}
	if resp.Data.Media.Title.English == "" {
		return "", fmt.Errorf("anilist media %d has no english title", id)
	}
	return resp.Data.Media.Title.English, nil
}
