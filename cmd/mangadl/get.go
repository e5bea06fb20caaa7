package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/data"
	"github.com/kerbaras/mangadl/pkg/integrations"
	"github.com/kerbaras/mangadl/pkg/intrange"
	"github.com/kerbaras/mangadl/pkg/services"
	"github.com/kerbaras/mangadl/pkg/sources"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [title]",
	Short: "Download a manga",
	Long:  "Fetch the chapter feed, filter it by the given ranges, and download every kept chapter (and optionally volume covers) to disk",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		idFlag, _ := cmd.Flags().GetString("id")
		anilistID, _ := cmd.Flags().GetInt("anilist-id")
		language, _ := cmd.Flags().GetString("language")
		coverLanguage, _ := cmd.Flags().GetString("cover-language")
		chaptersFlag, _ := cmd.Flags().GetString("chapters")
		volumesFlag, _ := cmd.Flags().GetString("volumes")
		output, _ := cmd.Flags().GetString("output")
		optimize, _ := cmd.Flags().GetBool("optimize")
		noLibrary, _ := cmd.Flags().GetBool("no-library")

		opts := services.GetOptions{
			AnilistID:     anilistID,
			Language:      language,
			CoverLanguage: coverLanguage,
			Output:        output,
		}
		if len(args) > 0 {
			opts.Title = args[0]
		}
		if idFlag != "" {
			id, err := uuid.Parse(idFlag)
			if err != nil {
				cobra.CheckErr(fmt.Errorf("invalid manga id %q: %w", idFlag, err))
			}
			opts.ID = id
		}
		if chaptersFlag != "" {
			r, err := intrange.Parse(chaptersFlag)
			if err != nil {
				cobra.CheckErr(fmt.Errorf("invalid --chapters range: %w", err))
			}
			opts.Chapters = &r
		}
		if volumesFlag != "" {
			r, err := intrange.Parse(volumesFlag)
			if err != nil {
				cobra.CheckErr(fmt.Errorf("invalid --volumes range: %w", err))
			}
			opts.Volumes = &r
		}

		ctx := context.Background()
		source := sources.NewMangaDex()

		builder := services.NewBuilder(source, logger)
		builder.SetProgress(newProgressBar)
		catalog, err := builder.Get(ctx, opts)
		cobra.CheckErr(err)

		chapterCount := 0
		for _, volume := range catalog.Volumes {
			chapterCount += len(volume.Chapters)
		}
		fmt.Printf("📚 %s: %d chapters over %d volumes\n", catalog.Title, chapterCount, len(catalog.Volumes))

		var repo *data.Repository
		if !noLibrary {
			repo = data.NewDuckDBRepository()
			cobra.CheckErr(saveCatalog(repo, catalog, "downloading"))
		}

		downloader := services.NewDownloader(source, logger)
		downloader.SetProgress(newProgressBar)
		if repo != nil {
			downloader.SetLibrary(repo)
		}
		if optimize {
			downloader.SetProcessor(integrations.NewOptimizer(integrations.DefaultEReaderSettings()))
		}

		if err := downloader.Download(ctx, catalog); err != nil {
			if repo != nil {
				saveStatus(repo, catalog, "error")
			}
			cobra.CheckErr(fmt.Errorf("download failed: %w", err))
		}
		if repo != nil {
			cobra.CheckErr(saveStatus(repo, catalog, "completed"))
		}

		fmt.Printf("✅ Downloaded to %s\n", catalog.Path)
	},
}

func saveCatalog(repo *data.Repository, catalog *data.Catalog, status string) error {
	if err := saveStatus(repo, catalog, status); err != nil {
		return err
	}
	for _, volume := range catalog.Volumes {
		for _, chapter := range volume.Chapters {
			record := &data.ChapterRecord{
				ID:         chapter.ID,
				CatalogID:  catalog.ID,
				Volume:     chapter.Volume,
				Number:     chapter.Number,
				SubChapter: chapter.SubChapter,
				Title:      chapter.Title,
				Pages:      chapter.Pages,
				Path:       chapter.Path,
			}
			if err := repo.SaveChapter(record); err != nil {
				return err
			}
		}
	}
	return nil
}

func saveStatus(repo *data.Repository, catalog *data.Catalog, status string) error {
	return repo.SaveCatalog(&data.CatalogRecord{
		ID:      catalog.ID,
		Title:   catalog.Title,
		Authors: catalog.Authors,
		Path:    catalog.Path,
		Status:  status,
	})
}

func init() {
	getCmd.Flags().String("id", "", "MangaDex manga id (skips the title search)")
	getCmd.Flags().Int("anilist-id", 0, "AniList id used to pick the right search result")
	getCmd.Flags().StringP("language", "l", "en", "Translated language of the chapter feed")
	getCmd.Flags().String("cover-language", "", "Cover locale; covers are not downloaded when unset")
	getCmd.Flags().StringP("chapters", "c", "", "Chapter range, e.g. 5..10, ..=20, 48..")
	getCmd.Flags().StringP("volumes", "v", "", "Volume range, same syntax as --chapters")
	getCmd.Flags().StringP("output", "o", "./{title}", "Output root; {title} is replaced with the manga title")
	getCmd.Flags().Bool("optimize", false, "Resize and grayscale pages for e-readers")
	getCmd.Flags().Bool("no-library", false, "Do not record the download in the local library")
}
