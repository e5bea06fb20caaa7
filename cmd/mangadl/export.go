package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kerbaras/mangadl/pkg/data"
	"github.com/kerbaras/mangadl/pkg/integrations"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [catalog-id]",
	Short: "Export a downloaded manga as EPUB or CBZ",
	Long:  "Compile the downloaded chapters of a library entry into an .epub, or one .cbz per chapter",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		id, err := uuid.Parse(args[0])
		if err != nil {
			cobra.CheckErr(fmt.Errorf("invalid catalog id %q: %w", args[0], err))
		}

		repo := data.NewDuckDBRepository()
		catalog, err := repo.GetCatalog(id)
		cobra.CheckErr(err)
		chapters, err := repo.GetChapters(id)
		cobra.CheckErr(err)

		var downloaded []*data.ChapterRecord
		for _, chapter := range chapters {
			if chapter.Downloaded && chapter.Path != "" {
				downloaded = append(downloaded, chapter)
			}
		}
		if len(downloaded) == 0 {
			cobra.CheckErr(fmt.Errorf("no downloaded chapters for %s", catalog.Title))
		}

		switch format {
		case "epub":
			epubChapters := make([]integrations.EPubChapter, len(downloaded))
			for i, chapter := range downloaded {
				epubChapters[i] = integrations.EPubChapter{
					Title: chapterLabel(chapter),
					Path:  chapter.Path,
				}
			}
			path, err := integrations.NewEPubBuilder(output).Create(catalog.Title, catalog.Authors, epubChapters)
			cobra.CheckErr(err)
			fmt.Printf("📖 EPUB created: %s\n", path)
		case "cbz":
			for _, chapter := range downloaded {
				out := filepath.Join(output, fmt.Sprintf("%s.cbz", chapterLabel(chapter)))
				cobra.CheckErr(integrations.WriteCBZ(chapter.Path, out))
				fmt.Printf("🗜  %s\n", out)
			}
		default:
			cobra.CheckErr(fmt.Errorf("unknown format %q (want epub or cbz)", format))
		}
	},
}

func chapterLabel(chapter *data.ChapterRecord) string {
	number := fmt.Sprintf("%d", chapter.Number)
	if chapter.SubChapter != nil {
		number = fmt.Sprintf("%d.%d", chapter.Number, *chapter.SubChapter)
	}
	if chapter.Volume != nil {
		return fmt.Sprintf("Vol. %d Ch. %s", *chapter.Volume, number)
	}
	return fmt.Sprintf("Ch. %s", number)
}

func init() {
	exportCmd.Flags().StringP("format", "f", "epub", "Export format: epub or cbz")
	exportCmd.Flags().StringP("output", "o", ".", "Directory to write the export into")
}
