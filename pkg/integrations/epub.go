package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-shiori/go-epub"
)

// EPubChapter is one downloaded chapter directory to compile into the book.
type EPubChapter struct {
	Title string
	Path  string
}

// EPubBuilder compiles downloaded chapter image trees into a single EPUB.
type EPubBuilder struct {
	outputDir string
}

func NewEPubBuilder(outputDir string) *EPubBuilder {
	return &EPubBuilder{outputDir: outputDir}
}

// Create writes <title>.epub into the output directory, one section per
// chapter, pages in filename order. Chapters are expected pre-sorted.
func (b *EPubBuilder) Create(title string, authors []string, chapters []EPubChapter) (string, error) {
	if len(chapters) == 0 {
		return "", fmt.Errorf("no chapters to compile")
	}

	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create epub: %w", err)
	}
	if len(authors) > 0 {
		e.SetAuthor(strings.Join(authors, ", "))
	}
	e.SetLang("en")

	for _, chapter := range chapters {
		if err := b.addChapter(e, chapter); err != nil {
			return "", fmt.Errorf("failed to add %s: %w", chapter.Title, err)
		}
	}

	outputPath := filepath.Join(b.outputDir, sanitizeFilename(title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write epub: %w", err)
	}
	return outputPath, nil
}

func (b *EPubBuilder) addChapter(e *epub.Epub, chapter EPubChapter) error {
	files, err := os.ReadDir(chapter.Path)
	if err != nil {
		return fmt.Errorf("failed to read chapter directory: %w", err)
	}

	var imageFiles []os.DirEntry
	for _, file := range files {
		if !file.IsDir() && isImageFile(file.Name()) {
			imageFiles = append(imageFiles, file)
		}
	}
	if len(imageFiles) == 0 {
		return fmt.Errorf("no images found in %s", chapter.Path)
	}
	sort.Slice(imageFiles, func(i, j int) bool {
		return imageFiles[i].Name() < imageFiles[j].Name()
	})

	var htmlContent strings.Builder
	htmlContent.WriteString(fmt.Sprintf("<h1>%s</h1>\n", chapter.Title))
	for i, imgFile := range imageFiles {
		internalPath, err := e.AddImage(filepath.Join(chapter.Path, imgFile.Name()), "")
		if err != nil {
			return fmt.Errorf("failed to add image %s: %w", imgFile.Name(), err)
		}
		htmlContent.WriteString(fmt.Sprintf(
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
			internalPath, i+1, "\n",
		))
	}

	if _, err := e.AddSection(htmlContent.String(), chapter.Title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

func isImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

// sanitizeFilename removes characters that are invalid in filenames.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	return strings.Trim(result, ".")
}
