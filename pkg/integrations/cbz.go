package integrations

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// WriteCBZ packs the image files of one chapter directory into a .cbz
// archive at out, pages in filename order.
func WriteCBZ(dir, out string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read chapter directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isImageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(names)

	output, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create cbz file: %w", err)
	}
	defer output.Close()

	archive := zip.NewWriter(output)
	for _, name := range names {
		w, err := archive.Create(name)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		if err := copyFileTo(w, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
	}
	return archive.Close()
}

func copyFileTo(dst io.Writer, name string) error {
	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}
