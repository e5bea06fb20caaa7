package data

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Catalog is the fetched, filtered and grouped result for one title.
// It is assembled once and only read afterwards.
type Catalog struct {
	ID        uuid.UUID
	Title     string
	AltTitles []string
	Authors   []string
	Volumes   []Volume
	Path      string
}

// Volume groups the chapters and covers that share one (optional) volume
// number. A nil Number is its own bucket for chapters without a volume tag.
type Volume struct {
	Number   *int
	Chapters []Chapter
	Covers   []Cover
	Path     string
}

type Chapter struct {
	ID         uuid.UUID
	Title      string
	Volume     *int
	Number     int
	SubChapter *int
	Pages      int
	Path       string
}

type Cover struct {
	ID        uuid.UUID
	Volume    *int
	SubVolume *int
	Path      string
}

// SplitNumber parses a chapter/volume number like "10" or "10.5" into its
// integer part and, for fractional numbers, the first decimal digit.
func SplitNumber(s string) (int, *int, error) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseUint(intPart, 10, 32)
	if err != nil {
		return 0, nil, err
	}
	if hasFrac && fracPart != "" {
		f, err := strconv.ParseUint(fracPart, 10, 32)
		if err != nil {
			return 0, nil, err
		}
		if f > 0 {
			sub := int(fracPart[0] - '0')
			return int(n), &sub, nil
		}
	}
	return int(n), nil, nil
}

// VolumeDirName is the directory segment for a volume bucket, with "None"
// standing in for chapters that carry no volume number.
func VolumeDirName(volume *int) string {
	if volume == nil {
		return "Vol. None"
	}
	return fmt.Sprintf("Vol. %d", *volume)
}

// DirName is the chapter directory segment: "Ch. {n}[.{sub}][ - {title}]".
func (c *Chapter) DirName() string {
	if c.Title == "" {
		return fmt.Sprintf("Ch. %s", c.NumberString())
	}
	return fmt.Sprintf("Ch. %s - %s", c.NumberString(), c.Title)
}

// NumberString renders the chapter number including any sub-chapter digit.
func (c *Chapter) NumberString() string {
	if c.SubChapter != nil {
		return fmt.Sprintf("%d.%d", c.Number, *c.SubChapter)
	}
	return strconv.Itoa(c.Number)
}

// SortVolumes orders volumes ascending by number with the nil-numbered
// bucket last.
func SortVolumes(volumes []Volume) {
	sort.SliceStable(volumes, func(i, j int) bool {
		vi, vj := volumes[i].Number, volumes[j].Number
		switch {
		case vi == nil:
			return false
		case vj == nil:
			return true
		default:
			return *vi < *vj
		}
	})
}

// PageFileName derives the zero-padded on-disk name for one page, keeping
// the extension of the remote filename. Ordinals start at 1 and are padded
// to the width of the total page count.
func PageFileName(remoteName string, index, pages int) string {
	width := len(strconv.Itoa(pages))
	name := fmt.Sprintf("%0*d", width, index)
	if ext := filepath.Ext(remoteName); ext != "" {
		name += ext
	}
	return name
}

// CoverFileName derives the on-disk name for a volume cover, keeping the
// extension of the remote filename.
func CoverFileName(remoteName string, index int) string {
	name := fmt.Sprintf("cover%d", index)
	if ext := filepath.Ext(remoteName); ext != "" {
		name += ext
	}
	return name
}
