package data

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestSplitNumber(t *testing.T) {
	tests := []struct {
		in      string
		number  int
		sub     *int
		wantErr bool
	}{
		{in: "10", number: 10},
		{in: "0", number: 0},
		{in: "10.5", number: 10, sub: intp(5)},
		{in: "101.1", number: 101, sub: intp(1)},
		{in: "10.0", number: 10},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "10.x", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			number, sub, err := SplitNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.sub, sub)
		})
	}
}

func TestVolumeDirName(t *testing.T) {
	assert.Equal(t, "Vol. 3", VolumeDirName(intp(3)))
	assert.Equal(t, "Vol. None", VolumeDirName(nil))
}

func TestChapterDirName(t *testing.T) {
	ch := Chapter{Number: 12, Title: "The Promise"}
	assert.Equal(t, "Ch. 12 - The Promise", ch.DirName())

	ch = Chapter{Number: 10, SubChapter: intp(5), Title: "Interlude"}
	assert.Equal(t, "Ch. 10.5 - Interlude", ch.DirName())

	ch = Chapter{Number: 7}
	assert.Equal(t, "Ch. 7", ch.DirName())

	ch = Chapter{Number: 7, SubChapter: intp(1)}
	assert.Equal(t, "Ch. 7.1", ch.DirName())
}

func TestSortVolumes(t *testing.T) {
	volumes := []Volume{
		{Number: nil},
		{Number: intp(2)},
		{Number: intp(10)},
		{Number: intp(1)},
	}
	SortVolumes(volumes)

	require.Len(t, volumes, 4)
	assert.Equal(t, intp(1), volumes[0].Number)
	assert.Equal(t, intp(2), volumes[1].Number)
	assert.Equal(t, intp(10), volumes[2].Number)
	assert.Nil(t, volumes[3].Number)
}

func TestPageFileName(t *testing.T) {
	assert.Equal(t, "01.png", PageFileName("x1-abcdef.png", 1, 24))
	assert.Equal(t, "24.jpg", PageFileName("last.jpg", 24, 24))
	assert.Equal(t, "007.webp", PageFileName("p.webp", 7, 123))
	assert.Equal(t, "3.gif", PageFileName("p.gif", 3, 9))
	assert.Equal(t, "05", PageFileName("noext", 5, 10))
}

func TestCoverFileName(t *testing.T) {
	assert.Equal(t, "cover0.jpg", CoverFileName("volume1-cover.jpg", 0))
	assert.Equal(t, "cover2", CoverFileName("bare", 2))
}

func TestCatalogAggregates(t *testing.T) {
	id := uuid.New()
	catalog := Catalog{ID: id, Title: "Test", Volumes: []Volume{{Number: intp(1)}}}
	assert.Equal(t, id, catalog.ID)
	assert.Len(t, catalog.Volumes, 1)
}
