package data

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalogs (
	id VARCHAR PRIMARY KEY,
	title VARCHAR NOT NULL,
	authors VARCHAR,
	path VARCHAR,
	status VARCHAR
);
CREATE TABLE IF NOT EXISTS chapters (
	id VARCHAR PRIMARY KEY,
	catalog_id VARCHAR NOT NULL,
	volume INTEGER,
	number INTEGER NOT NULL,
	sub_chapter INTEGER,
	title VARCHAR,
	pages INTEGER NOT NULL,
	downloaded BOOLEAN DEFAULT FALSE,
	path VARCHAR
);
`

func InitDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// Repository is the local download library backed by DuckDB.
type Repository struct {
	db *sql.DB
}

var duckDB *sql.DB

func NewDuckDBRepository() *Repository {
	if duckDB == nil {
		db, err := InitDuckDB("mangadl.db")
		if err != nil {
			log.Fatal(err)
		}
		duckDB = db
	}
	return &Repository{db: duckDB}
}

// CatalogRecord is one library row for a downloaded title.
type CatalogRecord struct {
	ID      uuid.UUID
	Title   string
	Authors []string
	Path    string
	Status  string // "downloading", "completed", "error"
}

// ChapterRecord is one library row for a chapter of a catalog.
type ChapterRecord struct {
	ID         uuid.UUID
	CatalogID  uuid.UUID
	Volume     *int
	Number     int
	SubChapter *int
	Title      string
	Pages      int
	Downloaded bool
	Path       string
}

func (r *Repository) SaveCatalog(rec *CatalogRecord) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO catalogs (id, title, authors, path, status)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Title, strings.Join(rec.Authors, ", "), rec.Path, rec.Status)
	if err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", rec.ID, err)
	}
	return nil
}

func (r *Repository) GetCatalog(id uuid.UUID) (*CatalogRecord, error) {
	row := r.db.QueryRow(`SELECT id, title, authors, path, status FROM catalogs WHERE id = ?`, id.String())
	return scanCatalog(row)
}

func (r *Repository) ListCatalogs() ([]*CatalogRecord, error) {
	rows, err := r.db.Query(`SELECT id, title, authors, path, status FROM catalogs ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CatalogRecord
	for rows.Next() {
		rec, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteCatalog(id uuid.UUID) error {
	if _, err := r.db.Exec(`DELETE FROM chapters WHERE catalog_id = ?`, id.String()); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM catalogs WHERE id = ?`, id.String())
	return err
}

func (r *Repository) SaveChapter(rec *ChapterRecord) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO chapters (id, catalog_id, volume, number, sub_chapter, title, pages, downloaded, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CatalogID.String(), nullableInt(rec.Volume), rec.Number,
		nullableInt(rec.SubChapter), rec.Title, rec.Pages, rec.Downloaded, rec.Path)
	if err != nil {
		return fmt.Errorf("failed to save chapter %s: %w", rec.ID, err)
	}
	return nil
}

func (r *Repository) GetChapters(catalogID uuid.UUID) ([]*ChapterRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, catalog_id, volume, number, sub_chapter, title, pages, downloaded, path
		FROM chapters WHERE catalog_id = ?
		ORDER BY volume NULLS LAST, number, sub_chapter NULLS FIRST`, catalogID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ChapterRecord
	for rows.Next() {
		var rec ChapterRecord
		var id, cid string
		var volume, sub sql.NullInt64
		var title, path sql.NullString
		if err := rows.Scan(&id, &cid, &volume, &rec.Number, &sub, &title, &rec.Pages, &rec.Downloaded, &path); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if rec.CatalogID, err = uuid.Parse(cid); err != nil {
			return nil, err
		}
		rec.Volume = intFromNull(volume)
		rec.SubChapter = intFromNull(sub)
		rec.Title = title.String
		rec.Path = path.String
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *Repository) MarkChapterDownloaded(chapterID uuid.UUID, path string) error {
	_, err := r.db.Exec(`UPDATE chapters SET downloaded = TRUE, path = ? WHERE id = ?`, path, chapterID.String())
	if err != nil {
		return fmt.Errorf("failed to update chapter %s: %w", chapterID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalog(row rowScanner) (*CatalogRecord, error) {
	var rec CatalogRecord
	var id string
	var authors, path, status sql.NullString
	if err := row.Scan(&id, &rec.Title, &authors, &path, &status); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	rec.ID = parsed
	if authors.String != "" {
		rec.Authors = strings.Split(authors.String, ", ")
	}
	rec.Path = path.String
	rec.Status = status.String
	return &rec, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
