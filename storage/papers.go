// Package storage enthält den Schreibpfad in die papers-Tabelle.
package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paper-ingest/models"
)

// upsertColumns sind alle Spalten, die bei einem Konflikt überschrieben
// werden, auch mit NULL. Ein Feld-Merge mit dem Altbestand findet nicht statt.
var upsertColumns = []string{
	"title", "document_type", "publication_date", "journal_title",
	"book_title", "publisher", "authors", "affiliations", "countries",
	"abstract", "year", "keywords", "raw_text_snippet",
	"processed_at", "updated_at",
}

// UpsertPaper schreibt einen Record per Insert-or-Update, geschlüsselt auf
// file_path. db darf eine offene Transaktion sein; committet wird beim
// Aufrufer.
func UpsertPaper(db *gorm.DB, paper *models.Paper) error {
	paper.ProcessedAt = time.Now()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_path"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(paper).Error
}
