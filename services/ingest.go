// Package services orchestriert den Ingestion-Lauf: PDF-Discovery, die
// zweistufige Metadaten-Extraktion und das Schreiben in die Datenbank.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paper-ingest/config"
	"paper-ingest/extract"
	"paper-ingest/models"
	"paper-ingest/pdftext"
	"paper-ingest/providers/grobid"
	"paper-ingest/storage"
)

// Options steuern einen einzelnen Ingestion-Lauf.
type Options struct {
	Recursive     bool
	DryRun        bool
	DisableGrobid bool
}

// Summary fasst einen Lauf zusammen.
type Summary struct {
	Processed  int
	Structured int
	Fallback   int
}

// IngestService kümmert sich um die Orchestrierung des gesamten
// Ingestion-Prozesses. DB darf im Dry-Run nil sein.
type IngestService struct {
	Config *config.Config
	DB     *gorm.DB
	Grobid *grobid.Client
	Logger *zap.Logger
}

// NewIngestService erstellt eine neue Instanz des IngestService.
func NewIngestService(cfg *config.Config, db *gorm.DB, client *grobid.Client, logger *zap.Logger) *IngestService {
	return &IngestService{Config: cfg, DB: db, Grobid: client, Logger: logger}
}

// Run verarbeitet alle PDFs unterhalb von dir sequenziell in
// Discovery-Reihenfolge. Die GROBID-Verfügbarkeit wird einmal pro Batch
// geprüft und für alle Dokumente wiederverwendet; fällt der Service mitten im
// Batch aus, greift pro Dokument stillschweigend der heuristische Fallback.
// Alle Upserts laufen in einer Transaktion, die am Ende einmal committet wird.
func (s *IngestService) Run(ctx context.Context, dir string, opts Options) (Summary, error) {
	var summary Summary

	pdfFiles, err := DiscoverPDFs(dir, opts.Recursive)
	if err != nil {
		return summary, fmt.Errorf("pdf discovery fehlgeschlagen: %w", err)
	}
	if len(pdfFiles) == 0 {
		s.Logger.Info("Keine PDF-Dateien gefunden.", zap.String("directory", dir))
		return summary, nil
	}

	useGrobid := false
	if !opts.DisableGrobid && s.Grobid.IsAlive() {
		useGrobid = true
	}
	s.Logger.Info("Starte Ingestion-Lauf",
		zap.String("directory", dir),
		zap.Int("pdf_count", len(pdfFiles)),
		zap.Bool("grobid_available", useGrobid))

	var tx *gorm.DB
	if !opts.DryRun {
		tx = s.DB.Begin()
		if tx.Error != nil {
			return summary, fmt.Errorf("transaktion konnte nicht geöffnet werden: %w", tx.Error)
		}
	}

	for _, pdfPath := range pdfFiles {
		if err := ctx.Err(); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			return summary, err
		}

		metadata := s.extractDocument(pdfPath, useGrobid, &summary)
		summary.Processed++

		if opts.DryRun {
			printDryRun(pdfPath, metadata)
			continue
		}

		if err := storage.UpsertPaper(tx, models.NewPaper(pdfPath, metadata)); err != nil {
			tx.Rollback()
			return summary, fmt.Errorf("upsert für %s fehlgeschlagen: %w", pdfPath, err)
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return summary, fmt.Errorf("commit fehlgeschlagen: %w", err)
		}
	}

	s.Logger.Info("Ingestion-Lauf abgeschlossen",
		zap.Int("processed", summary.Processed),
		zap.Int("structured", summary.Structured),
		zap.Int("fallback", summary.Fallback))
	return summary, nil
}

// extractDocument führt die zweistufige Extraktion für ein Dokument aus.
// Der Rohtext wird immer gezogen, da der Snippet unabhängig vom gewählten
// Extraktionspfad aus ihm stammt. Der heuristische Fallback greift nur, wenn
// der GROBID-Aufruf selbst nichts liefert. Ein wohlgeformtes, aber leeres
// Service-Ergebnis wird unverändert übernommen.
func (s *IngestService) extractDocument(pdfPath string, useGrobid bool, summary *Summary) *models.Metadata {
	text := pdftext.Extract(pdfPath, s.Config.TextMaxPages)

	var metadata *models.Metadata
	if useGrobid {
		metadata = s.Grobid.ProcessHeader(pdfPath)
	}
	if metadata != nil {
		summary.Structured++
	} else {
		metadata = extract.FromText(text)
		summary.Fallback++
	}

	metadata.RawTextSnippet = extract.Snippet(text)
	return metadata
}

// DiscoverPDFs sammelt alle .pdf-Dateien des Verzeichnisses, optional
// rekursiv, in stabiler lexikalischer Reihenfolge.
func DiscoverPDFs(dir string, recursive bool) ([]string, error) {
	var paths []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(path) {
				paths = append(paths, path)
			}
			return nil
		})
		return paths, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() && isPDF(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func printDryRun(pdfPath string, metadata *models.Metadata) {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		encoded = []byte("{}")
	}
	fmt.Printf("[DRY RUN] %s -> %s\n", filepath.Base(pdfPath), encoded)
}
