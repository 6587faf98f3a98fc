// Package grobid enthält den Client für den GROBID-Service, der PDF-Header in
// strukturierte TEI-Dokumente zerlegt.
package grobid

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"paper-ingest/models"
)

var (
	// Kurzer Timeout für den Liveness-Check, langer für die Verarbeitung.
	livenessClient   = &http.Client{Timeout: 2 * time.Second}
	processingClient = &http.Client{Timeout: 30 * time.Second}
)

// Client kapselt die Interaktion mit einer GROBID-Instanz.
type Client struct {
	BaseURL string
	Logger  *zap.Logger
}

// NewClient erstellt einen neuen GROBID-Client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{BaseURL: baseURL, Logger: logger}
}

// IsAlive prüft den Liveness-Endpunkt. Jeder Netzwerkfehler, Timeout oder
// Nicht-Erfolgs-Status zählt als "nicht verfügbar" und wird nie als Fehler
// nach oben gereicht.
func (c *Client) IsAlive() bool {
	resp, err := livenessClient.Get(c.BaseURL + "/api/isalive")
	if err != nil {
		c.Logger.Debug("GROBID-Liveness-Check fehlgeschlagen", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ProcessHeader lädt die PDF als Multipart-Form hoch und parst die
// TEI-Antwort in einen Metadata-Record. Transportfehler, Nicht-Erfolgs-Status
// und nicht parsebare Antworten ergeben nil, der Aufrufer fällt dann auf die
// heuristische Extraktion zurück.
func (c *Client) ProcessHeader(pdfPath string) *models.Metadata {
	log := c.Logger.With(zap.String("file", pdfPath))

	body, contentType, err := buildUpload(pdfPath)
	if err != nil {
		log.Warn("Konnte Multipart-Upload nicht bauen", zap.Error(err))
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/processHeaderDocument", body)
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/xml")

	resp, err := processingClient.Do(req)
	if err != nil {
		log.Warn("GROBID-Anfrage fehlgeschlagen", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("GROBID hat Nicht-Erfolgs-Status zurückgegeben", zap.Int("status", resp.StatusCode))
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("Konnte GROBID-Antwort nicht lesen", zap.Error(err))
		return nil
	}

	root, err := ParseTEI(data)
	if err != nil {
		log.Warn("GROBID-Antwort ist kein wohlgeformtes XML", zap.Error(err))
		return nil
	}

	return metadataFromTEI(root)
}

// buildUpload baut den Multipart-Body mit dem PDF-Inhalt im Feld "input" und
// consolidateHeader=1.
func buildUpload(pdfPath string) (io.Reader, string, error) {
	file, err := os.Open(pdfPath)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("input", filepath.Base(pdfPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("consolidateHeader", "1"); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
