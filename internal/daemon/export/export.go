// Package export indexes status snapshots into Elasticsearch.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/botboard-io/botboard/internal/models"
)

// IndexTimeout bounds a single index request.
const IndexTimeout = 5 * time.Second

// Document is one indexed bot status.
type Document struct {
	Timestamp        string          `json:"@timestamp"`
	BotID            string          `json:"bot_id"`
	Name             string          `json:"name"`
	Status           models.BotState `json:"status"`
	Progress         int             `json:"progress"`
	FilesCreated     int             `json:"files_created"`
	TotalFiles       int             `json:"total_files"`
	LinesOfCode      int             `json:"lines_of_code"`
	Commits          int             `json:"commits"`
	CurrentTask      string          `json:"current_task"`
	TimelineProgress float64         `json:"timeline_progress"`
	SyncStatus       string          `json:"sync_status"`
}

// Documents flattens a snapshot into one document per bot.
func Documents(snap models.MonitoringData) []Document {
	docs := make([]Document, 0, len(snap.Bots))
	for _, b := range snap.Bots {
		docs = append(docs, Document{
			Timestamp:        snap.Timestamp,
			BotID:            b.ID,
			Name:             b.Name,
			Status:           b.Status,
			Progress:         b.Progress,
			FilesCreated:     b.FilesCreated,
			TotalFiles:       b.TotalFiles,
			LinesOfCode:      b.Metrics.LinesOfCode,
			Commits:          b.Metrics.Commits,
			CurrentTask:      b.CurrentTask,
			TimelineProgress: snap.Efficiency.TimelineProgress,
			SyncStatus:       snap.Coordination.SyncStatus,
		})
	}
	return docs
}

// Exporter writes snapshots to an Elasticsearch index.
type Exporter struct {
	client *elasticsearch.Client
	index  string
}

// New creates an exporter from settings.
func New(cfg models.ElasticsearchConfig) (*Exporter, error) {
	if cfg.Index == "" {
		return nil, errors.New("elasticsearch index is required")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: cfg.Addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Exporter{client: es, index: cfg.Index}, nil
}

// Export indexes every bot in snap. It stops at the first failure.
func (e *Exporter) Export(ctx context.Context, snap models.MonitoringData) error {
	for _, doc := range Documents(snap) {
		if err := e.indexDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to index %s: %w", doc.BotID, err)
		}
	}
	return nil
}

func (e *Exporter) indexDocument(ctx context.Context, doc Document) error {
	ctx, cancel := context.WithTimeout(ctx, IndexTimeout)
	defer cancel()

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(data),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", e.index, res.String())
	}
	return nil
}

// Run exports a snapshot every interval until ctx is canceled. Failures are
// logged and retried on the next tick.
func (e *Exporter) Run(ctx context.Context, interval time.Duration, snapshot func(context.Context) models.MonitoringData) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Export(ctx, snapshot(ctx)); err != nil {
				log.Printf("[export] %v", err)
			}
		}
	}
}
