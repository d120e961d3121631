// Package export delivers completed deal analyses to downstream consumers
// in batches over a webhook.
package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/dealiq-engine/internal/config"
	"github.com/yourorg/dealiq-engine/internal/verdict"
)

// VerdictExporter batches deal analyses and ships them to a webhook, either
// when the batch fills or on a fixed interval, whichever comes first.
type VerdictExporter struct {
	config        config.ExportConfig
	httpClient    *http.Client
	mutex         sync.RWMutex
	batch         []verdict.DealAnalysis
	lastExport    time.Time
	exportContext context.Context
	exportCancel  context.CancelFunc
}

// NewVerdictExporter creates a new exporter. A disabled exporter is inert
// and safe to call.
func NewVerdictExporter(cfg config.ExportConfig) *VerdictExporter {
	if !cfg.Enabled {
		return &VerdictExporter{config: cfg}
	}

	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			IdleConnTimeout: 90 * time.Second,
		},
	}

	e := &VerdictExporter{
		config:     cfg,
		httpClient: httpClient,
		batch:      make([]verdict.DealAnalysis, 0, cfg.BatchSize),
	}

	e.exportContext, e.exportCancel = context.WithCancel(context.Background())
	go e.periodicExport()

	logrus.Info("Verdict exporter initialized")
	return e
}

// Add queues an analysis for export
func (e *VerdictExporter) Add(analysis verdict.DealAnalysis) {
	if !e.config.Enabled {
		return
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.batch = append(e.batch, analysis)

	if len(e.batch) >= e.config.BatchSize {
		go e.exportBatch()
	}
}

// periodicExport runs a background task to flush the batch on an interval
func (e *VerdictExporter) periodicExport() {
	ticker := time.NewTicker(e.config.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.exportBatch()
		case <-e.exportContext.Done():
			return
		}
	}
}

// exportBatch ships the current batch to the webhook
func (e *VerdictExporter) exportBatch() {
	e.mutex.Lock()

	if len(e.batch) == 0 {
		e.mutex.Unlock()
		return
	}

	analyses := make([]verdict.DealAnalysis, len(e.batch))
	copy(analyses, e.batch)
	e.batch = make([]verdict.DealAnalysis, 0, e.config.BatchSize)
	e.lastExport = time.Now()

	e.mutex.Unlock()

	if err := e.postToWebhook(analyses); err != nil {
		logrus.Errorf("Failed to export verdicts to webhook: %v", err)
		return
	}
	logrus.Infof("Exported %d deal analyses", len(analyses))
}

// postToWebhook sends one batch to the configured webhook endpoint
func (e *VerdictExporter) postToWebhook(analyses []verdict.DealAnalysis) error {
	if e.config.WebhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	exportData := struct {
		Analyses   []verdict.DealAnalysis `json:"analyses"`
		ExportTime string                 `json:"export_time"`
		Count      int                    `json:"count"`
	}{
		Analyses:   analyses,
		ExportTime: time.Now().UTC().Format(time.RFC3339),
		Count:      len(analyses),
	}

	jsonData, err := json.Marshal(exportData)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses: %w", err)
	}

	req, err := http.NewRequest("POST", e.config.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if e.config.WebhookAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.WebhookAPIKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}

	return nil
}

// Stop flushes any queued analyses and stops the background task
func (e *VerdictExporter) Stop() {
	if e.exportCancel != nil {
		e.exportCancel()
	}
	e.exportBatch()
}

// Status reports the exporter's current state for the status endpoint
func (e *VerdictExporter) Status() map[string]interface{} {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	status := map[string]interface{}{
		"enabled":       e.config.Enabled,
		"batch_size":    e.config.BatchSize,
		"current_batch": len(e.batch),
	}
	if e.config.Enabled {
		status["export_interval"] = e.config.ExportInterval.String()
	}

	if !e.lastExport.IsZero() {
		status["last_export"] = e.lastExport.Format(time.RFC3339)
		status["next_export_in"] = (e.config.ExportInterval - time.Since(e.lastExport)).String()
	}

	return status
}
