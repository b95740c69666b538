// Package events publishes processing events for downstream consumers.
package events

import (
	"context"
	"time"
)

// FileProcessed is emitted after a file has been decoded, validated and stored.
type FileProcessed struct {
	FileID       string    `json:"fileId"`
	FileName     string    `json:"fileName"`
	Format       string    `json:"format"`
	BankCode     string    `json:"bankCode"`
	FileType     string    `json:"fileType"`
	Valid        bool      `json:"valid"`
	ErrorCount   int       `json:"errorCount"`
	WarningCount int       `json:"warningCount"`
	TotalCents   int64     `json:"totalCents"`
	ProcessedAt  time.Time `json:"processedAt"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	PublishFileProcessed(ctx context.Context, event FileProcessed) error
	Close() error
}
