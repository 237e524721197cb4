package domain

import "github.com/google/uuid"

// Stream names (must match the document-extraction service)
const (
	StreamParcelExtracted = "stream:parcel:extracted"
	StreamParcelProcessed = "stream:parcel:processed"
)

// ParcelExtractedEvent - incoming event with the extraction output of
// one uploaded document. Document may be nil when extraction produced
// nothing usable; such events become failed staging rows.
type ParcelExtractedEvent struct {
	UploadID uuid.UUID    `json:"upload_id"`
	UserID   string       `json:"user_id,omitempty"`
	FileName string       `json:"file_name"`
	Document *RawLandData `json:"document,omitempty"`
}

// HasGeometry reports whether the event carries at least one survey
// coordinate pair to build a parcel from.
func (e *ParcelExtractedEvent) HasGeometry() bool {
	if e.Document == nil || e.Document.SitePlanData == nil {
		return false
	}
	pd := e.Document.SitePlanData.PlanData
	return pd != nil && len(pd.XCoords) > 0 && len(pd.YCoords) > 0
}

// ParcelProcessedEvent - processing result published after a staging
// row has been written
type ParcelProcessedEvent struct {
	UploadID uuid.UUID `json:"upload_id"`
	UserID   string    `json:"user_id,omitempty"`
	ParcelID string    `json:"parcel_id,omitempty"`
	FileName string    `json:"file_name"`
	Status   int       `json:"status"`
	Error    string    `json:"error,omitempty"`
}

// StreamMessage - message read from a Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
