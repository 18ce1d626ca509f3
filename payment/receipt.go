package payment

import (
	"encoding/json"
	"time"
)

// Receipt is the proof of a verified payment.
type Receipt struct {
	referenceID string
	driver      string
	date        time.Time
	raw         map[string]any
}

// NewReceipt stamps a receipt with the current time.
func NewReceipt(driver, referenceID string, raw map[string]any) *Receipt {
	return &Receipt{
		referenceID: referenceID,
		driver:      driver,
		date:        time.Now(),
		raw:         raw,
	}
}

func (r *Receipt) ReferenceID() string { return r.referenceID }

func (r *Receipt) Driver() string { return r.driver }

func (r *Receipt) Date() time.Time { return r.date }

// RawData is the provider payload the receipt was built from.
func (r *Receipt) RawData() map[string]any { return r.raw }

func (r *Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReferenceID string         `json:"reference_id"`
		Driver      string         `json:"driver"`
		Date        time.Time      `json:"date"`
		Raw         map[string]any `json:"raw,omitempty"`
	}{r.referenceID, r.driver, r.date, r.raw})
}
