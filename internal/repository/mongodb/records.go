package mongodb

import "time"

// Store-side record shapes as they live in MongoDB. Money fields are strings
// so the storage layer never rounds them; the analytics ingestion boundary
// parses them into exact decimals and rejects what does not parse. These
// deliberately stay loose: the engine's strict domain models are built from
// them, never the other way around.

// CropRecord mirrors one document of the crops collection.
type CropRecord struct {
	ID                  string     `bson:"_id" json:"id"`
	Name                string     `bson:"name" json:"name"`
	Type                string     `bson:"type" json:"type"`
	Status              string     `bson:"status" json:"status"`
	PlantingDate        time.Time  `bson:"planting_date" json:"planting_date"`
	ExpectedHarvestDate *time.Time `bson:"expected_harvest_date,omitempty" json:"expected_harvest_date,omitempty"`
	ActualHarvestDate   *time.Time `bson:"actual_harvest_date,omitempty" json:"actual_harvest_date,omitempty"`
	Area                float64    `bson:"area" json:"area"`
	AreaUnit            string     `bson:"area_unit" json:"area_unit"`
	ExpectedYield       float64    `bson:"expected_yield" json:"expected_yield"`
	ActualYield         float64    `bson:"actual_yield" json:"actual_yield"`
	YieldUnit           string     `bson:"yield_unit" json:"yield_unit"`
	MarketPrice         string     `bson:"market_price" json:"market_price"`
}

// ExpenseRecord mirrors one document of the expenses collection.
type ExpenseRecord struct {
	ID       string    `bson:"_id" json:"id"`
	CropID   string    `bson:"crop_id" json:"crop_id"`
	Category string    `bson:"category" json:"category"`
	Amount   string    `bson:"amount" json:"amount"`
	Date     time.Time `bson:"date" json:"date"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// SaleRecord mirrors one document of the sales collection. Total is whatever
// was persisted at write time; the engine recomputes it and never reads it.
type SaleRecord struct {
	ID        string    `bson:"_id" json:"id"`
	CropID    string    `bson:"crop_id" json:"crop_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	UnitPrice string    `bson:"unit_price" json:"unit_price"`
	Total     string    `bson:"total,omitempty" json:"total,omitempty"`
	Date      time.Time `bson:"date" json:"date"`
}
