package model

// PumpItem is a pump/dump scanner feed entry with self-reported deltas.
type PumpItem struct {
	Item       string   `json:"item"`
	Wear       string   `json:"wear"`
	StatTrak   bool     `json:"stattrak"`
	Pct24      float64  `json:"pct24"`
	Pct72      float64  `json:"pct72"`
	VolumeNote string   `json:"volume_note"`
	Links      []string `json:"links"`
}

// StickerItem is a stickers/patches feed entry with direction tags.
type StickerItem struct {
	Name        string   `json:"name"`
	Chg24       string   `json:"chg24"`
	Chg72       string   `json:"chg72"`
	Chg7d       string   `json:"chg7d"`
	Direction24 string   `json:"direction24"`
	Direction72 string   `json:"direction72"`
	Direction7d string   `json:"direction7d"`
	Notes       string   `json:"notes"`
	Links       []string `json:"links"`
}

// CandidateItem is an investment-grade scanner feed entry.
type CandidateItem struct {
	Item           string   `json:"item"`
	Reason         string   `json:"reason"`
	Trend7         string   `json:"trend7"`
	Trend30        string   `json:"trend30"`
	ListingsChange string   `json:"listings_change"`
	SupplyNote     string   `json:"supply_note"`
	Links          []string `json:"links"`
}
