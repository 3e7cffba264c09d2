package model

// Channel is an advertising slot listed on the marketplace.
// Only the asking price is mutable, and only by the owner.
type Channel struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Username     string  `json:"username,omitempty"`
	Subscribers  int64   `json:"subscribers"`
	AvgViews     int64   `json:"avg_views"`
	Language     string  `json:"language"`
	PremiumRatio float64 `json:"premium_ratio"`
	PricePostTon float64 `json:"price_post"`
	Verified     bool    `json:"verified"`
	OwnerID      int64   `json:"owner_id,omitempty"`
}

func (c *Channel) PricePost() Nano {
	return NanoFromTon(c.PricePostTon)
}
