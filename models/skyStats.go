package models

import "time"

// SkyStats is derived on every request and never persisted
type SkyStats struct {
	Sky_ID        string    `json:"skyId"`
	Total_Stars   int       `json:"total"`
	Total_Actions int       `json:"totalActions"`
	Density       int       `json:"density"`
	Updated_At    time.Time `json:"updatedAt"`
}

type Sky struct {
	Sky_ID     string    `json:"skyId" db:"sky_id"`
	Title      string    `json:"title" db:"title"`
	Created_At time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
}
