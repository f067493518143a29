package models

import "time"

// Preset is a seeded catalog item. Title is unique across the table.
type Preset struct {
	Preset_ID    int64     `json:"presetId" db:"preset_id" goqu:"skipinsert" yaml:"-"`
	Container_ID int64     `json:"containerId" db:"container_id" yaml:"-"`
	Title        string    `json:"title" db:"title" yaml:"title"`
	Description  string    `json:"description" db:"description" yaml:"description"`
	Tags         string    `json:"tags" db:"tags" yaml:"tags"`
	Updated_At   time.Time `json:"updatedAt" db:"updated_at" goqu:"skipinsert" yaml:"-"`
}

// PresetContainer groups seeded presets; looked up by name
type PresetContainer struct {
	Container_ID int64  `json:"containerId" db:"container_id" goqu:"skipinsert"`
	Name         string `json:"name" db:"name"`
}

// ImportResult is the envelope returned by a preset import, even on partial failure
type ImportResult struct {
	Created      int   `json:"created"`
	Updated      int   `json:"updated"`
	Skipped      int   `json:"skipped"`
	Container_ID int64 `json:"containerId"`
}
