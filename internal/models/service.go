package models

// Service is a catalog entry. The catalog is loaded from configuration and
// read-only at runtime; appointment prices are snapshotted from it at
// booking time and never change afterwards.
type Service struct {
	ID              int64   `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Price           float64 `yaml:"price" json:"price"`
	DurationMinutes int     `yaml:"duration_minutes" json:"duration_minutes"`
	Description     string  `yaml:"description" json:"description,omitempty"`
	Category        string  `yaml:"category" json:"category,omitempty"`
	Available       bool    `yaml:"available" json:"available"`
}
