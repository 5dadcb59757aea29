package domain

import "time"

// Alert records that a threshold or failure condition occurred.
// Alerts are append-only and never mutated after creation.
type Alert struct {
	ID        string    `json:"id" yaml:"id"`
	Level     Level     `json:"level" yaml:"level"`
	Message   string    `json:"message" yaml:"message"`
	Metric    string    `json:"metric" yaml:"metric"`
	Value     float64   `json:"value" yaml:"value"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
