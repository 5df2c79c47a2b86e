// internal/domain/donation.go
package domain

import (
	"time"
)

// DonationStatus describes where a donated item is in its lifecycle.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "available"
	StatusReserved  DonationStatus = "reserved"
	StatusTaken     DonationStatus = "taken"
)

// Donation is one shareable item posted by a donor.
// Only public image URLs are persisted; storage keys stay with the uploader.
type Donation struct {
	ID          string         `bson:"_id,omitempty" json:"id"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description" json:"description"`
	Category    string         `bson:"category" json:"category"`
	Location    string         `bson:"location" json:"location"`
	ImageURLs   []string       `bson:"imageUrls" json:"imageUrls"`
	DonorID     string         `bson:"donorId,omitempty" json:"donorId,omitempty"`
	DonorName   string         `bson:"donorName" json:"donorName"`
	DonorEmail  string         `bson:"donorEmail" json:"donorEmail"`
	DonorPhone  string         `bson:"donorPhone,omitempty" json:"donorPhone,omitempty"`
	Status      DonationStatus `bson:"status" json:"status"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// IsAvailable reports whether the item can still be claimed.
func (d *Donation) IsAvailable() bool {
	return d.Status == StatusAvailable
}

// DonationDraft is the body of a create-donation request.
// DonorID is informational; the server takes the donor from the caller's token.
type DonationDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	DonorName   string   `json:"donorName"`
	DonorEmail  string   `json:"donorEmail"`
	DonorPhone  string   `json:"donorPhone,omitempty"`
	DonorID     string   `json:"donorId,omitempty"`
	ImageURLs   []string `json:"imageUrls"`
}
