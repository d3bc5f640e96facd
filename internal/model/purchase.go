package model

import (
	"strings"
	"time"
)

// Purchase is a saved scan in the local history. Price fields are
// fixed at creation; only labels, location, and trip name change
// afterwards.
type Purchase struct {
	Date        time.Time
	ID          string
	ProductName string
	ImagePath   string
	Location    string
	TripName    string
	DocType     DetectMode
	Labels      []string
	Items       []LineItem
	Original    Money
	Converted   Money
}

// HasLabel reports whether the purchase carries the given label.
// Label comparison is case-insensitive; insertion order is irrelevant.
func (p *Purchase) HasLabel(label string) bool {
	for _, l := range p.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}
