package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Offer is a bookable room offer at a location. Prices are stored in cents
// to avoid floating point drift in replies and persisted bookings.
type Offer struct {
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	LocationKey string `json:"location"`
}

// PriceDollars renders the offer price for user-facing replies.
func (o Offer) PriceDollars() string {
	dollars := o.PriceCents / 100
	cents := o.PriceCents % 100
	if cents == 0 {
		return fmt.Sprintf("$%d", dollars)
	}
	return fmt.Sprintf("$%d.%02d", dollars, cents)
}

// Catalog is the static offer inventory, loaded once at startup and
// read-only for the lifetime of the process.
type Catalog struct {
	byLocation map[string][]Offer
	ordered    []Offer
}

// Load reads the catalog from a JSON seed file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inventory: read seed file: %w", err)
	}
	var offers []Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("inventory: decode seed file: %w", err)
	}
	return New(offers), nil
}

// New builds a catalog from the given offers, preserving load order.
func New(offers []Offer) *Catalog {
	c := &Catalog{
		byLocation: make(map[string][]Offer),
		ordered:    make([]Offer, 0, len(offers)),
	}
	for _, offer := range offers {
		key := normalize(offer.LocationKey)
		c.byLocation[key] = append(c.byLocation[key], offer)
		c.ordered = append(c.ordered, offer)
	}
	return c
}

// FindOffers returns all offers for a location. Matching is a
// case-insensitive exact match on the location key.
func (c *Catalog) FindOffers(location string) ([]Offer, bool) {
	offers, ok := c.byLocation[normalize(location)]
	return offers, ok
}

// FindOfferByName returns the first offer whose name matches the query,
// case-insensitively, across all locations in load order. Duplicate names
// are a data-quality concern and are not handled specially.
func (c *Catalog) FindOfferByName(name string) (Offer, bool) {
	query := normalize(name)
	for _, offer := range c.ordered {
		if normalize(offer.Name) == query {
			return offer, true
		}
	}
	return Offer{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
