package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// SuggestionRequest carries the semantic inputs of one suggestion call.
// It is never mutated; canonicalization works on copies.
type SuggestionRequest struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Category   string   `json:"category"`
	Interests  []string `json:"interests"`
	BudgetMin  float64  `json:"budget_min"`
	BudgetMax  float64  `json:"budget_max"`
	Cuisines   []string `json:"cuisines"`
	VenueTypes []string `json:"venue_types"`
}

// canonicalRequest is the stable representation hashed for cache keying.
// Field order is fixed, list fields are sorted, empty lists collapse to nil,
// so one semantic input always serializes to one byte sequence.
type canonicalRequest struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Interests  []string `json:"interests"`
	BudgetMin  float64  `json:"budget_min"`
	BudgetMax  float64  `json:"budget_max"`
	Cuisines   []string `json:"cuisines"`
	VenueTypes []string `json:"venue_types"`
}

// canonicalize normalizes a request so that semantically equivalent inputs
// with different field order or casing map to the same representation:
// city/country lower-cased and trimmed, multi-value fields sorted lexically,
// budget bounds rounded to two decimal places.
func canonicalize(req SuggestionRequest) canonicalRequest {
	return canonicalRequest{
		City:       strings.ToLower(strings.TrimSpace(req.City)),
		Country:    strings.ToLower(strings.TrimSpace(req.Country)),
		StartDate:  strings.TrimSpace(req.StartDate),
		EndDate:    strings.TrimSpace(req.EndDate),
		Interests:  sortedCopy(req.Interests),
		BudgetMin:  roundBudget(req.BudgetMin),
		BudgetMax:  roundBudget(req.BudgetMax),
		Cuisines:   sortedCopy(req.Cuisines),
		VenueTypes: sortedCopy(req.VenueTypes),
	}
}

// fingerprint digests the category tag followed by the canonical JSON.
// A collision between distinct canonical inputs is a bug, not a runtime
// condition to handle.
func fingerprint(canonical canonicalRequest, category string) string {
	payload, _ := json.Marshal(canonical)
	h := sha256.New()
	h.Write([]byte(category))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

func roundBudget(v float64) float64 {
	return math.Round(v*100) / 100
}
