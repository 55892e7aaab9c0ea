package services

import (
	"testing"
)

// TestCanonicalizeNormalizesFields 정규화 규칙 테스트
func TestCanonicalizeNormalizesFields(t *testing.T) {
	req := SuggestionRequest{
		City:       "  Rome ",
		Country:    "ITALY",
		StartDate:  " 2026-05-01",
		EndDate:    "2026-05-07 ",
		Category:   CategoryFood,
		Interests:  []string{"history", "art"},
		BudgetMin:  10.012345,
		BudgetMax:  99.999,
		Cuisines:   []string{"roman", "italian"},
		VenueTypes: nil,
	}

	got := canonicalize(req)

	if got.City != "rome" {
		t.Errorf("Expected city 'rome', got '%s'", got.City)
	}
	if got.Country != "italy" {
		t.Errorf("Expected country 'italy', got '%s'", got.Country)
	}
	if got.StartDate != "2026-05-01" || got.EndDate != "2026-05-07" {
		t.Errorf("Expected trimmed dates, got '%s'..'%s'", got.StartDate, got.EndDate)
	}
	if len(got.Interests) != 2 || got.Interests[0] != "art" || got.Interests[1] != "history" {
		t.Errorf("Expected sorted interests [art history], got %v", got.Interests)
	}
	if len(got.Cuisines) != 2 || got.Cuisines[0] != "italian" || got.Cuisines[1] != "roman" {
		t.Errorf("Expected sorted cuisines [italian roman], got %v", got.Cuisines)
	}
	if got.BudgetMin != 10.01 {
		t.Errorf("Expected budget_min rounded to 10.01, got %v", got.BudgetMin)
	}
	if got.BudgetMax != 100.00 {
		t.Errorf("Expected budget_max rounded to 100.00, got %v", got.BudgetMax)
	}
}

// TestCanonicalizeDoesNotMutateInput 원본 요청 불변 확인
func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	interests := []string{"food", "art", "music"}
	req := SuggestionRequest{City: "Seoul", Interests: interests}

	_ = canonicalize(req)

	if interests[0] != "food" || interests[1] != "art" || interests[2] != "music" {
		t.Errorf("Input slice was mutated: %v", interests)
	}
}

// TestFingerprintIdempotent 같은 입력은 항상 같은 fingerprint
func TestFingerprintIdempotent(t *testing.T) {
	req := SuggestionRequest{
		City:      "Seoul",
		Country:   "South Korea",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Category:  CategoryPlaces,
		Interests: []string{"history", "food"},
	}

	first := fingerprint(canonicalize(req), req.Category)
	second := fingerprint(canonicalize(req), req.Category)

	if first != second {
		t.Errorf("Expected identical fingerprints, got '%s' and '%s'", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(first))
	}
}

// TestFingerprintIgnoresOrderAndCase 필드 순서/대소문자가 달라도 동일 키
func TestFingerprintIgnoresOrderAndCase(t *testing.T) {
	a := SuggestionRequest{
		City:     "Rome",
		Country:  "Italy",
		Category: CategoryFood,
		Cuisines: []string{"roman", "italian", "seafood"},
	}
	b := SuggestionRequest{
		City:     "rome",
		Country:  "ITALY",
		Category: CategoryFood,
		Cuisines: []string{"seafood", "italian", "roman"},
	}

	fpA := fingerprint(canonicalize(a), a.Category)
	fpB := fingerprint(canonicalize(b), b.Category)

	if fpA != fpB {
		t.Errorf("Expected equal fingerprints for equivalent requests, got '%s' vs '%s'", fpA, fpB)
	}
}

// TestFingerprintSeparatesCategories 같은 목적지라도 카테고리가 다르면 다른 키
func TestFingerprintSeparatesCategories(t *testing.T) {
	req := SuggestionRequest{City: "Tokyo", Country: "Japan"}
	canonical := canonicalize(req)

	places := fingerprint(canonical, CategoryPlaces)
	food := fingerprint(canonical, CategoryFood)

	if places == food {
		t.Error("Expected different fingerprints per category")
	}
}

// TestFingerprintEmptyListEqualsNil 빈 리스트와 nil 리스트는 같은 키
func TestFingerprintEmptyListEqualsNil(t *testing.T) {
	a := SuggestionRequest{City: "Paris", Category: CategoryPlaces, Interests: []string{}}
	b := SuggestionRequest{City: "Paris", Category: CategoryPlaces, Interests: nil}

	fpA := fingerprint(canonicalize(a), a.Category)
	fpB := fingerprint(canonicalize(b), b.Category)

	if fpA != fpB {
		t.Errorf("Expected empty and nil lists to produce the same fingerprint, got '%s' vs '%s'", fpA, fpB)
	}
}

// TestFingerprintBudgetRounding 2자리 반올림 후 동일 예산은 동일 키
func TestFingerprintBudgetRounding(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  float64
		equal bool
	}{
		{"sub-cent noise collapses", 50.001, 50.0009, true},
		{"exact match", 75.25, 75.25, true},
		{"cent difference stays distinct", 50.01, 50.02, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reqA := SuggestionRequest{City: "Lisbon", Category: CategoryPlaces, BudgetMax: tc.a}
			reqB := SuggestionRequest{City: "Lisbon", Category: CategoryPlaces, BudgetMax: tc.b}

			fpA := fingerprint(canonicalize(reqA), reqA.Category)
			fpB := fingerprint(canonicalize(reqB), reqB.Category)

			if (fpA == fpB) != tc.equal {
				t.Errorf("Budgets %v vs %v: expected equal=%v, got %v", tc.a, tc.b, tc.equal, fpA == fpB)
			}
		})
	}
}

// TestValidCategory 허용 카테고리 검사
func TestValidCategory(t *testing.T) {
	for _, category := range []string{CategoryPlaces, CategoryActivities, CategoryFood, CategoryShopping} {
		if !ValidCategory(category) {
			t.Errorf("Expected '%s' to be valid", category)
		}
	}

	for _, category := range []string{"", "hotels", "PLACES", "food "} {
		if ValidCategory(category) {
			t.Errorf("Expected '%s' to be rejected", category)
		}
	}
}
