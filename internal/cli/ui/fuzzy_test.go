package ui

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"Person", "Person", 0},
		{"Persn", "Person", 1},
		{"Ordr", "Order", 1},
		{"flaw", "lawn", 2},
		{"Größe", "Grosse", 3},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{
		"com.acme.Person",
		"com.acme.Party",
		"com.acme.orders.Order",
		"com.acme.Address",
	}

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{"simple name typo", "Persin", []string{"com.acme.Person"}},
		{"case insensitive", "order", []string{"com.acme.orders.Order"}},
		{"qualified typo", "com.acme.Adress", []string{"com.acme.Address"}},
		{"closest first", "Pers", []string{"com.acme.Person", "com.acme.Party"}},
		{"no match too far", "Warehouse", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindSimilar(tt.target, candidates)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("FindSimilar(%q) = %v; want %v", tt.target, result, tt.expected)
			}
		})
	}
}

func TestFindSimilarLimit(t *testing.T) {
	candidates := []string{"a.Aa", "a.Ab", "a.Ac", "a.Ad", "a.Ae"}

	if got := FindSimilar("A", candidates); len(got) != DefaultMaxSuggestions {
		t.Errorf("expected %d suggestions, got %v", DefaultMaxSuggestions, got)
	}
}
