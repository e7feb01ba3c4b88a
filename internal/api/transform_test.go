// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"reflect"
	"testing"
)

// TestToPascalCase_KeepsFalsyButMeaningfulValues is the documented edge
// case: zero and false survive, nil and empty string are dropped.
func TestToPascalCase_KeepsFalsyButMeaningfulValues(t *testing.T) {
	in := map[string]any{
		"firstName": "A",
		"age":       0,
		"active":    false,
		"nickname":  "",
		"managerId": nil,
	}

	got := ToPascalCase(in)

	want := map[string]any{
		"FirstName": "A",
		"Age":       0,
		"Active":    false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToPascalCase() = %#v, want %#v", got, want)
	}
}

// TestToPascalCase_KeyCasing tests the first-letter transform.
func TestToPascalCase_KeyCasing(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"camel case", "firstName", "FirstName"},
		{"single letter", "x", "X"},
		{"already pascal", "FirstName", "FirstName"},
		{"all caps stays", "ID", "ID"},
		{"empty key", "", ""},
		{"unicode first rune", "éclair", "Éclair"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pascalKey(tt.key)
			if got != tt.want {
				t.Errorf("pascalKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// TestToPascalCase_Recursion tests nested objects and arrays.
func TestToPascalCase_Recursion(t *testing.T) {
	in := map[string]any{
		"origin": "PDX",
		"booking": map[string]any{
			"ticketRef": "TK-1",
			"finalCost": 0,
			"note":      "",
		},
		"legs": []any{
			map[string]any{"from": "PDX", "to": "SEA"},
			map[string]any{"from": "SEA", "to": ""},
		},
	}

	got := ToPascalCase(in)

	booking, ok := got["Booking"].(map[string]any)
	if !ok {
		t.Fatalf("Booking missing or wrong type: %#v", got["Booking"])
	}
	if booking["TicketRef"] != "TK-1" {
		t.Errorf("nested TicketRef = %v", booking["TicketRef"])
	}
	if booking["FinalCost"] != 0 {
		t.Errorf("nested zero cost dropped: %#v", booking)
	}
	if _, present := booking["Note"]; present {
		t.Errorf("nested empty string kept: %#v", booking)
	}

	legs, ok := got["Legs"].([]any)
	if !ok || len(legs) != 2 {
		t.Fatalf("Legs = %#v", got["Legs"])
	}
	first, ok := legs[0].(map[string]any)
	if !ok || first["From"] != "PDX" || first["To"] != "SEA" {
		t.Errorf("legs[0] = %#v", legs[0])
	}
	second, ok := legs[1].(map[string]any)
	if !ok {
		t.Fatalf("legs[1] = %#v", legs[1])
	}
	if _, present := second["To"]; present {
		t.Errorf("empty string inside array element kept: %#v", second)
	}
}

// TestToPascalCase_DoesNotModifyInput tests input immutability.
func TestToPascalCase_DoesNotModifyInput(t *testing.T) {
	in := map[string]any{"firstName": "A", "empty": ""}

	_ = ToPascalCase(in)

	if len(in) != 2 || in["firstName"] != "A" {
		t.Errorf("input mutated: %#v", in)
	}
}

// TestToPascalCase_EmptyObject tests the degenerate case.
func TestToPascalCase_EmptyObject(t *testing.T) {
	got := ToPascalCase(map[string]any{})
	if len(got) != 0 {
		t.Errorf("ToPascalCase(empty) = %#v", got)
	}
}
