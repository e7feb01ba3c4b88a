// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - "Did you mean?" suggestions for mistyped commands.
package cli

import "strings"

// validCommands lists every command and alias Parse recognizes.
// Keep in sync with the ParseArgs switch.
var validCommands = []string{
	"tui", "dashboard",
	"login", "logout", "whoami", "me",
	"requests", "list", "ls",
	"request", "req",
	"approve", "reject", "deny", "book",
	"drafts", "draft",
	"sync", "refresh",
	"lookups", "lookup",
	"policy",
	"lock",
	"config", "cfg",
	"doctor",
	"version", "help",
}

// SuggestCommand returns the closest valid command to the input, or ""
// when nothing is near enough to be a plausible typo.
func SuggestCommand(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	// Tolerate more edits on longer input
	maxDistance := 3
	if len(input) <= 4 {
		maxDistance = 1
	} else if len(input) <= 8 {
		maxDistance = 2
	}

	best := ""
	bestDist := maxDistance + 1
	for _, cmd := range validCommands {
		d := levenshteinDistance(input, cmd)
		if d < bestDist {
			best = cmd
			bestDist = d
		}
	}

	if bestDist > maxDistance {
		return ""
	}
	return best
}

// levenshteinDistance computes edit distance with a two-row table.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
