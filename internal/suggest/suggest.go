// Package suggest ranks command records against a typed query.
package suggest

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ishfaqbuilds/commandghost/internal/command"
)

// MaxResults caps the number of suggestions returned by Rank.
const MaxResults = 5

// Rank returns at most MaxResults records whose command or description
// contains query, case-insensitively. Records whose command starts with the
// query come first, then shorter commands. Ties keep input order.
func Rank(query string, records []command.Record) []command.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []command.Record{}
	}

	type candidate struct {
		rec    command.Record
		starts bool
		length int
	}

	var matches []candidate
	for _, r := range records {
		cmd := strings.ToLower(r.Command)
		if !strings.Contains(cmd, q) && !strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		matches = append(matches, candidate{
			rec:    r,
			starts: strings.HasPrefix(cmd, q),
			length: utf8.RuneCountInString(r.Command),
		})
	}

	slices.SortStableFunc(matches, func(a, b candidate) int {
		if a.starts != b.starts {
			if a.starts {
				return -1
			}
			return 1
		}
		return a.length - b.length
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	out := make([]command.Record, len(matches))
	for i, m := range matches {
		out[i] = m.rec
	}
	return out
}
