package analysis

import (
	"strings"
)

type aliasEntry struct {
	canonical string
	aliases   []string
}

// AliasTable maps each canonical column to the alternative headers accepted
// for it. Aliases are tried in declared order. The zero value maps nothing.
// Values are immutable: With returns a new table.
type AliasTable struct {
	entries []aliasEntry
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() AliasTable {
	return AliasTable{entries: []aliasEntry{
		{ColActiveUsers, []string{"active users", "active", "mau", "monthly active users"}},
		{ColNewUsers, []string{"new users", "new", "new signups", "signups"}},
		{ColChurnRate, []string{"churn rate", "churn", "churn %", "churn percentage"}},
		{ColRevenue, []string{"total revenue", "monthly revenue", "mrr"}},
	}}
}

// With returns a copy of the table with extra aliases appended after the
// existing ones. Keys that are not canonical columns are ignored.
func (a AliasTable) With(extra map[string][]string) AliasTable {
	out := AliasTable{entries: make([]aliasEntry, len(a.entries))}
	for i, e := range a.entries {
		aliases := append([]string(nil), e.aliases...)
		for _, x := range extra[e.canonical] {
			x = normalizeHeader(x)
			if x == "" || x == e.canonical || contains(aliases, x) {
				continue
			}
			aliases = append(aliases, x)
		}
		out.entries[i] = aliasEntry{canonical: e.canonical, aliases: aliases}
	}
	return out
}

// Aliases returns a copy of the aliases registered for canonical.
func (a AliasTable) Aliases(canonical string) []string {
	for _, e := range a.entries {
		if e.canonical == canonical {
			return append([]string(nil), e.aliases...)
		}
	}
	return nil
}

// Normalizer lower-cases headers and renames aliases to canonical names.
type Normalizer struct {
	aliases AliasTable
}

// NewNormalizer returns a Normalizer bound to the given alias table.
func NewNormalizer(aliases AliasTable) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize returns a sheet whose headers are trimmed and lower-cased and in
// which, for every canonical column absent by name, the first matching alias
// has been renamed to it. Rows are shared with the input, not copied.
func (n *Normalizer) Normalize(headers []string, rows [][]string) *Sheet {
	out := &Sheet{Headers: make([]string, len(headers)), Rows: rows}
	for i, h := range headers {
		out.Headers[i] = normalizeHeader(h)
	}
	for _, e := range n.aliases.entries {
		if out.Has(e.canonical) {
			continue
		}
		for _, alt := range e.aliases {
			if idx := out.Index(alt); idx >= 0 {
				out.Headers[idx] = e.canonical
				break
			}
		}
	}
	return out
}

func normalizeHeader(h string) string {
	// strip a UTF-8 BOM left on the first CSV header by spreadsheet exports
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
