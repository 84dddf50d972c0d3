// Canonical author identities.
//
// Git history can contain the same person under several spellings of their
// email and several display names. An Identity groups them under one key: the
// trimmed, lowercased email.
package identity

import (
	"cmp"
	"iter"
	"slices"
	"strings"
)

// Email git blame reports for lines that are not committed yet.
const NotCommittedYet = "not.committed.yet"

// Returns the canonical key for a raw email.
func Canonicalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Splits a "Display Name <email>" record.
//
// Uses the first "<" and the first ">" after it. Returns false if there is no
// such pair.
func ParseRecord(record string) (name string, email string, ok bool) {
	start := strings.IndexByte(record, '<')
	if start < 0 {
		return "", "", false
	}

	end := strings.IndexByte(record[start+1:], '>')
	if end < 0 {
		return "", "", false
	}

	name = strings.TrimSpace(record[:start])
	email = record[start+1 : start+1+end]
	return name, email, true
}

type Identity struct {
	Key     string
	aliases []string
}

// The first display name seen for this identity, or "" if it has none.
func (id Identity) DefaultName() string {
	if len(id.aliases) == 0 {
		return ""
	}

	return id.aliases[0]
}

// All distinct display names seen for this identity, in the order they were
// first seen.
func (id Identity) Aliases() []string {
	return slices.Clone(id.aliases)
}

func (id *Identity) addAlias(name string) {
	if name == "" || slices.Contains(id.aliases, name) {
		return
	}

	id.aliases = append(id.aliases, name)
}

// Maps canonical keys to identities. Read-only once built.
type Registry struct {
	identities map[string]*Identity
	keys       []string // In order first seen
}

// Builds a registry from "Display Name <email>" records.
//
// Records without a bracketed email are skipped. A nil or empty sequence gives
// an empty registry, in which case every email resolves to itself.
func Build(records iter.Seq[string]) *Registry {
	r := &Registry{identities: map[string]*Identity{}}
	if records == nil {
		return r
	}

	skipped := 0
	for record := range records {
		name, email, ok := ParseRecord(record)
		if !ok {
			skipped += 1
			continue
		}

		key := Canonicalize(email)
		id, ok := r.identities[key]
		if !ok {
			id = &Identity{Key: key}
			r.identities[key] = id
			r.keys = append(r.keys, key)
		}

		id.addAlias(name)
	}

	logger().Debug(
		"built identity registry",
		"identities",
		len(r.keys),
		"skipped",
		skipped,
	)

	return r
}

// Returns the canonical key for an email found in blame output.
//
// Lines not committed yet belong to the local user. If there is no local
// user email, they keep the sentinel key.
func (r *Registry) Resolve(rawEmail string, localUserEmail string) string {
	key := Canonicalize(rawEmail)
	if key == NotCommittedYet {
		local := Canonicalize(localUserEmail)
		if local != "" {
			return local
		}
	}

	return key
}

func (r *Registry) Lookup(key string) (Identity, bool) {
	id, ok := r.identities[key]
	if !ok {
		return Identity{}, false
	}

	return *id, true
}

// The name to show for a canonical key. Falls back to the key itself for
// authors we have no name for.
func (r *Registry) DisplayName(key string) string {
	if id, ok := r.identities[key]; ok && id.DefaultName() != "" {
		return id.DefaultName()
	}

	return key
}

func (r *Registry) Len() int {
	return len(r.keys)
}

// Iterates over identities in the order they were first seen.
func (r *Registry) All() iter.Seq[Identity] {
	return func(yield func(Identity) bool) {
		for _, key := range r.keys {
			if !yield(*r.identities[key]) {
				return
			}
		}
	}
}

// Sorts canonical keys in place by display name, then by key.
func (r *Registry) SortByName(keys []string) {
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Or(
			strings.Compare(
				strings.ToLower(r.DisplayName(a)),
				strings.ToLower(r.DisplayName(b)),
			),
			strings.Compare(a, b),
		)
	})
}
