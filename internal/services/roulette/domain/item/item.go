// Package item defines the item catalog handed out on every reload.
//
// Items are opaque to the engine beyond their kind; effects belong to the
// layer that consumes them.
package item

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Kind names one item from the catalog.
type Kind string

const (
	Medkit        Kind = "medkit"
	Scanner       Kind = "scanner"
	Swapper       Kind = "swapper"
	ExpiredMedkit Kind = "expired_medkit"
	Grabber       Kind = "grabber"
	Cuffs         Kind = "cuffs"
	PowderJar     Kind = "powder_jar"
)

// Catalog is the ordered set of kinds a dealer draws from.
type Catalog []Kind

// DefaultCatalog returns the standard seven-item catalog.
func DefaultCatalog() Catalog {
	return Catalog{Medkit, Scanner, Swapper, ExpiredMedkit, Grabber, Cuffs, PowderJar}
}

// ParseCatalog builds a catalog from raw names, trimming blanks.
func ParseCatalog(names []string) (Catalog, error) {
	out := make(Catalog, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		out = append(out, Kind(trimmed))
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate rejects empty catalogs and duplicate kinds.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("item catalog is empty")
	}
	seen := make(map[Kind]bool, len(c))
	for _, kind := range c {
		if kind == "" {
			return fmt.Errorf("item catalog contains a blank kind")
		}
		if seen[kind] {
			return fmt.Errorf("item catalog lists %q twice", kind)
		}
		seen[kind] = true
	}
	return nil
}

// Contains reports whether kind is in the catalog.
func (c Catalog) Contains(kind Kind) bool {
	for _, k := range c {
		if k == kind {
			return true
		}
	}
	return false
}

// Dealer picks the item granted to one player on reload.
type Dealer interface {
	Deal(catalog Catalog) Kind
}

// RandomDealer picks uniformly from the catalog. It is safe for concurrent use.
type RandomDealer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDealer returns a dealer drawing from rng.
func NewRandomDealer(rng *rand.Rand) *RandomDealer {
	return &RandomDealer{rng: rng}
}

// Deal returns a uniformly chosen kind from catalog.
func (d *RandomDealer) Deal(catalog Catalog) Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return catalog[d.rng.Intn(len(catalog))]
}

// DealerFunc adapts a function to Dealer.
type DealerFunc func(Catalog) Kind

// Deal calls f.
func (f DealerFunc) Deal(catalog Catalog) Kind {
	return f(catalog)
}
