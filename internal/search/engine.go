// Package search ranks pharmacies by how much of a requested medicine list
// they carry.
package search

import (
	"context"
	"sort"
	"strings"

	"medistock/m/domain"
)

// CatalogFinder is the slice of the catalog store the engine needs.
type CatalogFinder interface {
	FindByNameAcrossPharmacies(ctx context.Context, name string) ([]domain.MedicineWithPharmacy, error)
}

// Engine computes per-pharmacy coverage for a requested medicine list and
// produces a deterministic ranked result.
type Engine struct {
	catalog CatalogFinder
}

// New constructs an Engine.
func New(catalog CatalogFinder) *Engine {
	return &Engine{catalog: catalog}
}

type pharmacyMatches struct {
	id      int64
	name    string
	area    string
	matched map[string]string // lowercase name -> requested spelling
}

// Search is idempotent and independent of input order: the request is
// trimmed and de-duplicated case-insensitively before matching, and the
// ranking is a total order (coverage descending, then pharmacy name
// ascending, case-insensitive).
func (e *Engine) Search(ctx context.Context, requestedNames []string) (domain.RankedResult, error) {
	requested := normalize(requestedNames)
	n := len(requested)
	result := domain.RankedResult{
		Requested: requested,
		Ranked:    []domain.PharmacyAvailability{},
		Complete:  []domain.PharmacyAvailability{},
		Partial:   []domain.PharmacyAvailability{},
	}
	if n == 0 {
		return result, nil
	}

	byPharmacy := make(map[int64]*pharmacyMatches)
	for _, name := range requested {
		rows, err := e.catalog.FindByNameAcrossPharmacies(ctx, name)
		if err != nil {
			return domain.RankedResult{}, err
		}
		for _, row := range rows {
			pm, ok := byPharmacy[row.PharmacyID]
			if !ok {
				pm = &pharmacyMatches{
					id:      row.PharmacyID,
					name:    row.PharmacyName,
					area:    row.PharmacyArea,
					matched: make(map[string]string),
				}
				byPharmacy[row.PharmacyID] = pm
			}
			// Distinct by name: the same medicine listed under two
			// catalog rows counts once.
			pm.matched[strings.ToLower(name)] = name
		}
	}

	ranked := make([]domain.PharmacyAvailability, 0, len(byPharmacy))
	for _, pm := range byPharmacy {
		matched := make([]string, 0, len(pm.matched))
		for _, spelling := range pm.matched {
			matched = append(matched, spelling)
		}
		sort.Strings(matched)
		coverage := len(matched)
		ranked = append(ranked, domain.PharmacyAvailability{
			PharmacyID:   pm.id,
			PharmacyName: pm.name,
			PharmacyArea: pm.area,
			Matched:      matched,
			Coverage:     coverage,
			Requested:    n,
			Percent:      float64(coverage) / float64(n) * 100,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Coverage != ranked[j].Coverage {
			return ranked[i].Coverage > ranked[j].Coverage
		}
		ni, nj := strings.ToLower(ranked[i].PharmacyName), strings.ToLower(ranked[j].PharmacyName)
		if ni != nj {
			return ni < nj
		}
		return ranked[i].PharmacyID < ranked[j].PharmacyID
	})

	result.Ranked = ranked
	for _, entry := range ranked {
		if entry.Coverage == n {
			result.Complete = append(result.Complete, entry)
		} else {
			result.Partial = append(result.Partial, entry)
		}
	}
	return result, nil
}

// normalize trims entries, drops empties and de-duplicates them
// case-insensitively, keeping the first-seen spelling.
func normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}
