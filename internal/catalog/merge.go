package catalog

import (
	"path"
	"sort"
	"strings"

	"github.com/salmanbappi/extrepo/internal/models"
)

// MergeOptions controls filtering and normalization during a merge
type MergeOptions struct {
	// Deletions are module fragments; entries whose pkg ends in ".<module>"
	// are dropped from the persisted catalog.
	Deletions []string

	// PlaceholderMarkers drop persisted entries whose pkg contains any marker.
	PlaceholderMarkers []string

	// DefaultSig is set on entries with an empty sig.
	DefaultSig string
}

// Merge combines the persisted catalog with the local fragment. Local entries
// replace persisted ones with the same pkg as a whole. The result is
// normalized and sorted by pkg. Inputs are not modified.
func Merge(persisted, local []models.Entry, opts MergeOptions) []models.Entry {
	kept := Filter(persisted, opts.Deletions, opts.PlaceholderMarkers)

	order := make([]string, 0, len(kept)+len(local))
	byPkg := make(map[string]models.Entry, len(kept)+len(local))

	put := func(e models.Entry) {
		if _, ok := byPkg[e.Pkg]; !ok {
			order = append(order, e.Pkg)
		}
		byPkg[e.Pkg] = e
	}
	for _, e := range kept {
		put(e)
	}
	for _, e := range local {
		put(e)
	}

	merged := make([]models.Entry, 0, len(order))
	for _, pkg := range order {
		merged = append(merged, Normalize(byPkg[pkg], opts.DefaultSig))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Pkg < merged[j].Pkg
	})

	return merged
}

// Filter drops entries belonging to deleted modules and stale placeholder entries.
func Filter(entries []models.Entry, deletions, markers []string) []models.Entry {
	kept := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if IsDeleted(e.Pkg, deletions) || isPlaceholder(e.Pkg, markers) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// IsDeleted reports whether pkg belongs to one of the deleted modules.
func IsDeleted(pkg string, deletions []string) bool {
	for _, module := range deletions {
		if module == "" {
			continue
		}
		if strings.HasSuffix(pkg, "."+module) {
			return true
		}
	}
	return false
}

func isPlaceholder(pkg string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(pkg, m) {
			return true
		}
	}
	return false
}

// Normalize rewrites artifact paths to the repository-relative layout and
// backfills a missing signature. It is idempotent.
func Normalize(e models.Entry, defaultSig string) models.Entry {
	if e.Apk != "" {
		e.Apk = baseName(e.Apk)
	}

	if e.Icon != "" && !IsRemoteURL(e.Icon) {
		e.Icon = "icon/" + baseName(e.Icon)
	}

	if e.Sig == "" {
		e.Sig = defaultSig
	}

	return e
}

// IsRemoteURL reports whether s is an absolute http(s) URL.
func IsRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// baseName strips any directory prefix, accepting either separator.
func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, "\\", "/"))
}
