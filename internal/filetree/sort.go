// internal/filetree/sort.go
package filetree

import (
	"path"
	"sort"
	"strings"
)

// SortPaths orders a raw file listing so that, within every directory, the
// index document comes first, then the remaining files, then the
// subdirectories. Each group is ordered lexically.
func SortPaths(paths []string, indexNames ...string) {
	if len(indexNames) == 0 {
		indexNames = DefaultIndexNames
	}
	keys := make(map[string][]string, len(paths))
	for _, p := range paths {
		keys[p] = sortKey(Clean(p), indexNames)
	}
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := keys[paths[i]], keys[paths[j]]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}

func sortKey(p string, indexNames []string) []string {
	parts := strings.Split(p, "/")
	key := make([]string, len(parts))
	for i, part := range parts {
		group := "2"
		if i == len(parts)-1 {
			group = "1"
			stem := strings.TrimSuffix(part, path.Ext(part))
			for _, name := range indexNames {
				if stem == name {
					group = "0"
					break
				}
			}
		}
		key[i] = group + part
	}
	return key
}
