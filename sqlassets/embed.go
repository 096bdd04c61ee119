package sqlassets

import (
	"embed"
	"sort"
)

//go:embed *.sql
var FS embed.FS

// MigrationNames lists the embedded migration files in lexical order.
func MigrationNames() ([]string, error) {
	entries, err := FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the contents of one embedded migration.
func Read(name string) (string, error) {
	b, err := FS.ReadFile(name)
	return string(b), err
}
