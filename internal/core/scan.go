package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/Digital-Shane/otr-tidy/internal/otr"
	"github.com/Digital-Shane/treeview"
)

// Scan returns the unprocessed recordings directly inside dir, sorted by
// path. Subdirectories are not entered.
func Scan(ctx context.Context, dir string) ([]string, error) {
	t, err := treeview.NewTreeFromFileSystem(ctx, dir, false,
		treeview.WithMaxDepth[treeview.FileInfo](1),
		treeview.WithFilterFunc(func(fi treeview.FileInfo) bool {
			return fi.FileInfo.Mode().IsRegular() && otr.IsCandidate(fi.Name())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var paths []string
	for ni, err := range t.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		if ni.Depth != 0 || ni.Node.Data().IsDir() {
			continue
		}
		paths = append(paths, ni.Node.Data().Path)
	}
	sort.Strings(paths)
	return paths, nil
}
