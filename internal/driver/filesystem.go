package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/recordio"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var supportedExts = []string{".csv", ".xlsx"}

// FileDriver serves the influence files of one directory.
type FileDriver struct {
	Dir  string
	pool *ants.Pool
	log  *zap.SugaredLogger
}

// NewFileDriver checks that dir is a readable directory. Row counts for
// List are computed on a pool of the given number of workers.
func NewFileDriver(dir string, workers int, log *zap.SugaredLogger) (*FileDriver, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", model.ErrSourceUnavailable, dir)
	}
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create catalog pool: %w", err)
	}

	log.Infof("Serving datasets from %s", dir)
	return &FileDriver{Dir: dir, pool: pool, log: log}, nil
}

func (d *FileDriver) Close(ctx context.Context) error {
	d.pool.Release()
	return nil
}

// List returns the datasets sorted by display name.
func (d *FileDriver) List(ctx context.Context) ([]Dataset, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
	}

	var datasets []Dataset
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) {
			continue
		}
		datasets = append(datasets, Dataset{
			Filename:    e.Name(),
			DisplayName: DisplayName(e.Name()),
		})
	}

	var wg sync.WaitGroup
	for i := range datasets {
		if err := ctx.Err(); err != nil {
			break
		}
		ds := &datasets[i]
		wg.Add(1)
		err := d.pool.Submit(func() {
			defer wg.Done()
			n, err := recordio.CountRows(filepath.Join(d.Dir, ds.Filename))
			if err != nil {
				d.log.Warnf("Failed to count rows of %s: %v", ds.Filename, err)
				return
			}
			ds.Rows = n
		})
		if err != nil {
			wg.Done()
			d.log.Warnf("Failed to schedule row count for %s: %v", ds.Filename, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(datasets, func(a, b Dataset) int {
		if c := strings.Compare(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return strings.Compare(a.Filename, b.Filename)
	})
	return datasets, nil
}

// Open opens the named dataset. Only plain file names of supported files in
// the driver directory are accepted.
func (d *FileDriver) Open(ctx context.Context, name string) (recordio.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") || !supported(name) {
		return nil, fmt.Errorf("%w: %q", model.ErrDatasetNotFound, name)
	}

	path := filepath.Join(d.Dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", model.ErrDatasetNotFound, name)
	}
	return recordio.Open(path)
}

// DisplayName turns a file name into a title: "top_100_results.csv" becomes "Top 100 Results".
func DisplayName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return cases.Title(language.Und).String(strings.ReplaceAll(base, "_", " "))
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.Contains(supportedExts, ext)
}
