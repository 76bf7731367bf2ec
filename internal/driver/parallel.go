package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"afflint/internal/project"
	"afflint/internal/source"
)

// Options configure a multi-file run.
type Options struct {
	Config *project.Config
	// Jobs caps concurrent file checks; 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, short-circuits files whose content and policy
	// have been checked before.
	Cache *DiskCache
}

// CheckPaths validates many charts concurrently. Files are loaded up front
// on one goroutine (the FileSet is not safe for concurrent writes), then
// checked in parallel. Results preserve input order. The first load or
// cache error aborts the run; diagnostics never do.
func CheckPaths(ctx context.Context, fs *source.FileSet, paths []string, opts Options) ([]Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = project.Default()
	}

	ids := make([]source.FileID, len(paths))
	for i, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := checkCached(fs, ids[i], cfg, opts.Cache)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkCached consults the disk cache before running the pipeline. Cache
// hits skip analysis entirely, so Result.File is nil for them; callers that
// need the AST should check without a cache.
func checkCached(fs *source.FileSet, id source.FileID, cfg *project.Config, cache *DiskCache) (Result, error) {
	if cache == nil {
		return CheckFile(fs, id, cfg), nil
	}

	file := fs.Get(id)
	key := cacheKey(file, cfg)

	if bag, ok, err := cache.Get(key, id, cfg.MaxDiagnostics); err == nil && ok {
		return Result{Path: file.Path, FileID: id, Bag: bag}, nil
	}

	res := CheckFile(fs, id, cfg)
	if err := cache.Put(key, res.Bag); err != nil {
		return Result{}, err
	}
	return res, nil
}
