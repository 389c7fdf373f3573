// Package build is the host side of the pipeline: it finds markup
// files under a root, runs the loader over each and writes the
// generated modules out.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/3-lines-studio/glyph"
	"github.com/3-lines-studio/glyph/internal/cli"
)

var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".glyph":       {},
	"dist":         {},
}

func shouldSkipDir(name string) bool {
	_, exists := skipDirs[name]
	return exists
}

// Scan walks root and returns every .svg file, in walk order.
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".svg") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Result records the outcome for one input file.
type Result struct {
	Path    string
	OutPath string
	Err     error
}

// Service drives the loader over a file tree.
type Service struct {
	loader   *glyph.Loader
	output   *cli.Output
	rawQuery string
	outDir   string
}

func NewService(loader *glyph.Loader, output *cli.Output, rawQuery string, outDir string) *Service {
	return &Service{
		loader:   loader,
		output:   output,
		rawQuery: rawQuery,
		outDir:   outDir,
	}
}

// Build transforms every markup file under root. A failing file does
// not stop the rest; per-file outcomes land in the returned results.
func (s *Service) Build(root string) ([]Result, error) {
	files, err := Scan(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, s.buildFile(root, file))
	}
	return results, nil
}

func (s *Service) buildFile(root, path string) Result {
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	var query any
	if s.rawQuery != "" {
		query = s.rawQuery
	}

	s.loader.Load(string(data), path, query, func(err error, code string) {
		if err != nil {
			result.Err = err
			return
		}

		outPath, pathErr := s.outPath(root, path)
		if pathErr != nil {
			result.Err = pathErr
			return
		}
		if mkErr := os.MkdirAll(filepath.Dir(outPath), 0o755); mkErr != nil {
			result.Err = mkErr
			return
		}

		result.OutPath = outPath
		result.Err = os.WriteFile(outPath, []byte(code), 0o644)
	})

	return result
}

// outPath picks the generated module location: a sibling of the input
// file, or the input's relative path grafted under the out dir.
func (s *Service) outPath(root, path string) (string, error) {
	if s.outDir == "" {
		return path + ".js", nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.outDir, rel+".js"), nil
}

// Watch rebuilds markup files as they change until ctx is done.
func (s *Service) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watchDirs(watcher, root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldAddWatchDir(event) {
				if err := watchDirs(watcher, event.Name); err != nil {
					slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			if !isWatchEvent(event.Op) || !strings.EqualFold(filepath.Ext(event.Name), ".svg") {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				continue
			}

			result := s.buildFile(root, event.Name)
			if result.Err != nil {
				s.output.PrintError("%s", result.Path)
			} else {
				s.output.PrintSuccess("%s", result.OutPath)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func watchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unwatchable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if shouldSkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func shouldAddWatchDir(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create == 0 {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}
	return info.IsDir() && !shouldSkipDir(info.Name())
}
