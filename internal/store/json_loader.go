package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

// JSONDirLoader reads every *.json file in a directory.
// Each file holds either one stock object or a list of them.
type JSONDirLoader struct {
	dir    string
	logger *logger.Logger
}

// NewJSONDirLoader creates a loader for dir
func NewJSONDirLoader(dir string, log *logger.Logger) *JSONDirLoader {
	return &JSONDirLoader{dir: dir, logger: log}
}

// Load implements contracts.StockLoader. Unreadable files are logged and skipped.
func (l *JSONDirLoader) Load(ctx context.Context) ([]contracts.Stock, error) {
	files, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", l.dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JSON files found in directory: %s", l.dir)
	}
	sort.Strings(files)

	var stocks []contracts.Stock
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := readStockFile(path)
		if err != nil {
			l.logger.WithError(err).WithField("file", path).Error("Failed to load stock file")
			continue
		}
		stocks = append(stocks, loaded...)
	}

	l.logger.WithFields(map[string]interface{}{
		"dir":    l.dir,
		"files":  len(files),
		"stocks": len(stocks),
	}).Info("Stock data loaded")

	return stocks, nil
}

func readStockFile(path string) ([]contracts.Stock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	switch trimmed[0] {
	case '[':
		var list []contracts.Stock
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var one contracts.Stock
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, err
		}
		return []contracts.Stock{one}, nil
	default:
		return nil, fmt.Errorf("unexpected data format")
	}
}
