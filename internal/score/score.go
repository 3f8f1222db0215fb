// Package score ranks files for fingerprinting order. A Scorer is a pure
// function of (path, root); it controls only scheduling and reporting
// order, never whether a file is processed.
package score

import (
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Scorer assigns a priority score to a file path. Higher scores are
// fingerprinted and reported earlier. Implementations must not mutate
// filesystem state and must not fail: a path that cannot be scored gets a
// neutral score.
type Scorer interface {
	Score(path, root string) float64
}

// Constant scores every path the same, which disables prioritization.
// The default scorer.
type Constant struct {
	Value float64
}

func (c Constant) Score(string, string) float64 { return c.Value }

// featureCount is the length of the feature vector fed to a Model.
const featureCount = 4

// fileFeatures extracts the model features for one path: log file size,
// a small hash of the extension, depth below the root, and whether the
// extension marks a game asset. Unreadable paths degrade to zero features
// rather than failing the scan.
func fileFeatures(path, root string) [featureCount]float64 {
	var logSize float64
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		logSize = math.Log(float64(info.Size()))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	var sum uint32
	for _, b := range []byte(ext) {
		sum += uint32(b)
	}
	extHash := float64(sum % 1000)

	var depth float64
	if rel, err := filepath.Rel(root, path); err == nil && rel != "." {
		depth = float64(len(strings.Split(rel, string(filepath.Separator))))
	}

	var isAsset float64
	if ext == "uasset" || ext == "umap" {
		isAsset = 1
	}

	return [featureCount]float64{logSize, extHash, depth, isAsset}
}
