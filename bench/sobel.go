// Copyright 2025 kernelbench Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bench

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/kernelbench/kernelbench/kb"
	"github.com/kernelbench/kernelbench/kb/contrib/sobel"
)

// Default dimensions of the course input image.
const (
	DefaultSobelWidth  = 3556
	DefaultSobelHeight = 2573
)

// SobelConfig configures RunSobel.
type SobelConfig struct {
	// Input is a headerless 8-bit raw image. When empty a random image is
	// generated from Seed.
	Input string

	// Output receives the filtered image when non-empty.
	Output string

	Width, Height int

	// Workers bounds the number of concurrent row bands; 1 runs the serial
	// filter and <= 0 means kb.Workers().
	Workers int

	Seed uint64
}

// DefaultSobelConfig returns the course defaults.
func DefaultSobelConfig() SobelConfig {
	return SobelConfig{
		Width:   DefaultSobelWidth,
		Height:  DefaultSobelHeight,
		Workers: 0,
		Seed:    uint64(time.Now().UnixNano()),
	}
}

// Validate checks the configuration.
func (c SobelConfig) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return kb.Errorf("bench.SobelConfig", kb.ErrBadSize, "%dx%d", c.Width, c.Height)
	}
	return nil
}

// SobelRecord is the outcome of one filter run.
type SobelRecord struct {
	Width, Height int
	Workers       int
	Elapsed       time.Duration

	// Nonzero counts output pixels above zero.
	Nonzero int
}

// RunSobel loads (or generates) the input, filters it once under the clock
// and optionally writes the result.
func RunSobel(ctx context.Context, cfg SobelConfig, logger logr.Logger) (SobelRecord, error) {
	if err := cfg.Validate(); err != nil {
		return SobelRecord{}, err
	}
	in, err := loadSobelInput(cfg)
	if err != nil {
		return SobelRecord{}, err
	}
	out := sobel.NewImage(cfg.Width, cfg.Height)

	workers := cfg.Workers
	if workers <= 0 {
		workers = kb.Workers()
	}
	logger.Info("Filtering image", "width", cfg.Width, "height", cfg.Height, "workers", workers, "input", cfg.Input)

	start := time.Now()
	if workers == 1 {
		err = sobel.Filter(in, out)
	} else {
		err = sobel.FilterParallel(ctx, in, out, workers)
	}
	elapsed := time.Since(start)
	if err != nil {
		return SobelRecord{}, err
	}

	rec := SobelRecord{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Workers: workers,
		Elapsed: elapsed,
		Nonzero: sobel.CountAbove(out, 0),
	}
	logger.Info("Done", "elapsed", elapsed, "nonzero", rec.Nonzero)

	if cfg.Output != "" {
		if err := sobel.WriteRaw(cfg.Output, out); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func loadSobelInput(cfg SobelConfig) (*sobel.Image, error) {
	if cfg.Input != "" {
		return sobel.ReadRaw(cfg.Input, cfg.Width, cfg.Height)
	}
	rng := kb.NewRand(cfg.Seed)
	img := sobel.NewImage(cfg.Width, cfg.Height)
	for y := range cfg.Height {
		row := img.RowSlice(y)
		for x := range row {
			row[x] = rng.Float32()
		}
	}
	return img, nil
}
