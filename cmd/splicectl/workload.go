package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	modeSingle = "single"
	modeBulk   = "bulk"

	orderLIFO = "lifo"
	orderFIFO = "fifo"
)

// Workload describes one bench run. It can be read from a TOML file:
//
//	block_size = 64
//	count      = 10000
//	rounds     = 20
//	mode       = "single"
//	order      = "fifo"
//	max_blocks = 0
//	prealloc   = 0
type Workload struct {
	BlockSize int    `toml:"block_size" json:"block_size"`
	Count     int    `toml:"count"      json:"count"`
	Rounds    int    `toml:"rounds"     json:"rounds"`
	Mode      string `toml:"mode"       json:"mode"`
	Order     string `toml:"order"      json:"order"`
	MaxBlocks int    `toml:"max_blocks" json:"max_blocks"`
	Prealloc  int    `toml:"prealloc"   json:"prealloc"`
}

func defaultWorkload() Workload {
	return Workload{
		BlockSize: 64,
		Count:     10000,
		Rounds:    10,
		Mode:      modeSingle,
		Order:     orderLIFO,
	}
}

// loadWorkload reads path over the defaults. Keys missing from the file
// keep their default values.
func loadWorkload(path string) (Workload, error) {
	w := defaultWorkload()

	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("failed to read workload: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return w, fmt.Errorf("workload %s: %s", path, strict.String())
		}
		return w, fmt.Errorf("workload %s: %w", path, err)
	}

	return w, nil
}

func (w Workload) validate() error {
	switch {
	case w.BlockSize <= 0:
		return fmt.Errorf("block size must be positive, got %d", w.BlockSize)
	case w.Count < 0:
		return fmt.Errorf("count must not be negative, got %d", w.Count)
	case w.Rounds <= 0:
		return fmt.Errorf("rounds must be positive, got %d", w.Rounds)
	case w.MaxBlocks < 0:
		return fmt.Errorf("max blocks must not be negative, got %d", w.MaxBlocks)
	case w.Prealloc < 0:
		return fmt.Errorf("prealloc must not be negative, got %d", w.Prealloc)
	}

	if w.Mode != modeSingle && w.Mode != modeBulk {
		return fmt.Errorf("unknown mode %q (want %s or %s)", w.Mode, modeSingle, modeBulk)
	}
	if w.Order != orderLIFO && w.Order != orderFIFO {
		return fmt.Errorf("unknown order %q (want %s or %s)", w.Order, orderLIFO, orderFIFO)
	}

	return nil
}
