package main

import (
	"runtime"

	"github.com/alnah/go-htmlloader/internal/config"
)

// resolvePoolSize determines the number of workers.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for
// containers). Transforms are CPU bound, so every available core is used.
func resolvePoolSize(workers, jobs int) int {
	n := workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	n = min(n, config.MaxWorkers)
	if jobs > 0 {
		n = min(n, jobs)
	}
	return max(n, 1)
}
