package worldmap

import "github.com/cespare/xxhash/v2"

// hashGrid fingerprints the row-major grid contents. The original reference
// implementation uses `hash(tuple(map(tuple, grid)))`, a process-local hash
// with no fixed algorithm; this repo uses xxhash over the row-major byte
// contents instead, which gives the same "changes iff the grid changes"
// property without pulling in a cryptographic hash for a non-adversarial
// use. xxhash is already pulled in transitively by prometheus/client_golang,
// so this reuses rather than adds a library.
func hashGrid(grid [][]int) uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 4096)
	for _, row := range grid {
		buf = buf[:0]
		for _, v := range row {
			if v == 0 {
				buf = append(buf, 0)
			} else {
				buf = append(buf, 1)
			}
		}
		h.Write(buf)
	}
	return h.Sum64()
}
