package engine

import (
	"os"

	mapset "github.com/deckarep/golang-set/v2"
)

// inflightTmp tracks temp files that have not been published yet, so an
// interrupted merge can remove them before exiting.
var inflightTmp = mapset.NewSet[string]()

// RegisterTmp records a temp file path.
func RegisterTmp(path string) {
	inflightTmp.Add(path)
}

// DeregisterTmp forgets a temp file path.
func DeregisterTmp(path string) {
	inflightTmp.Remove(path)
}

// CleanupTmpFiles removes every registered temp file and returns how many
// were removed.
func CleanupTmpFiles() int {
	removed := 0
	for _, p := range inflightTmp.ToSlice() {
		inflightTmp.Remove(p)
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	return removed
}
