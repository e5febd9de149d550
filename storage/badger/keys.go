package badger

import (
	"fmt"

	"github.com/poiesic/vecpipe/core"
)

// Key prefixes for different data types
const (
	artifactPrefix   = "artrec"
	checkpointPrefix = "chkpt"
)

// makeArtifactKey generates a key for an artifact by ID.
func makeArtifactKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", artifactPrefix, id))
}

// makeCheckpointKey generates a key for a run checkpoint.
func makeCheckpointKey(runID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, runID))
}
