package replica

import (
	"fmt"
	"strings"
)

// PathSeparator delimits the segments of a tree path.
const PathSeparator = "/"

// OnlinePath is the synthetic path marked dirty whenever the connection
// opens or closes. It is never stored in the tree.
const OnlinePath = "online"

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	segments := strings.Split(path, PathSeparator)
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
	}

	return segments, nil
}

// JoinPath joins segments with [PathSeparator].
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}
