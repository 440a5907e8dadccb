package snapshot

import (
	"hermes/internal/remote"
)

// Select picks the export that represents the current directory. A file named
// target wins when present; otherwise the file with the greatest
// (ModifiedAt, Name) pair is chosen, with a missing timestamp ordering before
// every real one. Select returns nil for an empty listing.
func Select(files []remote.File, target string) *remote.File {
	if len(files) == 0 {
		return nil
	}
	if target != "" {
		for i := range files {
			if files[i].Name == target {
				selected := files[i]
				return &selected
			}
		}
	}

	best := 0
	for i := 1; i < len(files); i++ {
		if newer(files[i], files[best]) {
			best = i
		}
	}
	selected := files[best]
	return &selected
}

func newer(a, b remote.File) bool {
	switch {
	case a.ModifiedAt.After(b.ModifiedAt):
		return true
	case a.ModifiedAt.Before(b.ModifiedAt):
		return false
	default:
		return a.Name > b.Name
	}
}
