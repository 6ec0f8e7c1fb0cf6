package initcmd

import (
	"github.com/aymanbagabas/go-udiff"
)

// UnifiedDiff returns a unified diff from oldContent to newContent with three
// lines of context, or "" when they are identical.
func UnifiedDiff(oldName, newName, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}
	return udiff.Unified(oldName, newName, oldContent, newContent)
}
