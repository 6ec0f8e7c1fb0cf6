package main

import (
	"context"
	"fmt"

	"github.com/npratt/pullr/internal/content"
	"github.com/npratt/pullr/internal/exec"
	"github.com/npratt/pullr/internal/pull"
)

// shellThenReload runs line through the shell and reloads doc once it
// succeeds. A failing command leaves the current text on screen.
func shellThenReload(sh *exec.ShellRunner, line string, doc *content.Document) pull.Refresher {
	return pull.RefreshFunc(func(ctx context.Context) error {
		if _, err := sh.Run(ctx, line); err != nil {
			return fmt.Errorf("on-refresh command: %w", err)
		}
		return doc.Reload(ctx)
	})
}
