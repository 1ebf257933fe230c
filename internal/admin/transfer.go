package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/csvcodec"
)

// Export writes the CSV of one collection to w and returns its download name.
func (a *Admin) Export(ctx context.Context, target string, w io.Writer) (string, error) {
	var (
		exp core.Export
		err error
	)
	switch target {
	case TargetIdentities:
		exp, err = a.Store.ExportIdentities(ctx)
	case TargetAttendance:
		exp, err = a.Store.ExportAttendance(ctx)
	default:
		return "", fmt.Errorf("unknown export target %q (want identities or attendance)", target)
	}
	if err != nil {
		return "", err
	}

	if _, err := io.WriteString(w, exp.Content); err != nil {
		return "", fmt.Errorf("write %s: %w", exp.Filename, err)
	}
	return exp.Filename, nil
}

// Import registers identities from CSV read from r, or only previews the
// result when dryRun is set. Input is cleaned the same way HTTP uploads are.
func (a *Admin) Import(ctx context.Context, r io.Reader, dryRun bool) (core.ImportResult, error) {
	data, err := io.ReadAll(csvcodec.Sanitize(r))
	if err != nil {
		return core.ImportResult{}, fmt.Errorf("read import: %w", err)
	}
	if dryRun {
		return a.Store.PreviewImport(ctx, string(data))
	}
	return a.Store.ImportIdentities(ctx, string(data))
}
