package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/shipdash/internal/console"
	"github.com/JonMunkholm/shipdash/internal/core"
	"github.com/JonMunkholm/shipdash/internal/logging"
	"github.com/JonMunkholm/shipdash/internal/render"
)

func (a *app) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the dashboard files",
		Long: `Runs the pipeline once and writes one file per format, named
shipment_dashboard_<YYYY-MM-DD>.<ext>. Nothing is written if the export
cannot be loaded.`,
		Args: cobra.NoArgs,
		RunE: a.runBuild,
	}
	cmd.Flags().StringVarP(&a.outDir, "out-dir", "o", "", "Directory for the generated files (default: SHIPDASH_OUT_DIR)")
	cmd.Flags().StringSliceVarP(&a.formats, "formats", "f", nil, "Formats to write (default: SHIPDASH_FORMATS)")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	report, err := a.report(cmd)
	if err != nil {
		return err
	}

	formats := normalizeFormats(a.cfg.Output.Formats)
	renderers := make([]render.Format, 0, len(formats))
	for _, name := range formats {
		f, err := render.Lookup(name)
		if err != nil {
			return err
		}
		renderers = append(renderers, f)
	}

	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("write report: create %s: %w", a.cfg.Output.Dir, err)
	}

	opts := a.renderOptions()
	written := make([]string, 0, len(renderers))
	for _, f := range renderers {
		path, err := writeReport(cmd, f, opts, report, a.cfg.Output.Dir)
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	return console.Summary(a.stdout, report, written)
}

// writeReport renders report fully in memory, then writes it atomically.
func writeReport(cmd *cobra.Command, f render.Format, opts render.Options, report *core.ReportModel, dir string) (path string, err error) {
	ctx := cmd.Context()
	defer logging.Time(ctx, "render "+f.Name)(&err)

	var buf bytes.Buffer
	if err := f.New(opts).Render(ctx, &buf, report); err != nil {
		return "", fmt.Errorf("render %s: %w", f.Name, err)
	}

	path = filepath.Join(dir, f.FileName(report))
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	logging.FromContext(ctx).Info("report written", "format", f.Name, "path", path, "bytes", buf.Len())
	return path, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial report.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
