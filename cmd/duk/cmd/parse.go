package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/DucktectiveCZ/duklang/internal/ast"
	"github.com/DucktectiveCZ/duklang/internal/astdump"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

type parseOptions struct {
	format string
	watch  bool
}

func newParseCmd(g *globalOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse modules and print the syntax tree",
		Long: `Parse one or more duk modules.

The tree is printed as normalised source (every operator parenthesised)
or as a YAML document. The first syntax error in a file is reported with
a source snippet and the command exits with status 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := opts.format
			if format == "" {
				format = g.cfg.Output.Format
			}
			if format != "source" && format != "yaml" {
				return fmt.Errorf("unknown output format %q (want source or yaml)", format)
			}

			failed := false
			for _, path := range args {
				if !g.parseFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), path, format, len(args) > 1) {
					failed = true
				}
			}

			if opts.watch {
				return g.watch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, format)
			}
			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: source or yaml (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-parse the files whenever they are written")
	return cmd
}

// parseFile parses one file and prints the result. It reports whether the
// file parsed cleanly; failures are already printed to errOut.
func (g *globalOptions) parseFile(out, errOut io.Writer, path, format string, banner bool) bool {
	f := g.formatter(errOut)

	data, err := os.ReadFile(path)
	if err != nil {
		report(f, errOut, fmt.Errorf("failed to read %s: %w", path, err))
		return false
	}
	src := string(data)
	f.AddSource(path, src)

	start := time.Now()
	mod, err := parser.ParseModule(src, parser.WithFilename(path))
	if err != nil {
		g.logger.Debug("parse failed", "file", path, "bytes", len(data), "error", err)
		report(f, errOut, err)
		return false
	}
	g.logger.Debug("parsed module",
		"file", path,
		"bytes", len(data),
		"members", len(mod.Members),
		"duration", time.Since(start),
	)

	switch format {
	case "yaml":
		if banner {
			fmt.Fprintf(out, "--- # %s\n", path)
		}
		if err := astdump.Encode(out, mod); err != nil {
			report(f, errOut, err)
			return false
		}
	default:
		if banner {
			fmt.Fprintf(out, "// %s\n", path)
		}
		fmt.Fprint(out, ast.Format(mod))
	}
	return true
}

// watch re-parses paths on every write until ctx is cancelled. The parent
// directories are watched so that editors replacing a file by rename are
// still noticed.
func (g *globalOptions) watch(ctx context.Context, out, errOut io.Writer, paths []string, format string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		files[filepath.Clean(p)] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	g.logger.Info("watching for changes", "files", len(files), "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !files[name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			g.logger.Debug("file changed", "file", name, "op", event.Op.String())
			g.parseFile(out, errOut, name, format, len(files) > 1)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("watch error", "error", err)
		}
	}
}
