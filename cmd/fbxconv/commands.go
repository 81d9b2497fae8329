package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/fbxscene/pkg/convert"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

// result is one converted document.
type result struct {
	name  string
	scene *scene.Scene
	diag  *convert.Diagnostics
}

// convert loads and converts a single document.
func (a *app) convert(name string) (*result, error) {
	doc, err := a.docs.Load(name)
	if err != nil {
		return nil, err
	}
	s, diag, err := convert.Convert(doc, a.cfg.ConvertOptions(a.log.With(zap.String("document", name))))
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", name, err)
	}
	return &result{name: name, scene: s, diag: diag}, nil
}

// convertAll converts names on up to cfg.Convert.Workers goroutines. Results
// keep the order of names; failed documents leave a nil entry and contribute
// to the returned error.
func (a *app) convertAll(names []string) ([]*result, error) {
	results := make([]*result, len(names))

	var (
		mu   sync.Mutex
		errs error
	)
	g := new(errgroup.Group)
	g.SetLimit(a.cfg.Convert.Workers)
	for i, name := range names {
		g.Go(func() error {
			res, err := a.convert(name)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

func (a *app) cmdConvert(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: convert <doc.yaml>...", errUsage)
	}
	if len(args) > 1 && a.cfg.Output.Path == "" {
		return fmt.Errorf("%w: converting several documents needs -o <dir>", errUsage)
	}

	results, errs := a.convertAll(args)
	for _, res := range results {
		if res == nil {
			continue
		}
		errs = multierr.Append(errs, a.write(res, len(args) > 1))
	}
	return errs
}

// write stores res at the configured output. With toDir the output path is a
// directory holding one file per document.
func (a *app) write(res *result, toDir bool) error {
	path := a.cfg.Output.Path
	if path == "" {
		return writeScene(a.stdout, res.scene, a.cfg.Output.Format)
	}
	if toDir {
		base := strings.TrimSuffix(filepath.Base(res.name), filepath.Ext(res.name))
		path = filepath.Join(path, base+"."+a.cfg.Output.Format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeScene(f, res.scene, a.cfg.Output.Format); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.log.Info("wrote scene",
		zap.String("document", res.name),
		zap.String("path", path),
		zap.Int("warnings", res.diag.Count(zapcore.WarnLevel)),
		zap.Int("errors", res.diag.Count(zapcore.ErrorLevel)))
	return nil
}

func (a *app) cmdInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: info <doc.yaml>", errUsage)
	}

	doc, err := a.docs.Load(args[0])
	if err != nil {
		return err
	}
	res, err := a.convert(args[0])
	if err != nil {
		return err
	}
	s := res.scene
	w := a.stdout

	fmt.Fprintf(w, "Document:    %s\n", args[0])
	fmt.Fprintf(w, "Objects:     %d\n", len(doc.Objects()))
	fmt.Fprintf(w, "Connections: %d\n", len(doc.Connections()))
	fmt.Fprintf(w, "Nodes:       %d\n", s.NodeCount())
	fmt.Fprintf(w, "Meshes:      %d\n", len(s.Meshes))
	fmt.Fprintf(w, "Materials:   %d\n", len(s.Materials))

	if len(s.Meshes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Meshes:")
		for i, m := range s.Meshes {
			fmt.Fprintf(w, "  [%d] %-16s %5d vertices %5d faces  %-16s uv:%d color:%d material:%d\n",
				i, m.Name, len(m.Vertices), len(m.Faces), m.PrimitiveTypes,
				m.NumUVChannels(), m.NumColorChannels(), m.MaterialIndex)
		}
	}

	if len(s.Materials) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Materials:")
		for i, m := range s.Materials {
			fmt.Fprintf(w, "  [%d] %-16s %-8s textures:%d\n", i, m.Name, m.ShadingModel, len(m.Textures))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Warnings:    %d\n", res.diag.Count(zapcore.WarnLevel))
	fmt.Fprintf(w, "Errors:      %d\n", res.diag.Count(zapcore.ErrorLevel))
	for _, d := range res.diag.Entries() {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}

func (a *app) cmdTree(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: tree <doc.yaml>", errUsage)
	}

	res, err := a.convert(args[0])
	if err != nil {
		return err
	}

	res.scene.Root.Walk(func(n *scene.Node, depth int) {
		line := strings.Repeat("  ", depth) + n.Name
		if len(n.Meshes) > 0 {
			line += fmt.Sprintf(" %v", n.Meshes)
		}
		fmt.Fprintln(a.stdout, line)
	})
	return nil
}

// cmdWatch converts once, then converts a document again each time its file
// changes, until ctx is done.
func (a *app) cmdWatch(ctx context.Context, args []string) error {
	if err := a.cmdConvert(args); err != nil {
		return err
	}

	watched := make(map[string]string, len(args))
	paths := make([]string, 0, len(args))
	for _, name := range args {
		path, err := a.docs.Resolve(name)
		if err != nil {
			return err
		}
		watched[path] = name
		paths = append(paths, path)
	}

	err := a.docs.Watch(ctx, paths, func(path string) {
		name, ok := watched[path]
		if !ok {
			return
		}
		res, err := a.convert(name)
		if err == nil {
			err = a.write(res, len(args) > 1)
		}
		if err != nil {
			a.log.Error("reconversion failed", zap.String("document", name), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	a.log.Info("watching documents", zap.Int("count", len(watched)))
	<-ctx.Done()
	return nil
}
