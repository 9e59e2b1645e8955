// objmesh - Wavefront OBJ/MTL inspector and converter.
// Loads OBJ models into compact indexed meshes, prints their structure,
// and exports them as binary glTF or STL.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/objmesh/internal/config"
	"github.com/taigrr/objmesh/internal/logger"
	"github.com/taigrr/objmesh/pkg/models"
)

var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "objmesh",
		Short: "Wavefront OBJ/MTL inspector and converter",
		Long: `objmesh - Wavefront OBJ/MTL inspector and converter

Loads OBJ models (with their MTL material libraries) into compact indexed
meshes. Faces are fan-triangulated, identical vertices are shared, and
normals or texture coordinates are kept only when every face provides them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(&flags)
			if err != nil {
				return err
			}
			return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	flags.Bind(root.PersistentFlags())

	infoCmd := &cobra.Command{
		Use:   "info <model.obj>...",
		Short: "Display model information",
		Long: `Display the structure of OBJ models: vertex and triangle counts, attribute presence, bounding box, and the object/group/material tree.

Models are loaded in order by one loader, so --keep-materials and
--global-materials make materials of earlier models visible to later ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLoader(cfg)
			if err != nil {
				return err
			}
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := runInfo(cmd.OutOrStdout(), cfg, l, path); err != nil {
					return err
				}
			}
			return nil
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert <model.obj> <out.glb|out.stl>",
		Short: "Convert a model to binary glTF or STL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), cfg, args[0], args[1])
		},
	}

	root.AddCommand(infoCmd, convertCmd)
	return root
}

// newLoader builds an OBJ loader from the configuration.
func newLoader(cfg *config.Config) (*models.OBJLoader, error) {
	l := models.NewOBJLoader()
	l.KeepMaterials = cfg.Loader.KeepMaterials
	l.GlobalMaterials = cfg.Loader.GlobalMaterials
	l.BufferSize = cfg.Loader.BufferSize
	l.Logger = logger.Log

	if cfg.Loader.SharedMaterials != "" {
		shared, err := models.LoadMaterialLibrary(cfg.Loader.SharedMaterials, logger.Log)
		if err != nil {
			return nil, fmt.Errorf("load shared materials: %w", err)
		}
		logger.Log.Debug("shared materials loaded",
			zap.String("file", cfg.Loader.SharedMaterials), zap.Int("count", len(shared)))
		l.Use(shared)
	} else if cfg.Loader.GlobalMaterials {
		l.Use(models.MaterialMap{})
	}
	return l, nil
}

func loadOptions(cfg *config.Config) models.LoadOptions {
	opts := models.LoadOptions{MaxDimension: cfg.Transform.MaxDimension}
	if cfg.Transform.Center {
		var origin mgl32.Vec3
		copy(origin[:], cfg.Transform.Origin)
		opts.Origin = &origin
	}
	return opts
}

func loadModel(cfg *config.Config, l *models.OBJLoader, path string) (*models.Mesh, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".obj" {
		return nil, fmt.Errorf("unsupported format: %s (use .obj)", ext)
	}
	mesh, err := l.LoadFileWith(path, loadOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return mesh, nil
}

func runInfo(w io.Writer, cfg *config.Config, l *models.OBJLoader, modelPath string) error {
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	mesh, err := loadModel(cfg, l, modelPath)
	if err != nil {
		return err
	}

	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(modelPath))
	fmt.Fprintf(w, "Format:     OBJ\n")
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Normals:    %s\n", yesNo(mesh.HasNormals()))
	fmt.Fprintf(w, "TexCoords:  %s\n", yesNo(mesh.HasTexCoords()))
	fmt.Fprintf(w, "Materials:  %d\n", len(mesh.Materials))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X(), mesh.BoundsMin.Y(), mesh.BoundsMin.Z())
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X(), mesh.BoundsMax.Y(), mesh.BoundsMax.Z())
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X(), size.Y(), size.Z())
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X(), center.Y(), center.Z())
	fmt.Fprintln(w)

	for _, obj := range mesh.Objects {
		fmt.Fprintf(w, "Object %s\n", displayName(obj.Name))
		for _, grp := range obj.Groups {
			fmt.Fprintf(w, "  Group %s\n", displayName(grp.Name))
			for _, mg := range grp.MaterialGroups {
				bound := "default"
				if mesh.Material(mg.Name) != nil {
					bound = "defined"
				}
				fmt.Fprintf(w, "    Material %s (%s): %d triangles\n", displayName(mg.Name), bound, mg.TriangleCount())
			}
		}
	}
	return nil
}

func runConvert(w io.Writer, cfg *config.Config, modelPath, outPath string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
	if format == "" {
		format = cfg.Export.Format
		outPath += "." + format
	}
	save, ok := exporters[format]
	if !ok {
		return fmt.Errorf("unsupported output format: %q (use .glb or .stl)", format)
	}

	l, err := newLoader(cfg)
	if err != nil {
		return err
	}
	mesh, err := loadModel(cfg, l, modelPath)
	if err != nil {
		return err
	}
	if err := save(mesh, outPath); err != nil {
		return err
	}

	logger.Log.Info("model converted",
		zap.String("input", modelPath), zap.String("output", outPath),
		zap.Int("vertices", mesh.VertexCount()), zap.Int("triangles", mesh.TriangleCount()))
	fmt.Fprintf(w, "Wrote %s (%d vertices, %d triangles)\n", outPath, mesh.VertexCount(), mesh.TriangleCount())
	return nil
}

var exporters = map[string]func(*models.Mesh, string) error{
	"glb": models.SaveGLB,
	"stl": models.SaveSTL,
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func displayName(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}
