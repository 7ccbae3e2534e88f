package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/medialab/tesselle/export"
	"github.com/medialab/tesselle/pyramid"
)

// openedImage is a decoded local image.
type openedImage struct {
	pyramid.Image
	size int
}

func newTileCmd(a *app) *cobra.Command {
	var (
		out      string
		zipFile  string
		id       string
		baseURL  string
		tileSize int
		factors  []int
	)

	cmd := &cobra.Command{
		Use:   "tile IMAGE",
		Short: "Export the static tiles of an image",
		Long: `Cuts IMAGE into its tile pyramid and writes the tiles with their info.json,
either under a directory or into a zip archive.`,
		Example: `  # Write the tiles under ./tiles/cover
  tesselle tile cover.png --out tiles --id cover

  # Build a zip archive, with absolute identifiers in info.json
  tesselle tile cover.png --zip cover.zip --base-url https://example.org/tiles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" && zipFile != "" {
				return errors.New("--out and --zip are mutually exclusive")
			}

			img, err := a.open(args[0])
			if err != nil {
				return err
			}

			if id == "" {
				id = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			opts := pyramid.Options{
				TileSize:       a.config.Tiles.Size,
				ScaleFactors:   a.config.Tiles.ScaleFactors,
				SkipEmptyTiles: a.config.Tiles.SkipEmpty,
			}
			if tileSize > 0 {
				opts.TileSize = tileSize
			}
			if len(factors) > 0 {
				opts.ScaleFactors = factors
			}

			var writer export.Writer
			if zipFile != "" {
				f, err := os.Create(zipFile)
				if err != nil {
					return err
				}
				defer f.Close()
				writer = export.NewZipWriter(f)
			} else {
				if out == "" {
					out = "."
				}
				writer = &export.DirWriter{Root: out}
			}

			exporter := &export.Exporter{
				Writer:      writer,
				Concurrency: a.config.Export.Concurrency,
				BaseURL:     baseURL,
				Logger:      a.logger,
			}

			summary, err := exporter.Export(cmd.Context(), id, img, opts)
			if closeErr := writer.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			a.logger.WithField("source", bytefmt.ByteSize(uint64(img.size))).Infof(
				"%s: %d tiles, %s, scale factors %v",
				summary.ID, summary.Tiles, bytefmt.ByteSize(uint64(summary.Bytes)), summary.ScaleFactors,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Directory receiving the tiles")
	cmd.Flags().StringVarP(&zipFile, "zip", "z", "", "Zip archive receiving the tiles")
	cmd.Flags().StringVar(&id, "id", "", "Identifier of the image, defaults to the file name")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL prefixing the identifier in info.json")
	cmd.Flags().IntVarP(&tileSize, "tile-size", "t", 0, "Tile size, overrides the configuration")
	cmd.Flags().IntSliceVar(&factors, "scale-factors", nil, "Scale factors, computed from the size when empty")

	return cmd
}
