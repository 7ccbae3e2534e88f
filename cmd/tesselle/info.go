package main

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medialab/tesselle/profile"
	"github.com/medialab/tesselle/pyramid"
)

func newInfoCmd(a *app) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "info IMAGE",
		Short: "Print the info.json of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.open(args[0])
			if err != nil {
				return err
			}

			opts := pyramid.Options{
				TileSize:     a.config.Tiles.Size,
				ScaleFactors: a.config.Tiles.ScaleFactors,
			}
			id := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			if baseURL != "" {
				id = strings.TrimSuffix(baseURL, "/") + "/" + id
			}

			info := profile.NewProfile(id, img.Width(), img.Height(), opts.TileSize, pyramid.Generate(img, opts).ScaleFactors())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL prefixing the identifier")

	return cmd
}
