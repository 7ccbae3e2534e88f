package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/medialab/tesselle/config"
	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/imaging/vips"
)

// app holds what the persistent flags produce for the subcommands.
type app struct {
	configFile string
	config     *config.Config
	logger     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "tesselle",
		Short: "Static IIIF tile pyramids",
		Long: `Tesselle cuts images into the static tiles of the IIIF Image API level 0.

The tiles can be exported to a directory or a zip archive, ready to be
published next to a static website, or served for a preview.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", os.Getenv("TESSELLE_CONFIG"), "TOML configuration file")

	cmd.AddCommand(newTileCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newInfoCmd(a))

	return cmd
}

func (a *app) setup() error {
	if a.configFile == "" {
		a.config = config.Default()
	} else {
		c, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.config = c
	}

	logger, err := newLogger(a.config.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	if a.configFile != "" {
		logger.WithField("file", a.configFile).Debug("Configuration loaded")
	}
	return nil
}

// opener picks the imaging backend of the configuration.
func (a *app) opener() imaging.Opener {
	if a.config.Images.Backend == config.BackendVips {
		return vips.Vips{Quality: a.config.Images.Quality}
	}
	return imaging.Draw{Quality: a.config.Images.Quality}
}

// open reads and decodes a local image.
func (a *app) open(file string) (*openedImage, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	img, err := a.opener().Open(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return &openedImage{img, len(buf)}, nil
}
