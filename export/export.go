package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/medialab/tesselle/profile"
	"github.com/medialab/tesselle/pyramid"
)

// InfoFile is the name of the IIIF document written next to the tiles.
const InfoFile = "info.json"

// Exporter resolves the tiles of a pyramid and writes them.
type Exporter struct {
	Writer Writer
	// Concurrency bounds the payloads resolved at the same time.
	Concurrency int
	// BaseURL prefixes the @id of info.json.
	BaseURL string
	Logger  logrus.FieldLogger
}

// Summary describes a finished export.
type Summary struct {
	ID    string
	Tiles int
	// Empty counts the tiles without pixels, which are not written.
	Empty        int
	Bytes        int64
	ScaleFactors []int
}

// Export writes the tiles of img under id, followed by its info.json. An empty
// id is replaced by a random one. The first failure stops the export.
func (e *Exporter) Export(ctx context.Context, id string, img pyramid.Image, opts pyramid.Options) (*Summary, error) {
	if id == "" {
		id = uuid.NewString()
	}
	id = strings.Trim(id, "/")

	logger := e.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("id", id)

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	gen := pyramid.Generate(img, opts)
	summary := &Summary{
		ID:           id,
		ScaleFactors: gen.ScaleFactors(),
	}
	logger.WithFields(logrus.Fields{
		"width":        img.Width(),
		"height":       img.Height(),
		"tileSize":     opts.TileSize,
		"scaleFactors": summary.ScaleFactors,
	}).Info("Exporting pyramid")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for gen.Next() {
		if gctx.Err() != nil {
			break
		}

		tile := gen.Tile()
		if tile.Region.Empty() {
			summary.Empty++
			logger.WithField("path", tile.Path).Debug("Empty tile skipped")
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			body, err := tile.Payload()
			if err != nil {
				return fmt.Errorf("%s: %w", tile.Path, err)
			}
			if err := e.Writer.Write(id+tile.Path, body); err != nil {
				return fmt.Errorf("%s: %w", tile.Path, err)
			}

			mu.Lock()
			summary.Tiles++
			summary.Bytes += int64(len(body))
			mu.Unlock()

			logger.WithFields(logrus.Fields{
				"path":  tile.Path,
				"bytes": len(body),
			}).Debug("Tile written")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := profile.NewProfile(e.infoID(id), img.Width(), img.Height(), opts.TileSize, summary.ScaleFactors)
	buffer, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := e.Writer.Write(id+"/"+InfoFile, buffer); err != nil {
		return nil, fmt.Errorf("%s: %w", InfoFile, err)
	}
	summary.Bytes += int64(len(buffer))

	logger.WithFields(logrus.Fields{
		"tiles": summary.Tiles,
		"empty": summary.Empty,
		"bytes": summary.Bytes,
	}).Info("Pyramid exported")
	return summary, nil
}

func (e *Exporter) infoID(id string) string {
	if e.BaseURL == "" {
		return id
	}
	return strings.TrimSuffix(e.BaseURL, "/") + "/" + id
}
