package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/medialab/tesselle/cache"
	"github.com/medialab/tesselle/iiif"
	"github.com/medialab/tesselle/source"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host  string
		port  int
		root  string
		self  string
		peers []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tiles of a directory of images",
		Long: `Serves the static tiles and info.json of the images found under the root
directory, exactly as "tesselle tile" would export them, with a Leaflet viewer
at /{identifier}/leaflet.html.`,
		Example: `  # Serve ./images on port 8080
  tesselle serve --root images --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.config
			if host != "" {
				c.Host = host
			}
			if port > 0 {
				c.Port = port
			}
			if root != "" {
				c.Images.Root = root
			}

			sources := source.Chain{source.NewDisk(c.Images.Root)}
			if c.Images.Remote {
				sources = append(sources, source.NewHTTP(&http.Client{Timeout: 30 * time.Second}))
			}

			rasters, err := cache.NewRasters(c.Cache.RastersSize)
			if err != nil {
				return err
			}
			defer rasters.Close()

			images := &iiif.Images{
				Source:  sources,
				Opener:  a.opener(),
				Rasters: rasters,
			}

			// the first peer is this server
			peer, err := selfPeer(self, c.Host, c.Port)
			if err != nil {
				return err
			}
			a.logger.WithFields(logrus.Fields{
				"self":  peer,
				"peers": peers,
			}).Debug("Groupcache peers")
			handler := iiif.WithLogger(iiif.NewHandler(c, images, append([]string{peer}, peers...)...), a.logger)

			server := &http.Server{
				Addr:    c.Listen(),
				Handler: handler,
			}

			serverErr := make(chan error, 1)
			go func() {
				a.logger.WithField("addr", c.Listen()).Info("Server running")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				a.logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.WithError(err).Error("Server shutdown failed")
					return err
				}
				a.logger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to bind, overrides the configuration")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on, overrides the configuration")
	cmd.Flags().StringVarP(&root, "root", "r", "", "Directory of the source images")
	cmd.Flags().StringVar(&self, "self", "", "URL the other peers know this server by, as http://host:port/")
	cmd.Flags().StringSliceVar(&peers, "peer", nil, "Other groupcache peers, as http://host:port/")

	return cmd
}

// selfPeer is the groupcache name of this server. An unspecified bind
// address is replaced by the host name, as the other peers cannot list it.
func selfPeer(self, host string, port int) (string, error) {
	if self != "" {
		return strings.TrimSuffix(self, "/") + "/", nil
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		name, err := os.Hostname()
		if err != nil {
			return "", fmt.Errorf("cannot advertise %#v, use --self: %w", host, err)
		}
		host = name
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, strconv.Itoa(port))), nil
}
