package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manzanit0/photon/pkg/env"
	"github.com/manzanit0/photon/pkg/logger"
	"github.com/manzanit0/photon/pkg/photon"
	"github.com/manzanit0/photon/pkg/whttp"
)

// app holds what every subcommand needs once the persistent flags are parsed.
type app struct {
	out io.Writer

	baseURL  string
	logLevel string

	client *photon.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "photon",
		Short: "Query a Photon geocoder from the command line",
		Long: `photon runs forward and reverse searches against a Photon instance.

The instance is taken from --url, then PHOTON_URL, then the public
komoot endpoint. Results are printed as a table or as GeoJSON.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.baseURL, "url", "", "Photon base URL (default: $PHOTON_URL or "+photon.DefaultBaseURL+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newReverseCmd(a))
	root.AddCommand(newGeocodeCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := env.Load()
	if err != nil {
		return err
	}

	logger.InitGlobalSlogTo(os.Stderr, ServiceName, logger.ParseLevel(a.logLevel))

	url := a.baseURL
	if url == "" {
		url = cfg.PhotonURL
	}

	a.client = photon.NewClient(url, photon.WithHTTPClient(whttp.NewClient(cfg.HTTPTimeout, cfg.Debug)))

	return nil
}

// parseParams reads repeated --param key=value flags, keeping their order.
func parseParams(raw []string) ([]photon.QueryParam, error) {
	var params []photon.QueryParam
	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", r)
		}
		params = append(params, photon.QueryParam{Key: k, Value: v})
	}

	return params, nil
}

func parseLayers(raw []string) ([]photon.Layer, error) {
	var layers []photon.Layer
	for _, r := range raw {
		l, err := photon.ParseLayer(r)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}

	return layers, nil
}
