package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manzanit0/photon/pkg/photon"
)

type searchOptions struct {
	limit   uint64
	lang    string
	layers  []string
	bbox    string
	biasLat float64
	biasLon float64
	zoom    int
	scale   float64
	params  []string
	format  string
}

func newSearchCmd(a *app) *cobra.Command {
	o := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Find places matching a free-form query",
		Example: `  photon search berlin
  photon search --limit 2 --layer state bayern
  photon search --bias-lat 48.1 --bias-lon 11.5 --zoom 12 hauptbahnhof`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(o.format); err != nil {
				return err
			}

			filter, err := o.filter(cmd)
			if err != nil {
				return err
			}

			features, err := a.client.ForwardSearch(cmd.Context(), strings.Join(args, " "), filter)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			return render(a.out, o.format, features)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&o.limit, "limit", 0, "maximum number of results")
	f.StringVar(&o.lang, "lang", "", "preferred language of the results")
	f.StringSliceVar(&o.layers, "layer", nil, "restrict results to these layers (repeatable)")
	f.StringVar(&o.bbox, "bbox", "", "bounding box as minLon,minLat,maxLon,maxLat")
	f.Float64Var(&o.biasLat, "bias-lat", 0, "latitude of the location bias")
	f.Float64Var(&o.biasLon, "bias-lon", 0, "longitude of the location bias")
	f.IntVar(&o.zoom, "zoom", 0, "zoom level of the location bias")
	f.Float64Var(&o.scale, "scale", 0, "location bias scale")
	f.StringArrayVar(&o.params, "param", nil, "extra query parameter as key=value (repeatable)")
	f.StringVar(&o.format, "format", formatTable, "output format (table, geojson)")

	return cmd
}

func (o *searchOptions) filter(cmd *cobra.Command) (*photon.ForwardFilter, error) {
	changed := cmd.Flags().Changed

	f := &photon.ForwardFilter{Limit: o.limit, Language: o.lang}

	if changed("bias-lat") != changed("bias-lon") {
		return nil, fmt.Errorf("--bias-lat and --bias-lon must be given together")
	}

	if changed("bias-lat") {
		bias := &photon.LocationBias{Point: photon.NewLatLon(o.biasLat, o.biasLon)}
		if changed("zoom") {
			zoom := o.zoom
			bias.Zoom = &zoom
		}
		if changed("scale") {
			scale := o.scale
			bias.Scale = &scale
		}
		f.LocationBias = bias
	} else if changed("zoom") || changed("scale") {
		return nil, fmt.Errorf("--zoom and --scale need --bias-lat and --bias-lon")
	}

	if o.bbox != "" {
		bbox, err := photon.ParseBoundingBox(o.bbox)
		if err != nil {
			return nil, err
		}
		f.BoundingBox = &bbox
	}

	var err error
	if f.Layers, err = parseLayers(o.layers); err != nil {
		return nil, err
	}

	if f.AdditionalQuery, err = parseParams(o.params); err != nil {
		return nil, err
	}

	return f, nil
}
