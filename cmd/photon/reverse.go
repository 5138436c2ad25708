package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manzanit0/photon/pkg/photon"
)

type reverseOptions struct {
	radius float64
	limit  uint64
	lang   string
	layers []string
	params []string
	format string
}

func newReverseCmd(a *app) *cobra.Command {
	o := &reverseOptions{}

	cmd := &cobra.Command{
		Use:   "reverse <lat> <lon>",
		Short: "Find the places closest to a coordinate",
		Example: `  photon reverse 48.14368 11.58775 --radius 1 --lang de
  photon reverse -- -33.8568 151.2153`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(o.format); err != nil {
				return err
			}

			coords, err := parseCoords(args[0], args[1])
			if err != nil {
				return err
			}

			filter, err := o.filter()
			if err != nil {
				return err
			}

			features, err := a.client.ReverseSearch(cmd.Context(), coords, filter)
			if err != nil {
				return fmt.Errorf("reverse: %w", err)
			}

			return render(a.out, o.format, features)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.radius, "radius", 0, "search radius in kilometers")
	f.Uint64Var(&o.limit, "limit", 0, "maximum number of results")
	f.StringVar(&o.lang, "lang", "", "preferred language of the results")
	f.StringSliceVar(&o.layers, "layer", nil, "restrict results to these layers (repeatable)")
	f.StringArrayVar(&o.params, "param", nil, "extra query parameter as key=value (repeatable)")
	f.StringVar(&o.format, "format", formatTable, "output format (table, geojson)")

	return cmd
}

func (o *reverseOptions) filter() (*photon.ReverseFilter, error) {
	if o.radius < 0 {
		return nil, fmt.Errorf("--radius must not be negative")
	}

	f := &photon.ReverseFilter{Radius: o.radius, Limit: o.limit, Language: o.lang}

	var err error
	if f.Layers, err = parseLayers(o.layers); err != nil {
		return nil, err
	}

	if f.AdditionalQuery, err = parseParams(o.params); err != nil {
		return nil, err
	}

	return f, nil
}

func parseCoords(lat, lon string) (photon.LatLon, error) {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return photon.LatLon{}, fmt.Errorf("latitude %q is not a number", lat)
	}

	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return photon.LatLon{}, fmt.Errorf("longitude %q is not a number", lon)
	}

	return photon.NewLatLon(la, lo), nil
}
