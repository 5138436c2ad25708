package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/manzanit0/photon/pkg/geocode"
)

const (
	providerPhoton    = "photon"
	providerNominatim = "nominatim"
)

type geocodeOptions struct {
	provider string
	lang     string
	reverse  bool
}

// newGeocodeCmd resolves a single location, optionally through Nominatim so
// that both providers can be compared for the same input.
func newGeocodeCmd(a *app) *cobra.Command {
	o := &geocodeOptions{}

	cmd := &cobra.Command{
		Use:   "geocode <query...> | geocode --reverse <lat> <lon>",
		Short: "Resolve the best match for a query or coordinate",
		Example: `  photon geocode alexanderplatz berlin
  photon geocode --provider nominatim --reverse 52.5219 13.4132`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c geocode.Client
			switch o.provider {
			case providerPhoton:
				c = geocode.NewPhotonClient(a.client, o.lang)
			case providerNominatim:
				c = geocode.NewOpenstreetmapClient()
			default:
				return fmt.Errorf("unknown provider %q, expected %s or %s", o.provider, providerPhoton, providerNominatim)
			}

			var loc *geocode.Location
			if o.reverse {
				if len(args) != 2 {
					return fmt.Errorf("--reverse expects <lat> <lon>")
				}

				coords, err := parseCoords(args[0], args[1])
				if err != nil {
					return err
				}

				if loc, err = c.ReverseGeocode(cmd.Context(), coords.Lat, coords.Lon); err != nil {
					return fmt.Errorf("reverse geocode: %w", err)
				}
			} else {
				var err error
				if loc, err = c.Geocode(cmd.Context(), strings.Join(args, " ")); err != nil {
					return fmt.Errorf("geocode: %w", err)
				}
			}

			renderLocation(a, loc)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.provider, "provider", providerPhoton, "geocoding provider (photon, nominatim)")
	f.StringVar(&o.lang, "lang", "", "preferred language, photon only")
	f.BoolVar(&o.reverse, "reverse", false, "treat the arguments as <lat> <lon>")

	return cmd
}

func renderLocation(a *app, loc *geocode.Location) {
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"Name", "Lat", "Lon", "City", "State", "Country"})
	table.Append([]string{
		loc.Name,
		strconv.FormatFloat(loc.Latitude, 'f', 5, 64),
		strconv.FormatFloat(loc.Longitude, 'f', 5, 64),
		loc.City,
		loc.State,
		strings.TrimSpace(fmt.Sprintf("%s %s", loc.Country, countryCode(loc.CountryCode))),
	})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.Render()
}

func countryCode(cc string) string {
	if cc == "" {
		return ""
	}

	return "(" + strings.ToUpper(cc) + ")"
}
