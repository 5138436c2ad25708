package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/manzanit0/photon/pkg/geocode"
	"github.com/manzanit0/photon/pkg/photon"
)

const (
	formatTable   = "table"
	formatGeoJSON = "geojson"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatGeoJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected %s or %s", format, formatTable, formatGeoJSON)
	}
}

func render(w io.Writer, format string, features []photon.Feature) error {
	if format == formatGeoJSON {
		return renderGeoJSON(w, features)
	}

	renderTable(w, features)
	return nil
}

func renderGeoJSON(w io.Writer, features []photon.Feature) error {
	b, err := photon.FeatureCollection(features).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

func renderTable(w io.Writer, features []photon.Feature) {
	if len(features) == 0 {
		fmt.Fprintln(w, "no places found")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Place", "Type", "Lat", "Lon", "OSM"})

	for i := range features {
		f := &features[i]
		table.Append([]string{
			strconv.Itoa(i + 1),
			geocode.DisplayName(f),
			f.Type,
			strconv.FormatFloat(f.Coords.Lat, 'f', 5, 64),
			strconv.FormatFloat(f.Coords.Lon, 'f', 5, 64),
			fmt.Sprintf("%s%d %s=%s", f.OsmType.Code(), f.OsmID, f.OsmKey, f.OsmValue),
		})
	}

	table.SetRowLine(true)
	table.SetRowSeparator("-")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	table.Render()
}
