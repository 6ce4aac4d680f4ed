package coord

import (
	"fmt"
	"strconv"
	"strings"
)

// wgs84Definition is the source CRS of every prepared transform.
const wgs84Definition = "+proj=longlat +datum=WGS84 +no_defs"

// definitions maps EPSG codes to PROJ.4 text. UTM zones are generated by
// definitionForEPSG. Only projections the transform library implements
// (longlat, merc, tmerc, utm, lcc, aea) are listed.
var definitions = map[int]string{
	4326:  wgs84Definition,
	4258:  "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs",
	4269:  "+proj=longlat +datum=NAD83 +no_defs",
	3857:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
	3395:  "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	2154:  "+proj=lcc +lat_0=46.5 +lon_0=3 +lat_1=49 +lat_2=44 +x_0=700000 +y_0=6600000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	5070:  "+proj=aea +lat_0=23 +lon_0=-96 +lat_1=29.5 +lat_2=45.5 +x_0=0 +y_0=0 +datum=NAD83 +units=m +no_defs",
	27700: "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs",
}

// definitionForEPSG returns the PROJ.4 text for an EPSG code.
func definitionForEPSG(code int) (string, bool) {
	if def, ok := definitions[code]; ok {
		return def, true
	}
	switch {
	case code >= 32601 && code <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", code-32600), true
	case code >= 32701 && code <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", code-32700), true
	case code >= 25828 && code <= 25838:
		return fmt.Sprintf("+proj=utm +zone=%d +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs", code-25800), true
	}
	return "", false
}

// parseEPSGRef recognizes "EPSG:<code>" (any case, surrounding space ignored).
func parseEPSGRef(def string) (int, bool) {
	def = strings.TrimSpace(def)
	if len(def) < 6 || !strings.EqualFold(def[:5], "epsg:") {
		return 0, false
	}
	code, err := strconv.Atoi(def[5:])
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}

// resolveDefinition turns a user supplied CRS definition into text the
// transform library can parse. EPSG references go through the table;
// everything else is passed on verbatim.
func resolveDefinition(def string) (string, error) {
	code, ok := parseEPSGRef(def)
	if !ok {
		return def, nil
	}
	resolved, ok := definitionForEPSG(code)
	if !ok {
		return "", fmt.Errorf("no definition for EPSG code %d", code)
	}
	return resolved, nil
}
