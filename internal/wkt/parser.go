// Package wkt extracts parcel outlines from the WKT-like geometry text returned by ULDK.
package wkt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// coordinateList matches the shortest run enclosed by one or more parentheses on each side.
var coordinateList = regexp.MustCompile(`\(+(.+?)\)+`)

// Common parser errors.
var (
	ErrNoCoordinateList    = errors.New("geometry text contains no coordinate list")
	ErrMalformedCoordinate = errors.New("malformed coordinate pair")
)

// HasCoordinateList reports whether raw contains something ExtractPolygon could work on.
func HasCoordinateList(raw string) bool {
	return coordinateList.MatchString(raw)
}

// ExtractPolygon parses the first coordinate list found in raw into an ordered polygon.
//
// Pairs are separated by commas and written as "longitude latitude". Surrounding and
// inner whitespace is ignored. Anything outside the matched list (the ULDK status line,
// an SRID prefix, the geometry keyword) is skipped.
//
// A pair that does not hold exactly two numbers fails the whole polygon with
// ErrMalformedCoordinate; no partial polygon is returned.
func ExtractPolygon(raw string) (models.Polygon, error) {
	match := coordinateList.FindStringSubmatch(raw)
	if match == nil {
		return nil, ErrNoCoordinateList
	}

	tokens := strings.Split(match[1], ",")
	polygon := make(models.Polygon, 0, len(tokens))

	for idx, token := range tokens {
		point, err := parsePair(token)
		if err != nil {
			return nil, fmt.Errorf("%w at position %d: %w", ErrMalformedCoordinate, idx, err)
		}
		polygon = append(polygon, point)
	}

	return polygon, nil
}

func parsePair(token string) (models.Point, error) {
	const pairLength = 2

	fields := strings.Fields(strings.TrimSpace(token))
	if len(fields) != pairLength {
		return models.Point{}, fmt.Errorf("expected 2 values, got %d in %q", len(fields), token)
	}

	lng, err := parseDecimal(fields[0])
	if err != nil {
		return models.Point{}, fmt.Errorf("invalid longitude %q: %w", fields[0], err)
	}
	lat, err := parseDecimal(fields[1])
	if err != nil {
		return models.Point{}, fmt.Errorf("invalid latitude %q: %w", fields[1], err)
	}

	return models.Point{Longitude: lng, Latitude: lat}, nil
}

// parseDecimal accepts plain decimal and exponent notation only. ParseFloat alone would
// also take NaN, Inf, hex floats and digit separators.
func parseDecimal(value string) (float64, error) {
	if i := strings.IndexFunc(value, notDecimalRune); i >= 0 {
		return 0, fmt.Errorf("unexpected character %q", value[i])
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("value is not finite")
	}

	return f, nil
}

func notDecimalRune(r rune) bool {
	return !strings.ContainsRune("0123456789+-.eE", r)
}

// FormatPolygon renders the polygon as POLYGON((lng lat, ...)) using the shortest
// float representation, so ExtractPolygon(FormatPolygon(p)) reproduces p.
func FormatPolygon(polygon models.Polygon) string {
	var b strings.Builder

	b.WriteString("POLYGON((")
	for idx, pt := range polygon {
		if idx > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(pt.Longitude, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(pt.Latitude, 'f', -1, 64))
	}
	b.WriteString("))")

	return b.String()
}
