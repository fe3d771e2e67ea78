package normalize

import (
	"strings"

	"PriceBoard/internal/domain/models"
)

// Column names providers use for the row time.
const (
	ColumnDatetime = "Datetime"
	ColumnDate     = "Date"
)

// timestampVariant is one recognised way a table carries its row times.
type timestampVariant struct {
	name    string
	resolve func(t *models.Table) ([]any, bool)
}

// timestampVariants are tried in order; the first applicable one wins.
var timestampVariants = []timestampVariant{
	{name: "Datetime column", resolve: namedColumn(ColumnDatetime)},
	{name: "Date column", resolve: namedColumn(ColumnDate)},
	{name: "datetime index", resolve: datetimeIndex},
	{name: "first column", resolve: firstColumn},
}

func namedColumn(name string) func(t *models.Table) ([]any, bool) {
	return func(t *models.Table) ([]any, bool) {
		c, ok := t.Lookup(name)
		if !ok {
			return nil, false
		}
		return c.Values, true
	}
}

func datetimeIndex(t *models.Table) ([]any, bool) {
	if !t.IndexIsTime || len(t.Index) == 0 {
		return nil, false
	}
	return t.Index, true
}

func firstColumn(t *models.Table) ([]any, bool) {
	if len(t.Columns) == 0 {
		return nil, false
	}
	return t.Columns[0].Values, true
}

func resolveTimestamps(t *models.Table) ([]any, string, bool) {
	for _, v := range timestampVariants {
		if values, ok := v.resolve(t); ok {
			return values, v.name, true
		}
	}
	return nil, "", false
}

// closeNames are exact (case-insensitive) close column names, preferred first.
var closeNames = []string{"close", "adj close", "adjclose"}

// closePrefixes catch flattened composite names such as "Close_BTC-USD".
var closePrefixes = []string{"close", "adj close", "adjclose"}

// closeVariant is one recognised way to find the close column.
type closeVariant struct {
	name    string
	resolve func(t *models.Table) (models.Column, bool)
}

var closeVariants = []closeVariant{
	{name: "exact name", resolve: exactClose},
	{name: "name prefix", resolve: prefixClose},
}

func exactClose(t *models.Table) (models.Column, bool) {
	for _, want := range closeNames {
		for _, c := range t.Columns {
			if strings.ToLower(c.Label()) == want {
				return c, true
			}
		}
	}
	return models.Column{}, false
}

func prefixClose(t *models.Table) (models.Column, bool) {
	for _, c := range t.Columns {
		label := strings.ToLower(c.Label())
		for _, p := range closePrefixes {
			if strings.HasPrefix(label, p) {
				return c, true
			}
		}
	}
	return models.Column{}, false
}

func resolveClose(t *models.Table) (models.Column, bool) {
	for _, v := range closeVariants {
		if c, ok := v.resolve(t); ok {
			return c, true
		}
	}
	return models.Column{}, false
}
