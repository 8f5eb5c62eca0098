package provider

import (
	"fmt"
	"strings"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/store"
)

// Filter is a selection predicate with its bound arguments.
type Filter struct {
	Where string
	Args  []any
}

// Selections used by the joined routes. Values are always bound.
var (
	selectionLocationSetting = qualified(contract.LocationEntry, contract.ColumnLocationSetting) + " = ?"

	selectionLocationSettingWithStartDate = selectionLocationSetting +
		" AND " + qualified(contract.WeatherEntry, contract.ColumnDate) + " >= ?"

	selectionLocationSettingAndDay = selectionLocationSetting +
		" AND " + qualified(contract.WeatherEntry, contract.ColumnDate) + " = ?"
)

// QueryBuilder turns a classified identifier into a store query.
//
// The join clause and the default joined projection are computed once by
// NewQueryBuilder and never change, so one builder can serve every caller.
type QueryBuilder struct {
	join          string
	joinedColumns []string
}

// NewQueryBuilder creates a builder.
func NewQueryBuilder() *QueryBuilder {
	weather, location := contract.WeatherEntry, contract.LocationEntry

	join := fmt.Sprintf("%s INNER JOIN %s ON %s = %s",
		weather.Table, location.Table,
		qualified(weather, contract.ColumnLocationKey),
		qualified(location, contract.ColumnID),
	)

	// Weather columns first, then the location columns that do not collide.
	cols := make([]string, 0, len(weather.Columns)+len(location.Columns))
	for _, c := range weather.Columns {
		cols = append(cols, qualified(weather, c))
	}
	for _, c := range location.Columns {
		if !weather.HasColumn(c) {
			cols = append(cols, qualified(location, c))
		}
	}

	return &QueryBuilder{join: join, joinedColumns: cols}
}

// Join returns the join clause used by the per-location weather routes.
func (b *QueryBuilder) Join() string {
	return b.join
}

// BuildFilter returns the selection for route.
//
// The joined routes derive their selection from u alone and ignore where
// and args. The collection routes pass where and args through unchanged.
func (b *QueryBuilder) BuildFilter(route Route, u contract.URI, where string, args []any) (Filter, error) {
	switch route {
	case RouteWeatherWithLocation:
		setting := contract.LocationSettingFromURI(u)
		startDate, ok, err := contract.StartDateFromURI(u)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %w", ErrUnsupportedRoute, err)
		}
		if !ok {
			return Filter{Where: selectionLocationSetting, Args: []any{setting}}, nil
		}
		return Filter{Where: selectionLocationSettingWithStartDate, Args: []any{setting, startDate}}, nil

	case RouteWeatherWithLocationAndDate:
		return Filter{
			Where: selectionLocationSettingAndDay,
			Args:  []any{contract.LocationSettingFromURI(u), contract.DateFromURI(u)},
		}, nil

	case RouteWeather, RouteLocation:
		return Filter{Where: where, Args: args}, nil

	default:
		return Filter{}, fmt.Errorf("%w: %s", ErrUnsupportedRoute, u)
	}
}

// Build returns the complete read for route: source table or join,
// validated projection, filter and validated sort order.
func (b *QueryBuilder) Build(route Route, u contract.URI, columns []string, where string, args []any, sortOrder string) (store.Query, error) {
	filter, err := b.BuildFilter(route, u, where, args)
	if err != nil {
		return store.Query{}, err
	}

	from, err := b.source(route)
	if err != nil {
		return store.Query{}, err
	}

	projection, err := b.projection(route, columns)
	if err != nil {
		return store.Query{}, err
	}

	orderBy, err := b.orderBy(route, sortOrder)
	if err != nil {
		return store.Query{}, err
	}

	return store.Query{
		From:    from,
		Columns: projection,
		Where:   filter.Where,
		Args:    filter.Args,
		OrderBy: orderBy,
	}, nil
}

func (b *QueryBuilder) source(route Route) (string, error) {
	switch route {
	case RouteWeatherWithLocation, RouteWeatherWithLocationAndDate:
		return b.join, nil
	case RouteWeather:
		return contract.WeatherEntry.Table, nil
	case RouteLocation:
		return contract.LocationEntry.Table, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRoute, route)
	}
}

// scope lists the entries whose columns a route may reference.
func scope(route Route) []contract.Entry {
	switch route {
	case RouteWeatherWithLocation, RouteWeatherWithLocationAndDate:
		return []contract.Entry{contract.WeatherEntry, contract.LocationEntry}
	case RouteWeather:
		return []contract.Entry{contract.WeatherEntry}
	case RouteLocation:
		return []contract.Entry{contract.LocationEntry}
	default:
		return nil
	}
}

func (b *QueryBuilder) projection(route Route, columns []string) ([]string, error) {
	if len(columns) == 0 {
		if route.Joined() {
			return append([]string(nil), b.joinedColumns...), nil
		}
		return nil, nil
	}

	out := make([]string, len(columns))
	for i, c := range columns {
		resolved, err := resolveColumn(route, c)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// orderBy validates a sort order of the form "col [ASC|DESC][, ...]".
func (b *QueryBuilder) orderBy(route Route, sortOrder string) (string, error) {
	if strings.TrimSpace(sortOrder) == "" {
		return "", nil
	}

	terms := strings.Split(sortOrder, ",")
	out := make([]string, len(terms))
	for i, term := range terms {
		fields := strings.Fields(term)
		if len(fields) == 0 || len(fields) > 2 {
			return "", fmt.Errorf("%w: sort term %q", ErrInvalidColumn, strings.TrimSpace(term))
		}

		col, err := resolveColumn(route, fields[0])
		if err != nil {
			return "", err
		}
		if len(fields) == 1 {
			out[i] = col
			continue
		}

		dir := strings.ToUpper(fields[1])
		if dir != "ASC" && dir != "DESC" {
			return "", fmt.Errorf("%w: sort direction %q", ErrInvalidColumn, fields[1])
		}
		out[i] = col + " " + dir
	}
	return strings.Join(out, ", "), nil
}

// resolveColumn checks name against the route's tables. Joined routes
// always get a qualified name so "_id" is never ambiguous; an unqualified
// name resolves to the first table that has it, weather before location.
func resolveColumn(route Route, name string) (string, error) {
	entries := scope(route)

	if table, col, ok := strings.Cut(name, "."); ok {
		for _, e := range entries {
			if e.Table == table && e.HasColumn(col) {
				return name, nil
			}
		}
		return "", fmt.Errorf("%w: %q for %s", ErrInvalidColumn, name, route)
	}

	for _, e := range entries {
		if e.HasColumn(name) {
			if route.Joined() {
				return qualified(e, name), nil
			}
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q for %s", ErrInvalidColumn, name, route)
}

func qualified(e contract.Entry, column string) string {
	return e.Table + "." + column
}
