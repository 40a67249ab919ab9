package httputil

import (
	"net/url"
	"reflect"
)

// GetURLFields returns the names of all fields of the filter struct
// whose form parameter is set in the query string of the URL.
//
// This allows filtering for zero values, e.g. the ground floor,
// without pointer fields in the filter.
func GetURLFields(url *url.URL, filter any) []string {
	var setFields []string

	query := url.Query()
	val := reflect.Indirect(reflect.ValueOf(filter))
	for i := 0; i < val.NumField(); i++ {
		field := val.Type().Field(i)
		param := field.Tag.Get("form")

		if param != "" && query.Has(param) {
			setFields = append(setFields, field.Name)
		}
	}

	return setFields
}
