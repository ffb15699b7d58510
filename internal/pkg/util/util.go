package util

import "strconv"

// StrToInt64 parse a decimal id from a route parameter
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// StrToInt parse a decimal query parameter
func StrToInt(s string) (int, error) {
	return strconv.Atoi(s)
}
