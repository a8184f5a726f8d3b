// package params provides methods on url.Values for parsing catalog
// request parameters
//
// the format of the functions is:
//     `Get[Or][Int|Date][List]`
//
// first component (key selection):
//     ""   -> lookup the key as usual, err if not found
//     "Or" -> lookup the key as usual, return `or` if not found
//
// second component (type selection):
//     ""     -> parse the value as a string
//     "Int"  -> parse the value as an integer
//     "Date" -> parse the value as a yyyy-mm-dd date
//
// last component (list parsing with stacked keys, eg. `?a=1&a=2&a=3`):
//     ""     -> return the first value, eg. `1`
//     "List" -> return all values, eg. `{1, 2, 3}`

package params

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var ErrNoValues = errors.New("no values provided")

const dateFormat = "2006-01-02"

func parseStr(in string) (string, error)     { return in, nil }
func parseInt(in string) (int, error)        { return strconv.Atoi(in) }
func parseDate(in string) (time.Time, error) { return time.Parse(dateFormat, in) }

func parse(values []string, i interface{}) error {
	if len(values) == 0 {
		return ErrNoValues
	}
	var err error
	switch v := i.(type) {
	case *string:
		*v, err = parseStr(values[0])
	case *int:
		*v, err = parseInt(values[0])
	case *time.Time:
		*v, err = parseDate(values[0])
	case *[]string:
		for _, value := range values {
			parsed, err := parseStr(value)
			if err != nil {
				return err
			}
			*v = append(*v, parsed)
		}
	case *[]int:
		for _, value := range values {
			parsed, err := parseInt(value)
			if err != nil {
				return err
			}
			*v = append(*v, parsed)
		}
	}
	return err
}

type Params url.Values

func New(r *http.Request) Params {
	// first load params from the url
	params := r.URL.Query()
	// also if there's any in the post body, use those too
	if err := r.ParseForm(); err == nil {
		for k, v := range r.Form {
			params[k] = v
		}
	}
	return Params(params)
}

func (p Params) get(key string) []string {
	return p[key]
}

func (p Params) Get(key string) (string, error) {
	var ret string
	return ret, parse(p.get(key), &ret)
}

func (p Params) GetOr(key string, or string) string {
	var ret string
	if err := parse(p.get(key), &ret); err == nil {
		return ret
	}
	return or
}

func (p Params) GetInt(key string) (int, error) {
	var ret int
	return ret, parse(p.get(key), &ret)
}

func (p Params) GetOrInt(key string, or int) int {
	var ret int
	if err := parse(p.get(key), &ret); err == nil {
		return ret
	}
	return or
}

// GetIntPtr parses an optional integer parameter, nil when absent or not
// a number. the list filters want exactly this shape
func (p Params) GetIntPtr(key string) *int {
	var ret int
	if err := parse(p.get(key), &ret); err == nil {
		return &ret
	}
	return nil
}

func (p Params) GetDate(key string) (time.Time, error) {
	var ret time.Time
	return ret, parse(p.get(key), &ret)
}

func (p Params) GetList(key string) ([]string, error) {
	var ret []string
	return ret, parse(p.get(key), &ret)
}

func (p Params) GetOrList(key string, or []string) []string {
	var ret []string
	if err := parse(p.get(key), &ret); err == nil {
		return ret
	}
	return or
}

func (p Params) GetIntList(key string) ([]int, error) {
	var ret []int
	return ret, parse(p.get(key), &ret)
}
