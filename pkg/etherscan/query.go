package etherscan

import (
	"net/url"
	"strconv"
	"strings"
)

type queryParam struct {
	key   string
	value string
}

// Query is the ordered list of parameters of one API call. Keys may repeat.
type Query struct {
	params []queryParam
}

// NewQuery starts a query for module and action.
func NewQuery(module, action string) *Query {
	q := &Query{}
	return q.Add("module", module).Add("action", action)
}

// Add appends a parameter, keeping any existing value for key.
func (q *Query) Add(key, value string) *Query {
	q.params = append(q.params, queryParam{key: key, value: value})
	return q
}

// Set replaces every value of key with value, or appends it.
func (q *Query) Set(key, value string) *Query {
	replaced := false
	kept := q.params[:0]
	for _, p := range q.params {
		if p.key != key {
			kept = append(kept, p)
			continue
		}
		if !replaced {
			kept = append(kept, queryParam{key: key, value: value})
			replaced = true
		}
	}
	q.params = kept
	if !replaced {
		q.params = append(q.params, queryParam{key: key, value: value})
	}
	return q
}

// AddInt appends a decimal integer parameter.
func (q *Query) AddInt(key string, value int64) *Query {
	return q.Add(key, strconv.FormatInt(value, 10))
}

// AddIfSet appends the parameter only when value is not empty.
func (q *Query) AddIfSet(key, value string) *Query {
	if value == "" {
		return q
	}
	return q.Add(key, value)
}

// Get returns the first value of key, or "".
func (q *Query) Get(key string) string {
	for _, p := range q.params {
		if p.key == key {
			return p.value
		}
	}
	return ""
}

// Has reports whether key is present.
func (q *Query) Has(key string) bool {
	for _, p := range q.params {
		if p.key == key {
			return true
		}
	}
	return false
}

// Len returns the number of parameters.
func (q *Query) Len() int {
	return len(q.params)
}

// Values converts the query to url.Values. Order is lost.
func (q *Query) Values() url.Values {
	v := url.Values{}
	for _, p := range q.params {
		v.Add(p.key, p.value)
	}
	return v
}

// Encode renders the query in insertion order.
func (q *Query) Encode() string {
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// clone copies q so that adding credentials never mutates the caller's query.
func (q *Query) clone() *Query {
	c := &Query{params: make([]queryParam, len(q.params), len(q.params)+2)}
	copy(c.params, q.params)
	return c
}

// redacted renders q with the API key masked, for logs.
func (q *Query) redacted() string {
	c := q.clone()
	if c.Has("apikey") {
		c.Set("apikey", "***")
	}
	return c.Encode()
}
