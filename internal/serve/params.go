package serve

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// params holds the parameters of a POST request. Values are looked up in
// the JSON body, then the form body, then the query string.
type params struct {
	body  map[string]any
	form  url.Values
	query url.Values
}

func readParams(r *http.Request) (*params, error) {
	p := &params{query: r.URL.Query(), form: url.Values{}}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return p, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		p.body = map[string]any{}
		// A malformed JSON body is treated as absent
		if err := json.Unmarshal(data, &p.body); err != nil {
			p.body = nil
		}
		return p, nil
	}

	form, err := url.ParseQuery(string(data))
	if err == nil {
		p.form = form
	}
	return p, nil
}

// get returns the named parameter or def. Only scalar JSON values count.
func (p *params) get(name, def string) string {
	if v, ok := p.body[name]; ok {
		if s, ok := scalar(v); ok {
			return s
		}
	}
	if v := p.form.Get(name); v != "" {
		return v
	}
	if v := p.query.Get(name); v != "" {
		return v
	}
	return def
}

// settings flattens the parameters into setting assignments. Nested JSON
// objects become dotted names ("keyboard": {"grab": true} is
// "keyboard.grab"); JSON arrays are indexed the same way.
func (p *params) settings() map[string]string {
	out := map[string]string{}
	if p.body != nil {
		flatten("", p.body, out)
		return out
	}
	for _, values := range []url.Values{p.query, p.form} {
		for k, v := range values {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	}
	return out
}

func flatten(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(join(prefix, k), val[k], out)
		}
	case []any:
		for i, item := range val {
			flatten(join(prefix, strconv.Itoa(i)), item, out)
		}
	default:
		if s, ok := scalar(val); ok {
			out[prefix] = s
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	}
	return "", false
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
