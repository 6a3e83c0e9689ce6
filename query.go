package htmlloader

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/alnah/go-htmlloader/internal/pipeline"
)

// resolveOptions merges defaults, host options and the resource query, in
// increasing precedence.
//
// The query is either URL-encoded ("?scope=card&minimize") or a JSON object
// ("?{\"scope\":\"card\"}"). A bare key means true.
func resolveOptions(base Options, query string) (Options, error) {
	opts := base.clone()
	if opts.Scope == "" {
		opts.Scope = DefaultScope
	}

	values, err := parseQuery(query)
	if err != nil {
		return Options{}, err
	}
	for _, kv := range values {
		switch kv.key {
		case "scope":
			opts.Scope = kv.value
		case "minimize":
			on, err := parseFlag(kv.value)
			if err != nil {
				return Options{}, fmt.Errorf("%w: minimize=%q: %v", ErrInvalidOption, kv.value, err)
			}
			opts.Minimize = on
		default:
			if opts.Extra == nil {
				opts.Extra = make(map[string]string)
			}
			opts.Extra[kv.key] = kv.value
		}
	}

	if !pipeline.ValidScopeName(opts.Scope) {
		return Options{}, fmt.Errorf("%w: scope %q", ErrInvalidOption, opts.Scope)
	}
	return opts, nil
}

type queryValue struct {
	key   string
	value string
}

func parseQuery(query string) ([]queryValue, error) {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return nil, nil
	}

	if strings.HasPrefix(query, "{") {
		return parseJSONQuery(query)
	}

	var out []queryValue
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("%w: query key %q: %v", ErrInvalidOption, key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: query value %q: %v", ErrInvalidOption, value, err)
		}
		out = append(out, queryValue{key: k, value: v})
	}
	return out, nil
}

func parseJSONQuery(query string) ([]queryValue, error) {
	dec := json.NewDecoder(strings.NewReader(query))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: query JSON: %v", ErrInvalidOption, err)
	}

	// Key order does not matter: each key is applied once.
	out := make([]queryValue, 0, len(raw))
	for k, v := range raw {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case json.Number:
			s = v.String()
		case nil:
			s = ""
		default:
			b, _ := json.Marshal(v)
			s = string(b)
		}
		out = append(out, queryValue{key: k, value: s})
	}
	return out, nil
}

// parseFlag reads a boolean query value. A bare flag is true.
func parseFlag(s string) (bool, error) {
	if s == "" {
		return true, nil
	}
	return strconv.ParseBool(s)
}
