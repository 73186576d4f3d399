// Package config provides environment variable loading for broker
// configuration structs.
//
// Environment variable names follow the pattern:
//
//	{Prefix}_{SCOPE}_{FIELD}
//
// where the scope names the backend ("memory", "redis") and Go field names
// are converted from CamelCase to UPPER_SNAKE_CASE:
//
//	RequeueOnNack → REQUEUE_ON_NACK
//	BlockTimeout  → BLOCK_TIMEOUT
//
// Named nested structs add their field name as a path segment; anonymous
// (embedded) structs are flattened. Supported field types: string, bool,
// int*, time.Duration and []string (comma separated). Fields of other types
// (interfaces, functions, channels, pointers) are silently skipped, so
// configs may mix loadable settings with, say, a Logger.
//
// Example with the redis backend:
//
//	ENROUTE_REDIS_ADDR=localhost:6379
//	ENROUTE_REDIS_DB=2
//	ENROUTE_REDIS_BLOCK_TIMEOUT=5s
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	durationType    = reflect.TypeOf(time.Duration(0))
	stringSliceType = reflect.TypeOf([]string(nil))
)

// Loader reads environment variables into configuration structs.
type Loader struct {
	// Prefix for environment variable names.
	// Default: "ENROUTE".
	Prefix string

	// lookup overrides os.LookupEnv for testing.
	lookup func(string) (string, bool)
}

func (l Loader) prefix() string {
	if l.Prefix == "" {
		return "ENROUTE"
	}
	return l.Prefix
}

func (l Loader) lookupEnv(key string) (string, bool) {
	if l.lookup != nil {
		return l.lookup(key)
	}
	return os.LookupEnv(key)
}

// Load populates the struct pointed to by dst with values from environment
// variables. Only fields with set environment variables are modified, so
// Load overlays environment overrides on top of programmatic defaults.
func (l Loader) Load(scope string, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: dst must be a pointer to a struct, got %T", dst)
	}
	return l.loadStruct(l.prefix()+"_"+normalizeScope(scope), v.Elem())
}

// Load populates dst using the default Loader with prefix "ENROUTE".
func Load(scope string, dst any) error {
	return Loader{}.Load(scope, dst)
}

func (l Loader) loadStruct(prefix string, v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)

		// Unexported anonymous (embedded) struct fields are still recursed
		// into because their exported fields are promoted.
		if !field.IsExported() {
			if field.Anonymous && field.Type.Kind() == reflect.Struct {
				if err := l.loadStruct(prefix, fv); err != nil {
					return err
				}
			}
			continue
		}

		key := prefix
		if !field.Anonymous {
			key = prefix + "_" + toUpperSnake(field.Name)
		}

		switch {
		case field.Type == durationType:
			raw, ok := l.lookupEnv(key)
			if !ok {
				continue
			}
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			fv.SetInt(int64(d))

		case field.Type == stringSliceType:
			raw, ok := l.lookupEnv(key)
			if !ok {
				continue
			}
			fv.Set(reflect.ValueOf(splitList(raw)))

		case field.Type.Kind() == reflect.Struct:
			if err := l.loadStruct(key, fv); err != nil {
				return err
			}

		default:
			if !isSupportedKind(field.Type.Kind()) {
				continue
			}
			raw, ok := l.lookupEnv(key)
			if !ok {
				continue
			}
			if err := setField(fv, raw, key); err != nil {
				return err
			}
		}
	}
	return nil
}

func isSupportedKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func setField(v reflect.Value, raw, key string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		v.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		v.SetBool(b)
	}
	return nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty elements.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeScope converts a scope name to a valid env var segment.
// Lowercase letters are uppercased, hyphens/spaces/underscores become
// underscores, and other characters are dropped.
func normalizeScope(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '_':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// toUpperSnake converts a Go CamelCase field name to UPPER_SNAKE_CASE.
//
//	RequeueOnNack → REQUEUE_ON_NACK
//	URLPath       → URL_PATH
func toUpperSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
