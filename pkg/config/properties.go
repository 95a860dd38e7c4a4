package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/spf13/viper"
)

// propertiesCodec lets viper read and write .properties files. Dotted keys
// become nested maps so "maximize.window" resolves like any other viper key.
type propertiesCodec struct{}

func (propertiesCodec) Decode(b []byte, v map[string]any) error {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(b)
	if err != nil {
		return fmt.Errorf("failed to parse properties: %w", err)
	}

	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		path := strings.Split(strings.ToLower(key), ".")
		parent := nestedMap(v, path[:len(path)-1])
		parent[path[len(path)-1]] = value
	}
	return nil
}

func (propertiesCodec) Encode(v map[string]any) ([]byte, error) {
	flat := map[string]string{}
	flatten("", v, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, k := range keys {
		if _, _, err := p.Set(k, flat[k]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// nestedMap walks path from m, creating maps as needed. A scalar in the way is
// replaced by a map.
func nestedMap(m map[string]any, path []string) map[string]any {
	for _, k := range path {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	return m
}

func flatten(prefix string, v map[string]any, out map[string]string) {
	for k, val := range v {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = fmt.Sprint(val)
	}
}

// newViper returns a viper instance that understands .properties files.
func newViper() *viper.Viper {
	codecs := viper.NewCodecRegistry()
	for _, format := range []string{"properties", "props", "prop"} {
		_ = codecs.RegisterCodec(format, propertiesCodec{})
	}
	return viper.NewWithOptions(viper.WithCodecRegistry(codecs))
}
