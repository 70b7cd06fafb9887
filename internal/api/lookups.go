package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"jobportal-workers/internal/common/metrics"
	"jobportal-workers/internal/models"
)

func (c *Client) cachedOptions(ctx context.Context, key, name string) ([]models.Option, bool) {
	if c.lookups == nil {
		return nil, false
	}
	list := strings.SplitN(name, ":", 2)[0]

	raw, ok, err := c.lookups.Get(ctx, key)
	if err != nil {
		c.logger.Warn("lookup cache read failed, falling back to API", map[string]interface{}{"list": name, "error": err})
		metrics.LookupCacheHits.WithLabelValues(list, "error").Inc()
		return nil, false
	}
	if !ok {
		metrics.LookupCacheHits.WithLabelValues(list, "miss").Inc()
		return nil, false
	}

	var opts []models.Option
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		metrics.LookupCacheHits.WithLabelValues(list, "corrupt").Inc()
		return nil, false
	}
	metrics.LookupCacheHits.WithLabelValues(list, "hit").Inc()
	return opts, true
}

var (
	optionIDKeys   = []string{"id", "_id", "value", "code"}
	optionNameKeys = []string{"name", "title", "label", "text"}
)

// DecodeOptions reads a lookup list given either as a bare array or wrapped
// in {"data": [...]}. Entries may be objects or plain strings.
func DecodeOptions(body []byte) ([]models.Option, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	items, ok := doc.([]interface{})
	if !ok {
		obj, isObj := doc.(map[string]interface{})
		if !isObj {
			return nil, fmt.Errorf("unexpected list shape %T", doc)
		}
		for _, key := range []string{"data", "items", "result"} {
			if items, ok = obj[key].([]interface{}); ok {
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("no list found in response")
		}
	}

	out := make([]models.Option, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, models.Option{ID: v, Name: v})
		case map[string]interface{}:
			opt := models.Option{ID: firstString(v, optionIDKeys), Name: firstString(v, optionNameKeys)}
			if opt.ID == "" && opt.Name == "" {
				continue
			}
			if opt.ID == "" {
				opt.ID = opt.Name
			}
			if opt.Name == "" {
				opt.Name = opt.ID
			}
			out = append(out, opt)
		}
	}
	return out, nil
}

func firstString(obj map[string]interface{}, keys []string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}
