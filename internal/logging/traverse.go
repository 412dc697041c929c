package logging

import (
	"log/slog"
	"sort"
	"strings"
)

// LogMatchingKeys walks a decoded JSON document and emits one debug record
// per key whose name contains any of the given fragments. Nested objects are
// visited depth first with the parent key recorded as "parent". It exists for
// diagnostics only; nothing should depend on its output.
func LogMatchingKeys(logger *slog.Logger, msg string, doc map[string]any, fragments ...string) int {
	if logger == nil || len(doc) == 0 || len(fragments) == 0 {
		return 0
	}
	return walkMatchingKeys(logger, msg, "top_level", doc, fragments)
}

func walkMatchingKeys(logger *slog.Logger, msg, parent string, doc map[string]any, fragments []string) int {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	matched := 0
	for _, key := range keys {
		value := doc[key]
		if containsAny(key, fragments) {
			logger.Debug(msg,
				String("parent", parent),
				String("key", key),
				Any("value", value),
			)
			matched++
		}
		if nested, ok := value.(map[string]any); ok {
			matched += walkMatchingKeys(logger, msg, key, nested, fragments)
		}
	}
	return matched
}

func containsAny(key string, fragments []string) bool {
	for _, fragment := range fragments {
		if fragment != "" && strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}
