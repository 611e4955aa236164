package logger

import "strings"

// Level names written in the level field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelAliases = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// enum describes a closed-vocabulary field. Unknown values are kept verbatim
// when keepUnknown is set and dropped otherwise.
type enum struct {
	values      []string
	keepUnknown bool
}

func (e enum) normalize(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	for _, allowed := range e.values {
		if v == allowed {
			return v, true
		}
	}
	return v, e.keepUnknown
}

// enumFields lists the fields whose values are normalised before output.
// status and outcome share the dispatcher and backend vocabulary.
var enumFields = map[string]enum{
	"status":  {values: []string{"ok", "error", "fail", "skip", "retry", "rate_limited", "cancelled"}, keepUnknown: true},
	"outcome": {values: []string{"ok", "error", "fail", "skip", "absent", "cancelled", "rate_limited"}},
	"cache":   {values: []string{"hit", "miss", "refresh"}},
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelAliases[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// defaultKeyOrder fixes the leading columns; other keys follow alphabetically.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "handler",
	"kind", "route", "op", "outcome", "reason",
	"duration_ms", "messages", "cache",
	"item_id", "results", "query_len", "http_code",
	"mode", "listen", "public_url",
	"action", "endpoint",
	"err", "err_code", "cause", "attempts", "elapsed_ms",
}
