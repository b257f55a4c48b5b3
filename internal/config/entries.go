package config

import "strconv"

// Entry is one effective setting with its origin.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries returns every setting in a stable order.
func (cws *ConfigWithSources) Entries() []Entry {
	c := cws.Config
	values := map[string]string{
		"data_dir":         c.DataDir,
		"backend":          c.Backend,
		"slot_key":         c.SlotKey,
		"slot_quota_bytes": strconv.Itoa(c.SlotQuotaBytes),
		"schema_file":      c.SchemaFile,
		"log_dir":          c.LogDir,
		"log_level":        c.LogLevel,
		"log_format":       c.LogFormat,
		"log_timestamps":   strconv.FormatBool(c.LogTimestamps),
		"log_caller":       strconv.FormatBool(c.LogCaller),
		"toast_seconds":    strconv.Itoa(c.ToastSeconds),
	}

	entries := make([]Entry, 0, len(values))
	for _, key := range configFields() {
		source := SourceDefault
		if cws.Sources != nil {
			if s, ok := cws.Sources[key]; ok {
				source = s
			}
		}
		entries = append(entries, Entry{Key: key, Value: values[key], Source: source})
	}
	return entries
}
