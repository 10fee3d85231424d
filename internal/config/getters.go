package config

import "strconv"

// Fields returns the tracked field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the display form of a tracked field. The redis password is
// masked when set.
func (c *Config) Value(field string) string {
	switch field {
	case "storage":
		return c.Storage
	case "data_dir":
		return c.DataDir
	case "storage_key":
		return c.StorageKey
	case "redis.addr":
		return c.Redis.Addr
	case "redis.password":
		if c.Redis.Password != "" {
			return "********"
		}
		return ""
	case "redis.db":
		return strconv.Itoa(c.Redis.DB)
	case "redis.prefix":
		return c.Redis.Prefix
	case "variant":
		return c.Variant
	case "theme":
		return c.Theme
	case "sounds.enabled":
		return strconv.FormatBool(c.Sounds.Enabled)
	case "sounds.player":
		return c.Sounds.Player
	case "sounds.add":
		return c.Sounds.Add
	case "sounds.complete":
		return c.Sounds.Complete
	case "sounds.timeout_ms":
		return strconv.Itoa(c.Sounds.TimeoutMS)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "log_dir":
		return c.LogDir
	}
	return ""
}
