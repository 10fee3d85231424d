package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by .env, TASKLIST_* environment variables or CLI flags

# Storage driver: file, redis or memory
storage = "file"

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.tasklist"

# Key the task list is stored under
storage_key = "tasks"

# Row style: timer shows elapsed time, badge shows a done badge and a theme toggle
variant = "timer"

# Initial theme: light or dark
theme = "light"

# Log level and format for CLI output and TUI session logs
log_level = "info"
log_format = "text"
# log_timestamps = false
# log_caller = false
# log_dir = "~/.tasklist/logs"

[redis]
addr = "localhost:6379"
password = ""
db = 0
prefix = "tasklist:"

[sounds]
enabled = true
# "bell", "none", or a command that is given the asset path (e.g. "afplay")
player = "bell"
# Relative assets resolve under <data_dir>/sounds
add = "complete.mp3"
complete = "complete.mp3"
timeout_ms = 3000
`
}
