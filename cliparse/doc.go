// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a validated Config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in this order, first match wins:

 1. CLI flags
 2. Environment variables
 3. YAML config file (-c or CONFIG_FILE)
 4. Defaults()

# Config Fields

  - Port (-p, PORT): listen port, default 3318
  - DatabaseURL (-d, DATABASE_URL): required
  - DatabaseType (-t, DATABASE_TYPE): postgres or sqlite, default sqlite
  - AttendanceURL (--attendance-url, ATTENDANCE_URL): ticketing database;
    empty means no attendance source
  - EventFilter (--event-filter, EVENT_FILTER): LIKE pattern, default "%"
  - SessionSecret (--session-secret, SESSION_SECRET): required, 16+ chars
  - CORSOrigins (--cors, CORS_ORIGINS): comma separated, default "*"
  - RateLimitPerMinute (--rate-limit, RATE_LIMIT_PER_MINUTE): 0 disables
  - LogLevel (--log-level, LOG_LEVEL): debug, info, warn or error

# Config File

The YAML keys are the snake_case field names. Unknown keys are rejected:

	port: 8080
	database_type: postgres
	database_url: postgres://craque@localhost/craque
	cors_origins: [https://craque.example]
*/
package cliparse
