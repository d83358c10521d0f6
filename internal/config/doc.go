// Package config provides configuration loading for summon applications.
//
// Configuration is read from summon.json (or summon.yaml) in the project
// directory, then overridden by SUMMON_* environment variables, then
// validated. A missing file is not an error: every field has a default.
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "live": true,
//	    "shutdownTimeout": "15s"
//	  },
//	  "render": {
//	    "hydrate": true,
//	    "lang": "en"
//	  },
//	  "cache": {
//	    "backend": "pebble",
//	    "ttl": "5m",
//	    "dir": ".summon/cache"
//	  },
//	  "metrics": { "enabled": true },
//	  "tracing": { "enabled": true, "sampleRatio": 0.1 },
//	  "log": { "level": "info", "format": "json" }
//	}
//
// # Environment
//
// SUMMON_HOST, SUMMON_PORT, SUMMON_LIVE, SUMMON_HYDRATE,
// SUMMON_CACHE_BACKEND, SUMMON_CACHE_TTL, SUMMON_CACHE_BUCKET,
// SUMMON_LOG_LEVEL and the other variables named in the struct tags
// override the file.
//
// # Usage
//
//	cfg, err := config.LoadWithEnv(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
