// Package config loads routetree.json for the routetree command.
//
// # Configuration File Structure
//
//	{
//	  "routes": {
//	    "file": "routes.yaml",
//	    "dir": "routes",
//	    "cacheSize": 128
//	  },
//	  "rootComponent": "App",
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// Deferred child configurations come from routes.dir or, when
// routes.s3.bucket is set, from S3 objects under routes.s3.prefix.
//
// # Environment
//
// Every field can be overridden with a ROUTETREE_ variable, for example
// ROUTETREE_LOG_LEVEL or ROUTETREE_ROUTES_S3_BUCKET. A .env file next to
// routetree.json supplies values the environment does not set.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
