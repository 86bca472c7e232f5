// Package config loads the agent's options and resolves returner settings.
//
// Options come from a YAML file, a .env file and JOBRETURN_* environment
// variables (viper + godotenv), or from an in-memory map. Returner settings
// are looked up under a namespace with an optional alternate namespace
// taking precedence:
//
//	mongo.host: db1
//	alternative.mongo:
//	  host: db2
//
//	r := config.NewResolver(src, "mongo")
//	r.Lookup("host", "")            // db1
//	r.Lookup("host", "alternative") // db2
package config
