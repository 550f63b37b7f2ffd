// Package config loads the authtester settings.
//
// Settings come in three layers, each overriding the previous one:
// built-in defaults, an optional YAML file and AUTHTESTER_* environment
// variables. The YAML file supports ${VAR} and ${VAR:-default}
// substitution; "$$" yields a literal dollar sign.
//
// # Environment
//
//	AUTHTESTER_CONFIG      YAML file to load first
//	AUTHTESTER_APP         application name or http(s) URL
//	AUTHTESTER_AUTH        comma separated login:password entries
//	AUTHTESTER_DEFAULT     default login
//	AUTHTESTER_ALLOW       space separated allowed schemes
//	AUTHTESTER_USER        login parameter of the param scheme
//	AUTHTESTER_PASS        password parameter of the param scheme
//	AUTHTESTER_LOGIN       login parameter of the fake scheme
//	AUTHTESTER_BEARER      Authorization prefix of the bearer scheme
//	AUTHTESTER_HEADER      header of the header scheme
//	AUTHTESTER_COOKIE      cookie of the cookie scheme
//	AUTHTESTER_TPARAM      parameter of the tparam scheme
//	AUTHTESTER_PTYPE       data or json
//	AUTHTESTER_TESTING     when set, failures are returned as errors
//	AUTHTESTER_LOG_LEVEL   debug, info, warn or error
//	AUTHTESTER_LOG_FORMAT  console or json
//	AUTHTESTER_VAULT_ADDR  Vault address for password seeding
//	AUTHTESTER_VAULT_TOKEN Vault token
//	AUTHTESTER_VAULT_MOUNT KV v2 mount, "secret" by default
//	AUTHTESTER_VAULT_PATH  secret path holding login: password pairs
//	AUTHTESTER_OTLP_ENDPOINT OTLP gRPC endpoint, enables tracing
//
// # Usage
//
//	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
