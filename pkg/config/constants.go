package config

// EnvPrefix is empty because every field carries a fully-qualified envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KANTIN_DB_DSN"
	EnvDBHost = "KANTIN_DB_HOST"
	EnvDBUser = "KANTIN_DB_USER"
	EnvDBName = "KANTIN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
