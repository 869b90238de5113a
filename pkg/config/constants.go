package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "CHAIRTIME"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CHAIRTIME_DB_DSN"
	EnvDBHost = "CHAIRTIME_DB_HOST"
	EnvDBUser = "CHAIRTIME_DB_USER"
	EnvDBName = "CHAIRTIME_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
