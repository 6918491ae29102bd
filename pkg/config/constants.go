package config

// EnvPrefix scopes every environment variable the platform reads.
const EnvPrefix = "MEMBERHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MEMBERHUB_DB_DSN"
	EnvDBHost = "MEMBERHUB_DB_HOST"
	EnvDBUser = "MEMBERHUB_DB_USER"
	EnvDBName = "MEMBERHUB_DB_NAME"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
