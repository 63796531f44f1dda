package config

// EnvPrefix is the envconfig prefix shared by every FarmBasket variable.
const EnvPrefix = "FARMBASKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FARMBASKET_DB_DSN"
	EnvDBHost = "FARMBASKET_DB_HOST"
	EnvDBUser = "FARMBASKET_DB_USER"
	EnvDBName = "FARMBASKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
