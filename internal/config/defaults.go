package config

// Mode selects when a default is applied.
type Mode int

const (
	// IfUnsetOrEmpty applies the default when the variable is unset or
	// empty, like ${VAR:-default}.
	IfUnsetOrEmpty Mode = iota

	// IfUnset applies the default only when the variable is unset, like
	// ${VAR-default}. An explicitly empty value is kept.
	IfUnset

	// Fixed always applies the value unless it came from the .env file,
	// the command line or a command override.
	Fixed
)

// Default is one row of the defaults table.
type Default struct {
	Name string
	Mode Mode

	// Value may reference earlier variables as ${NAME}.
	Value string

	// Derive computes the value from the environment resolved so far.
	// When set, Value is ignored.
	Derive func(env *Env) string
}

// DockerHostVar is the detected address of the Docker host.
const DockerHostVar = "DOCKERHOST"

// Variables read by vcr-manage itself.
const (
	VarProjectName    = "COMPOSE_PROJECT_NAME"
	VarWalletSeed     = "INDY_WALLET_SEED"
	VarLedgerURL      = "LEDGER_URL"
	VarTheme          = "THEME"
	VarThemePath      = "THEME_PATH"
	VarAPIHTTPPort    = "API_HTTP_PORT"
	VarWebHTTPPort    = "WEB_HTTP_PORT"
	VarWebDevHTTPPort = "WEB_DEV_HTTP_PORT"
	VarWebBaseHref    = "WEB_BASE_HREF"
	VarAgentAPIKey    = "AGENT_ADMIN_API_KEY"
	VarAgentAdminMode = "AGENT_ADMIN_MODE"
	VarEnablePTVSD    = "ENABLE_PTVSD"
	VarAPIURL         = "API_URL"
)

// DefaultProjectName is the compose project name used when none is set.
const DefaultProjectName = "vcr"

// DefaultTheme is the web theme bundled with the client sources.
const DefaultTheme = "bcgov"

func agentAdminMode(env *Env) string {
	if key := env.Get(VarAgentAPIKey); key != "" {
		return "admin-api-key " + key
	}
	return "admin-insecure-mode"
}

// Defaults returns the defaults table in evaluation order. Rows may
// reference any variable defined above them.
func Defaults() []Default {
	return []Default{
		// project
		{Name: VarProjectName, Mode: IfUnsetOrEmpty, Value: DefaultProjectName},
		{Name: "AGENT_WALLET_SEED", Mode: IfUnsetOrEmpty, Value: "${" + VarWalletSeed + "}"},
		{Name: VarLedgerURL, Mode: IfUnset, Value: "http://${DOCKERHOST}:9000"},
		{Name: "GENESIS_URL", Mode: IfUnset, Value: "${LEDGER_URL}/genesis"},
		{Name: "LEDGER_PROTOCOL_VERSION", Mode: IfUnset, Value: ""},

		// wallet-db
		{Name: "WALLET_TYPE", Mode: Fixed, Value: "postgres_storage"},
		{Name: "WALLET_ENCRYPTION_KEY", Mode: Fixed, Value: "key"},
		{Name: "POSTGRESQL_WALLET_HOST", Mode: Fixed, Value: "wallet-db"},
		{Name: "POSTGRESQL_WALLET_PORT", Mode: Fixed, Value: "5432"},
		{Name: "POSTGRESQL_WALLET_USER", Mode: Fixed, Value: "DB_USER"},
		{Name: "POSTGRESQL_WALLET_PASSWORD", Mode: Fixed, Value: "DB_PASSWORD"},
		{Name: "POSTGRESQL_WALLET_ADMIN_PASSWORD", Mode: Fixed, Value: "mysecretpassword"},

		// vcr-db
		{Name: "POSTGRESQL_DATABASE", Mode: Fixed, Value: "credential_registry"},
		{Name: "POSTGRESQL_USER", Mode: Fixed, Value: "DB_USER"},
		{Name: "POSTGRESQL_PASSWORD", Mode: Fixed, Value: "DB_PASSWORD"},
		{Name: "POSTGRESQL_ADMIN_PASSWORD", Mode: Fixed, Value: "mysecretpassword"},
		{Name: "DATABASE_SERVICE_NAME", Mode: Fixed, Value: "vcr-db"},
		{Name: "DATABASE_ENGINE", Mode: IfUnset, Value: "postgresql"},
		{Name: "DATABASE_NAME", Mode: Fixed, Value: "${POSTGRESQL_DATABASE}"},
		{Name: "DATABASE_USER", Mode: Fixed, Value: "${POSTGRESQL_USER}"},
		{Name: "DATABASE_PASSWORD", Mode: Fixed, Value: "${POSTGRESQL_PASSWORD}"},

		// vcr-solr
		{Name: "CORE_NAME", Mode: Fixed, Value: "credential_registry"},
		{Name: "SOLR_SERVICE_NAME", Mode: Fixed, Value: "vcr-solr"},
		{Name: "SOLR_CORE_NAME", Mode: Fixed, Value: "${CORE_NAME}"},
		{Name: "SOLR_BATCH_SIZE", Mode: IfUnsetOrEmpty, Value: "500"},

		// vcr-agent
		{Name: "AGENT_ADMIN_PORT", Mode: IfUnsetOrEmpty, Value: "8024"},
		{Name: "AGENT_HTTP_PORT", Mode: IfUnsetOrEmpty, Value: "8021"},
		{Name: "AGENT_NAME", Mode: Fixed, Value: "vcr-agent"},
		{Name: "AGENT_WALLET_NAME", Mode: Fixed, Value: "vcr_agent_wallet"},
		{Name: "AGENT_WALLET_ENCRYPTION_KEY", Mode: Fixed, Value: "key"},
		{Name: "AGENT_STORAGE_WALLET_TYPE", Mode: Fixed, Value: "postgres_storage"},
		{Name: "AGENT_ENDPOINT", Mode: IfUnsetOrEmpty, Value: "http://${DOCKERHOST}:${AGENT_HTTP_PORT}"},
		{Name: VarAgentAPIKey, Mode: IfUnset, Value: ""},
		{Name: VarAgentAdminMode, Mode: IfUnsetOrEmpty, Derive: agentAdminMode},
		{Name: "AGENT_ADMIN_URL", Mode: IfUnsetOrEmpty, Value: "http://vcr-agent:${AGENT_ADMIN_PORT}"},
		{Name: "WEBHOOK_URL", Mode: IfUnsetOrEmpty, Value: "http://vcr-api:8080/agentcb"},

		// tracing
		{Name: "TRACE_EVENTS", Mode: IfUnsetOrEmpty, Value: "false"},
		{Name: "TRACE_TARGET", Mode: IfUnsetOrEmpty, Value: "log"},
		{Name: "TRACE_TAG", Mode: IfUnsetOrEmpty, Value: "acapy.events"},
		{Name: "TRACE_LABEL", Mode: IfUnsetOrEmpty, Value: "vcr.agent.trace"},

		// vcr-api
		{Name: VarAPIHTTPPort, Mode: IfUnsetOrEmpty, Value: "8081"},
		{Name: "DJANGO_SECRET_KEY", Mode: Fixed, Value: "wpn1GZrouOryH2FshRrpVHcEhMfMLtmTWMC2K5Vhx8MAi74H5y"},
		{Name: "DJANGO_DEBUG", Mode: IfUnsetOrEmpty, Value: "True"},
		{Name: "DJANGO_LOG_LEVEL", Mode: IfUnset, Value: "WARN"},
		{Name: "OPTIMIZE_TABLE_ROW_COUNTS", Mode: IfUnset, Value: ""},
		{Name: "INDY_DISABLED", Mode: IfUnset, Value: ""},
		{Name: "ENABLE_REALTIME_INDEXING", Mode: IfUnsetOrEmpty, Value: "1"},
		{Name: "UPDATE_CRED_TYPE_TIMESTAMP", Mode: IfUnsetOrEmpty, Value: "true"},
		{Name: "CREATE_CREDENTIAL_CLAIMS", Mode: IfUnsetOrEmpty, Value: "true"},
		{Name: "SQL_DEBUG", Mode: IfUnsetOrEmpty, Value: ""},
		{Name: "WEB_CONCURRENCY", Mode: IfUnsetOrEmpty, Value: "1"},
		{Name: VarEnablePTVSD, Mode: IfUnsetOrEmpty, Value: "false"},
		{Name: "APP_MODULE", Mode: Fixed, Value: "vcr_server.asgi:application"},
		{Name: "START_MODE", Mode: Fixed, Value: "api"},

		// vcr-web
		{Name: VarTheme, Mode: IfUnsetOrEmpty, Value: DefaultTheme},
		{Name: VarThemePath, Mode: IfUnset, Value: ""},
		{Name: VarWebHTTPPort, Mode: IfUnsetOrEmpty, Value: "8080"},
		{Name: VarWebDevHTTPPort, Mode: IfUnsetOrEmpty, Value: "4300"},
		{Name: VarWebBaseHref, Mode: IfUnsetOrEmpty, Value: "/"},
		{Name: VarAPIURL, Mode: IfUnsetOrEmpty, Value: "http://vcr-api:8080/api/"},
		{Name: "APPLICATION_URL", Mode: IfUnset, Value: "http://localhost:${WEB_HTTP_PORT}"},
		{Name: "IpFilterRules", Mode: Fixed, Value: "#allow all; deny all;"},
		{Name: "RealIpFrom", Mode: Fixed, Value: "127.0.0.0/16"},
		{Name: "HTTP_BASIC_USERNAME", Mode: IfUnsetOrEmpty, Value: ""},
		{Name: "HTTP_BASIC_PASSWORD", Mode: IfUnsetOrEmpty, Value: ""},

		// msg-queue
		{Name: "RABBITMQ_SVC_NAME", Mode: Fixed, Value: "msg-queue"},
		{Name: "RABBITMQ_USER", Mode: Fixed, Value: "RABBITMQ_USER"},
		{Name: "RABBITMQ_PASSWORD", Mode: Fixed, Value: "RABBITMQ_PASSWORD"},
		{Name: "RABBITMQ_VHOST", Mode: IfUnsetOrEmpty, Value: "/"},
	}
}
