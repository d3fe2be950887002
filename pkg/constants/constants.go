package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to upper-cased config keys, e.g.
	// TICKETS_MONGO_URI overrides mongo.uri.
	EnvPrefix = "TICKETS"

	ServiceName = "ticketcreator_backend"
)
