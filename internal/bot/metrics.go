package bot

import "expvar"

var (
	metricUpdatesTotal   = expvar.NewInt("bot_updates_total")
	metricCommandsTotal  = expvar.NewInt("bot_commands_total")
	metricCallbacksTotal = expvar.NewInt("bot_callbacks_total")
	metricPostingsTotal  = expvar.NewInt("bot_postings_total")
	metricResetsTotal    = expvar.NewInt("bot_resets_total")
	metricDeniedTotal    = expvar.NewInt("bot_permission_denied_total")
	metricSendErrors     = expvar.NewInt("bot_send_errors_total")
	metricHandlerPanics  = expvar.NewInt("bot_handler_panics_total")
)
