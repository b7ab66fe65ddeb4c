package eventbus

import (
	"github.com/google/wire"
)

// ProviderSet is eventbus providers.
var ProviderSet = wire.NewSet(
	NewZapLoggerAdapter,
	NewEventBus,
	NewRouter,
)
