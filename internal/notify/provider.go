package notify

import (
	"go-shortview/internal/tracking/usecase"

	"github.com/google/wire"
)

// ProviderSet is notify providers.
var ProviderSet = wire.NewSet(
	NewQueue,
	wire.Bind(new(usecase.Dispatcher), new(*Queue)),
	NewTransport,
	NewMailHandler,
)
