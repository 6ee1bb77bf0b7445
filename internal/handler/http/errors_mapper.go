package http

import (
	"errors"

	"github.com/MKhiriev/hostile-planets/internal/game"
	"github.com/MKhiriev/hostile-planets/models"
)

var protocolErrorMap = map[error]string{
	game.ErrInvalidName:    models.ErrorInvalidName,
	game.ErrNameInUse:      models.ErrorNameInUse,
	game.ErrNotJoined:      models.ErrorNotJoined,
	game.ErrPlayerNotFound: models.ErrorNotJoined,
}

// protocolError returns the text sent to the peer in an error envelope.
func protocolError(err error) string {
	for target, msg := range protocolErrorMap {
		if errors.Is(err, target) {
			return msg
		}
	}
	return "internal error"
}
