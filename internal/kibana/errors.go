package kibana

import (
	"errors"

	"fleetgate/internal/api"
)

func isStatus(err error, status int) bool {
	var reqErr *api.RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == status
}
