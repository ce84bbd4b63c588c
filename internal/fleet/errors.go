package fleet

import "errors"

var (
	ErrMissingVehicle     = errors.New("vehicle not found")
	ErrMissingDriver      = errors.New("driver not found")
	ErrMissingRoute       = errors.New("route not found")
	ErrMissingMaintenance = errors.New("maintenance not found")
	ErrMissingRefueling   = errors.New("refueling not found")
	ErrMissingSummary     = errors.New("monthly summary not found")

	ErrVehicleUnavailable = errors.New("vehicle is already on a route or in maintenance")
	ErrInvalidOdometer    = errors.New("invalid odometer reading")
	ErrInvalidAmount      = errors.New("amounts must be greater than zero")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidInput       = errors.New("invalid input")

	ErrNotOwner          = errors.New("only the user who started the route can change it")
	ErrForbidden         = errors.New("operation not allowed for this user")
	ErrRouteClosed       = errors.New("route is no longer in progress")
	ErrMaintenanceClosed = errors.New("maintenance is already finished")
	ErrNoDataForMonth    = errors.New("no routes, refuelings or maintenances in month")

	// ErrStoreUnavailable wraps any record store failure that is not one of
	// the kinds above.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

var kinds = []error{
	ErrMissingVehicle, ErrMissingDriver, ErrMissingRoute, ErrMissingMaintenance,
	ErrMissingRefueling, ErrMissingSummary, ErrVehicleUnavailable, ErrInvalidOdometer,
	ErrInvalidAmount, ErrInvalidMonth, ErrInvalidInput, ErrNotOwner, ErrForbidden,
	ErrRouteClosed, ErrMaintenanceClosed, ErrNoDataForMonth, ErrStoreUnavailable,
}

// IsKind reports whether err already carries one of the package error kinds.
func IsKind(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
