package fronius

import (
	"fmt"
	"strconv"
)

// maxDeviceID is the highest device number addressable through the Solar API.
const maxDeviceID = 99

// DeviceID selects one physical device instance within a category, such as
// inverter 1 or meter 0. The numeric value appears in query parameters and
// as the map key in inverter info responses.
type DeviceID uint8

// NewDeviceID validates n and returns it as a DeviceID.
//
// Returns:
//   - DeviceID: The validated identifier
//   - error: ErrInvalidDeviceID if n is outside 0-99
func NewDeviceID(n int) (DeviceID, error) {
	if n < 0 || n > maxDeviceID {
		return 0, fmt.Errorf("%w: %d (valid range 0-%d)", ErrInvalidDeviceID, n, maxDeviceID)
	}
	return DeviceID(n), nil
}

// String returns the decimal form used on the wire.
func (d DeviceID) String() string {
	return strconv.Itoa(int(d))
}
