// Package fronius provides an HTTP client for the Fronius Solar API v1.
//
// The Solar API is served by the datamanager card inside Fronius inverters
// on the local network. It exposes CGI endpoints returning JSON wrapped in
// a common envelope (Head with a status block, Body with the payload).
//
// # Purpose
//
// This package handles device communication for:
//   - Inverter realtime data (common and three-phase collections)
//   - Inverter identity and status information
//   - Smart Meter, battery storage and OhmPilot realtime data
//   - Site-wide power flow
//
// # Usage
//
//	client, err := fronius.Connect(fronius.Config{Host: "192.168.1.40"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	id, _ := fronius.NewDeviceID(1)
//	data, err := client.CommonInverterData(ctx, id)
//
// # Error Handling
//
// Transport and decode failures are wrapped sentinel errors checkable with
// errors.Is. A well-formed response whose envelope carries a non-zero status
// code yields a *StatusError, which matches ErrStatus.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines. The
// client holds no mutable state beyond the shared http.Client.
package fronius
