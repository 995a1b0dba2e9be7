package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nerrad567/sunflow/internal/fronius"
)

// DeviceClient is the Solar API surface the mappers consume. Implemented by
// *fronius.Client; tests substitute a fake.
type DeviceClient interface {
	CommonInverterData(ctx context.Context, id fronius.DeviceID) (*fronius.CommonInverterData, error)
	ThreePhaseInverterData(ctx context.Context, id fronius.DeviceID) (*fronius.ThreePhaseInverterData, error)
	InverterInfo(ctx context.Context) (map[string]*fronius.InverterInfo, error)
	MeterRealtimeData(ctx context.Context, id fronius.DeviceID) (*fronius.MeterRealtimeData, error)
	StorageRealtimeData(ctx context.Context, id fronius.DeviceID) (*fronius.StorageRealtimeData, error)
	OhmPilotRealtimeData(ctx context.Context, id fronius.DeviceID) (*fronius.OhmPilotRealtimeData, error)
	PowerFlowRealtimeData(ctx context.Context) (*fronius.PowerFlowRealtimeData, error)
}

// Each collect function fetches one category and maps the response into its
// record. The record timestamp is taken after the fetch succeeds, at the
// moment of mapping.

// CollectInverter maps the common inverter collection for one inverter.
func CollectInverter(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*Inverter, error) {
	data, err := client.CommonInverterData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching common inverter data: %w", err)
	}

	rec := &Inverter{
		ACPower:     data.PAC.Value,
		ACPowerAbs:  data.SAC.Value,
		ACCurrent:   data.IAC.Value,
		ACVoltage:   data.UAC.Value,
		DCCurrent:   data.IDC.Value,
		DCVoltage:   data.UDC.Value,
		TotalEnergy: data.TotalEnergy.Value,
		Time:        time.Now().UTC(),
	}
	if data.FAC != nil {
		rec.ACFrequency = data.FAC.Value
	}
	return rec, nil
}

// CollectInverterPhase maps the three-phase collection for one inverter.
func CollectInverterPhase(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*InverterPhase, error) {
	data, err := client.ThreePhaseInverterData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching three-phase inverter data: %w", err)
	}

	return &InverterPhase{
		ACL1Current: data.IACL1.Value,
		ACL2Current: data.IACL2.Value,
		ACL3Current: data.IACL3.Value,
		DCL1Voltage: data.UACL1.Value,
		DCL2Voltage: data.UACL2.Value,
		DCL3Voltage: data.UACL3.Value,
		Time:        time.Now().UTC(),
	}, nil
}

// CollectInverterInfo maps the info entry for one inverter.
//
// The info endpoint returns every device the datamanager knows about; the
// queried id is looked up in that map. A missing or empty entry means the
// datamanager and the configuration disagree about which devices exist,
// which fails the whole mapping with ErrDeviceNotListed.
func CollectInverterInfo(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*InverterInfo, error) {
	infos, err := client.InverterInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching inverter info: %w", err)
	}

	info, ok := infos[id.String()]
	if !ok || info == nil {
		return nil, fmt.Errorf("%w: device %s", ErrDeviceNotListed, id)
	}

	return &InverterInfo{
		DeviceType:   info.DT,
		PVPower:      info.PVPower,
		Name:         info.CustomName,
		IsVisualized: info.Show > 0,
		ID:           info.UniqueID,
		ErrorCode:    info.ErrorCode,
		StatusCode:   strconv.FormatInt(info.StatusCode, 10),
		State:        info.InverterState,
		Time:         time.Now().UTC(),
	}, nil
}

// CollectMeter maps the realtime readings of one smart meter.
func CollectMeter(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*Meter, error) {
	data, err := client.MeterRealtimeData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching meter data: %w", err)
	}

	return &Meter{
		L1Current:        data.CurrentACPhase1,
		L2Current:        data.CurrentACPhase2,
		L3Current:        data.CurrentACPhase3,
		Current:          data.CurrentACSum,
		L1Voltage:        data.VoltageACPhase1,
		L2Voltage:        data.VoltageACPhase2,
		L3Voltage:        data.VoltageACPhase3,
		L12Voltage:       data.VoltageACPhaseToPhase12,
		L23Voltage:       data.VoltageACPhaseToPhase23,
		L31Voltage:       data.VoltageACPhaseToPhase31,
		L1Power:          data.PowerRealPPhase1,
		L2Power:          data.PowerRealPPhase2,
		L3Power:          data.PowerRealPPhase3,
		Power:            data.PowerRealPSum,
		FrequencyAverage: data.FrequencyPhaseAverage,
		Time:             time.Now().UTC(),
	}, nil
}

// CollectStorage maps the battery controller values of one storage unit,
// hoisted out of the controller sub-object.
func CollectStorage(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*Storage, error) {
	data, err := client.StorageRealtimeData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching storage data: %w", err)
	}

	return &Storage{
		Enabled:          data.Controller.Enable > 0,
		ChargePercentage: data.Controller.StateOfChargeRelative,
		Capacity:         data.Controller.CapacityMaximum,
		DCCurrent:        data.Controller.CurrentDC,
		DCVoltage:        data.Controller.VoltageDC,
		TemperatureCell:  data.Controller.TemperatureCell,
		Time:             time.Now().UTC(),
	}, nil
}

// CollectOhmPilot maps the state of one OhmPilot. An absent error code
// reads as 0, the device's no-fault value.
func CollectOhmPilot(ctx context.Context, client DeviceClient, id fronius.DeviceID) (*OhmPilot, error) {
	data, err := client.OhmPilotRealtimeData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching ohm pilot data: %w", err)
	}

	var errorCode int64
	if data.CodeOfError != nil {
		errorCode = *data.CodeOfError
	}

	return &OhmPilot{
		State:       strconv.FormatInt(data.CodeOfState, 10),
		ErrorCode:   errorCode,
		Power:       data.PowerRealPACSum,
		Temperature: data.TemperatureChannel1,
		Time:        time.Now().UTC(),
	}, nil
}

// CollectPowerFlow maps the site-wide power balance. The endpoint is not
// device-scoped, so no device id is taken.
func CollectPowerFlow(ctx context.Context, client DeviceClient) (*PowerFlow, error) {
	data, err := client.PowerFlowRealtimeData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching power flow data: %w", err)
	}

	return &PowerFlow{
		Akku:                    data.Site.PAkku,
		Grid:                    data.Site.PGrid,
		Load:                    data.Site.PLoad,
		Photovoltaik:            data.Site.PPV,
		RelativeAutonomy:        data.Site.RelAutonomy,
		RelativeSelfConsumption: data.Site.RelSelfConsumption,
		Time:                    time.Now().UTC(),
	}, nil
}
