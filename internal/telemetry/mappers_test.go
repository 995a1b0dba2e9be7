package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/sunflow/internal/fronius"
	"github.com/nerrad567/sunflow/internal/telemetry"
)

// mockDevice returns canned Solar API payloads to the mapper under test.
// Set err to make every fetch fail.
type mockDevice struct {
	common    *fronius.CommonInverterData
	phases    *fronius.ThreePhaseInverterData
	infos     map[string]*fronius.InverterInfo
	meter     *fronius.MeterRealtimeData
	storage   *fronius.StorageRealtimeData
	ohmPilot  *fronius.OhmPilotRealtimeData
	powerFlow *fronius.PowerFlowRealtimeData
	err       error
}

func (m *mockDevice) CommonInverterData(_ context.Context, _ fronius.DeviceID) (*fronius.CommonInverterData, error) {
	return m.common, m.err
}

func (m *mockDevice) ThreePhaseInverterData(_ context.Context, _ fronius.DeviceID) (*fronius.ThreePhaseInverterData, error) {
	return m.phases, m.err
}

func (m *mockDevice) InverterInfo(_ context.Context) (map[string]*fronius.InverterInfo, error) {
	return m.infos, m.err
}

func (m *mockDevice) MeterRealtimeData(_ context.Context, _ fronius.DeviceID) (*fronius.MeterRealtimeData, error) {
	return m.meter, m.err
}

func (m *mockDevice) StorageRealtimeData(_ context.Context, _ fronius.DeviceID) (*fronius.StorageRealtimeData, error) {
	return m.storage, m.err
}

func (m *mockDevice) OhmPilotRealtimeData(_ context.Context, _ fronius.DeviceID) (*fronius.OhmPilotRealtimeData, error) {
	return m.ohmPilot, m.err
}

func (m *mockDevice) PowerFlowRealtimeData(_ context.Context) (*fronius.PowerFlowRealtimeData, error) {
	return m.powerFlow, m.err
}

// deviceID builds a DeviceID or fails the test.
func deviceID(t *testing.T, n int) fronius.DeviceID {
	t.Helper()
	id, err := fronius.NewDeviceID(n)
	if err != nil {
		t.Fatalf("NewDeviceID(%d) error = %v", n, err)
	}
	return id
}

// channel builds a measurement channel with a present reading.
func channel(unit string, v float64) fronius.Value {
	return fronius.Value{Unit: unit, Value: &v}
}

// =============================================================================
// Inverter
// =============================================================================

func TestCollectInverter(t *testing.T) {
	device := &mockDevice{
		common: &fronius.CommonInverterData{
			PAC:         channel("W", 540.2),
			SAC:         channel("VA", 541.0),
			IAC:         channel("A", 2.34),
			UAC:         fronius.Value{Unit: "V"}, // reading absent this cycle
			FAC:         &fronius.Value{Unit: "Hz", Value: f64(49.98)},
			IDC:         channel("A", 1.41),
			UDC:         channel("V", 412.3),
			TotalEnergy: channel("Wh", 8213891.0),
		},
	}

	before := time.Now().UTC()
	rec, err := telemetry.CollectInverter(context.Background(), device, deviceID(t, 1))
	if err != nil {
		t.Fatalf("CollectInverter() error = %v", err)
	}

	if rec.ACPower == nil || *rec.ACPower != 540.2 {
		t.Errorf("ACPower = %v, want 540.2", rec.ACPower)
	}
	if rec.ACPowerAbs == nil || *rec.ACPowerAbs != 541.0 {
		t.Errorf("ACPowerAbs = %v, want 541.0", rec.ACPowerAbs)
	}
	if rec.ACVoltage != nil {
		t.Errorf("ACVoltage = %v, want nil for absent reading", *rec.ACVoltage)
	}
	if rec.ACFrequency == nil || *rec.ACFrequency != 49.98 {
		t.Errorf("ACFrequency = %v, want 49.98", rec.ACFrequency)
	}
	if rec.TotalEnergy == nil || *rec.TotalEnergy != 8213891.0 {
		t.Errorf("TotalEnergy = %v, want 8213891.0", rec.TotalEnergy)
	}
	if rec.Time.Before(before) || rec.Time.Location() != time.UTC {
		t.Errorf("Time = %v, want UTC timestamp taken during mapping", rec.Time)
	}
}

func TestCollectInverter_AbsentFrequencyChannel(t *testing.T) {
	// Single-phase firmware omits the FAC channel entirely.
	device := &mockDevice{
		common: &fronius.CommonInverterData{
			PAC: channel("W", 540.2),
		},
	}

	rec, err := telemetry.CollectInverter(context.Background(), device, deviceID(t, 1))
	if err != nil {
		t.Fatalf("CollectInverter() error = %v", err)
	}
	if rec.ACFrequency != nil {
		t.Errorf("ACFrequency = %v, want nil for absent channel", *rec.ACFrequency)
	}
}

func TestCollectInverter_FetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	device := &mockDevice{err: fetchErr}

	_, err := telemetry.CollectInverter(context.Background(), device, deviceID(t, 1))
	if err == nil {
		t.Fatal("CollectInverter() expected error")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("CollectInverter() error = %v, want wrapped fetch error", err)
	}
}

// =============================================================================
// InverterPhase
// =============================================================================

func TestCollectInverterPhase(t *testing.T) {
	device := &mockDevice{
		phases: &fronius.ThreePhaseInverterData{
			IACL1: channel("A", 0.78),
			IACL2: channel("A", 0.79),
			IACL3: channel("A", 0.77),
			UACL1: channel("V", 231.1),
			UACL2: channel("V", 230.8),
			UACL3: channel("V", 231.5),
		},
	}

	rec, err := telemetry.CollectInverterPhase(context.Background(), device, deviceID(t, 1))
	if err != nil {
		t.Fatalf("CollectInverterPhase() error = %v", err)
	}

	if rec.ACL2Current == nil || *rec.ACL2Current != 0.79 {
		t.Errorf("ACL2Current = %v, want 0.79", rec.ACL2Current)
	}
	// The phase voltages land on the dc_lN_voltage series.
	if rec.DCL1Voltage == nil || *rec.DCL1Voltage != 231.1 {
		t.Errorf("DCL1Voltage = %v, want 231.1", rec.DCL1Voltage)
	}
	if rec.DCL3Voltage == nil || *rec.DCL3Voltage != 231.5 {
		t.Errorf("DCL3Voltage = %v, want 231.5", rec.DCL3Voltage)
	}
}

func TestCollectInverterPhase_FetchError(t *testing.T) {
	fetchErr := errors.New("timeout")
	device := &mockDevice{err: fetchErr}

	_, err := telemetry.CollectInverterPhase(context.Background(), device, deviceID(t, 1))
	if !errors.Is(err, fetchErr) {
		t.Errorf("CollectInverterPhase() error = %v, want wrapped fetch error", err)
	}
}

// =============================================================================
// InverterInfo
// =============================================================================

func TestCollectInverterInfo(t *testing.T) {
	device := &mockDevice{
		infos: map[string]*fronius.InverterInfo{
			"1": {
				DT:            102,
				PVPower:       5000,
				CustomName:    "Symo 5.0-3-M",
				Show:          1,
				UniqueID:      "29382k1",
				ErrorCode:     0,
				StatusCode:    7,
				InverterState: "Running",
			},
		},
	}

	rec, err := telemetry.CollectInverterInfo(context.Background(), device, deviceID(t, 1))
	if err != nil {
		t.Fatalf("CollectInverterInfo() error = %v", err)
	}

	if rec.DeviceType != 102 {
		t.Errorf("DeviceType = %d, want 102", rec.DeviceType)
	}
	if rec.Name != "Symo 5.0-3-M" {
		t.Errorf("Name = %q, want %q", rec.Name, "Symo 5.0-3-M")
	}
	if !rec.IsVisualized {
		t.Error("IsVisualized = false, want true for Show = 1")
	}
	if rec.StatusCode != "7" {
		t.Errorf("StatusCode = %q, want %q", rec.StatusCode, "7")
	}
	if rec.State != "Running" {
		t.Errorf("State = %q, want %q", rec.State, "Running")
	}
}

func TestCollectInverterInfo_HiddenDevice(t *testing.T) {
	device := &mockDevice{
		infos: map[string]*fronius.InverterInfo{
			"1": {Show: 0, InverterState: "Sleeping"},
		},
	}

	rec, err := telemetry.CollectInverterInfo(context.Background(), device, deviceID(t, 1))
	if err != nil {
		t.Fatalf("CollectInverterInfo() error = %v", err)
	}
	if rec.IsVisualized {
		t.Error("IsVisualized = true, want false for Show = 0")
	}
}

func TestCollectInverterInfo_DeviceNotListed(t *testing.T) {
	tests := []struct {
		name  string
		infos map[string]*fronius.InverterInfo
	}{
		{
			name:  "id missing from response",
			infos: map[string]*fronius.InverterInfo{"2": {CustomName: "other"}},
		},
		{
			name:  "entry present but empty",
			infos: map[string]*fronius.InverterInfo{"1": nil},
		},
		{
			name:  "empty response",
			infos: map[string]*fronius.InverterInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &mockDevice{infos: tt.infos}

			_, err := telemetry.CollectInverterInfo(context.Background(), device, deviceID(t, 1))
			if err == nil {
				t.Fatal("CollectInverterInfo() expected error")
			}
			if !errors.Is(err, telemetry.ErrDeviceNotListed) {
				t.Errorf("CollectInverterInfo() error = %v, want ErrDeviceNotListed", err)
			}
		})
	}
}

// =============================================================================
// Meter
// =============================================================================

func TestCollectMeter(t *testing.T) {
	device := &mockDevice{
		meter: &fronius.MeterRealtimeData{
			CurrentACPhase1:       f64(0.48),
			CurrentACSum:          f64(0.48),
			VoltageACPhase1:       f64(230.9),
			PowerRealPPhase1:      f64(-76.0),
			PowerRealPSum:         -76.0,
			FrequencyPhaseAverage: 50.01,
		},
	}

	rec, err := telemetry.CollectMeter(context.Background(), device, deviceID(t, 0))
	if err != nil {
		t.Fatalf("CollectMeter() error = %v", err)
	}

	if rec.L1Current == nil || *rec.L1Current != 0.48 {
		t.Errorf("L1Current = %v, want 0.48", rec.L1Current)
	}
	if rec.L2Current != nil {
		t.Errorf("L2Current = %v, want nil on single-phase meter", *rec.L2Current)
	}
	if rec.L12Voltage != nil {
		t.Errorf("L12Voltage = %v, want nil on single-phase meter", *rec.L12Voltage)
	}
	if rec.Power != -76.0 {
		t.Errorf("Power = %v, want -76.0", rec.Power)
	}
	if rec.FrequencyAverage != 50.01 {
		t.Errorf("FrequencyAverage = %v, want 50.01", rec.FrequencyAverage)
	}
}

func TestCollectMeter_FetchError(t *testing.T) {
	fetchErr := errors.New("status 255")
	device := &mockDevice{err: fetchErr}

	_, err := telemetry.CollectMeter(context.Background(), device, deviceID(t, 0))
	if !errors.Is(err, fetchErr) {
		t.Errorf("CollectMeter() error = %v, want wrapped fetch error", err)
	}
}

// =============================================================================
// Storage
// =============================================================================

func TestCollectStorage(t *testing.T) {
	device := &mockDevice{
		storage: &fronius.StorageRealtimeData{
			Controller: fronius.StorageController{
				Enable:                1,
				StateOfChargeRelative: 87.5,
				CapacityMaximum:       7680,
				CurrentDC:             -4.2,
				VoltageDC:             392.1,
				TemperatureCell:       21.4,
			},
		},
	}

	rec, err := telemetry.CollectStorage(context.Background(), device, deviceID(t, 0))
	if err != nil {
		t.Fatalf("CollectStorage() error = %v", err)
	}

	if !rec.Enabled {
		t.Error("Enabled = false, want true for Enable = 1")
	}
	if rec.ChargePercentage != 87.5 {
		t.Errorf("ChargePercentage = %v, want 87.5", rec.ChargePercentage)
	}
	if rec.Capacity != 7680 {
		t.Errorf("Capacity = %v, want 7680", rec.Capacity)
	}
	if rec.DCCurrent != -4.2 {
		t.Errorf("DCCurrent = %v, want -4.2", rec.DCCurrent)
	}
}

func TestCollectStorage_Disabled(t *testing.T) {
	device := &mockDevice{
		storage: &fronius.StorageRealtimeData{
			Controller: fronius.StorageController{Enable: 0},
		},
	}

	rec, err := telemetry.CollectStorage(context.Background(), device, deviceID(t, 0))
	if err != nil {
		t.Fatalf("CollectStorage() error = %v", err)
	}
	if rec.Enabled {
		t.Error("Enabled = true, want false for Enable = 0")
	}
}

// =============================================================================
// OhmPilot
// =============================================================================

func TestCollectOhmPilot(t *testing.T) {
	device := &mockDevice{
		ohmPilot: &fronius.OhmPilotRealtimeData{
			CodeOfState:         0,
			PowerRealPACSum:     1250.0,
			TemperatureChannel1: 54.3,
		},
	}

	rec, err := telemetry.CollectOhmPilot(context.Background(), device, deviceID(t, 0))
	if err != nil {
		t.Fatalf("CollectOhmPilot() error = %v", err)
	}

	if rec.State != "0" {
		t.Errorf("State = %q, want %q", rec.State, "0")
	}
	if rec.ErrorCode != 0 {
		t.Errorf("ErrorCode = %d, want 0 while no fault is reported", rec.ErrorCode)
	}
	if rec.Power != 1250.0 {
		t.Errorf("Power = %v, want 1250.0", rec.Power)
	}
	if rec.Temperature != 54.3 {
		t.Errorf("Temperature = %v, want 54.3", rec.Temperature)
	}
}

func TestCollectOhmPilot_Fault(t *testing.T) {
	faultCode := int64(923)
	device := &mockDevice{
		ohmPilot: &fronius.OhmPilotRealtimeData{
			CodeOfState: 3,
			CodeOfError: &faultCode,
		},
	}

	rec, err := telemetry.CollectOhmPilot(context.Background(), device, deviceID(t, 0))
	if err != nil {
		t.Fatalf("CollectOhmPilot() error = %v", err)
	}
	if rec.State != "3" {
		t.Errorf("State = %q, want %q", rec.State, "3")
	}
	if rec.ErrorCode != 923 {
		t.Errorf("ErrorCode = %d, want 923", rec.ErrorCode)
	}
}

// =============================================================================
// PowerFlow
// =============================================================================

func TestCollectPowerFlow(t *testing.T) {
	device := &mockDevice{
		powerFlow: &fronius.PowerFlowRealtimeData{
			Site: fronius.PowerFlowSite{
				PAkku:              f64(-1200.5),
				PGrid:              f64(-340.2),
				PLoad:              f64(-890.1),
				PPV:                2430.8,
				RelAutonomy:        f64(100),
				RelSelfConsumption: f64(63.4),
			},
		},
	}

	rec, err := telemetry.CollectPowerFlow(context.Background(), device)
	if err != nil {
		t.Fatalf("CollectPowerFlow() error = %v", err)
	}

	if rec.Akku == nil || *rec.Akku != -1200.5 {
		t.Errorf("Akku = %v, want -1200.5", rec.Akku)
	}
	if rec.Grid == nil || *rec.Grid != -340.2 {
		t.Errorf("Grid = %v, want -340.2", rec.Grid)
	}
	if rec.Photovoltaik != 2430.8 {
		t.Errorf("Photovoltaik = %v, want 2430.8", rec.Photovoltaik)
	}
	if rec.RelativeSelfConsumption == nil || *rec.RelativeSelfConsumption != 63.4 {
		t.Errorf("RelativeSelfConsumption = %v, want 63.4", rec.RelativeSelfConsumption)
	}
}

func TestCollectPowerFlow_NightValues(t *testing.T) {
	device := &mockDevice{
		powerFlow: &fronius.PowerFlowRealtimeData{
			Site: fronius.PowerFlowSite{
				PGrid: f64(410.7),
				PLoad: f64(-410.7),
			},
		},
	}

	rec, err := telemetry.CollectPowerFlow(context.Background(), device)
	if err != nil {
		t.Fatalf("CollectPowerFlow() error = %v", err)
	}
	if rec.Akku != nil {
		t.Errorf("Akku = %v, want nil when the site reports none", *rec.Akku)
	}
	if rec.Photovoltaik != 0 {
		t.Errorf("Photovoltaik = %v, want 0", rec.Photovoltaik)
	}
	if rec.RelativeAutonomy != nil {
		t.Errorf("RelativeAutonomy = %v, want nil when the site reports none", *rec.RelativeAutonomy)
	}
}
