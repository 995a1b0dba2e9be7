package fronius_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/nerrad567/sunflow/internal/fronius"
)

// newTestClient builds a client pointed at the given test server.
func newTestClient(t *testing.T, srv *httptest.Server) *fronius.Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parsing test server port: %v", err)
	}

	client, err := fronius.Connect(fronius.Config{
		Host:    u.Hostname(),
		Port:    port,
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return client
}

// okEnvelope wraps a Body.Data payload in a success envelope.
func okEnvelope(data string) string {
	return `{"Head":{"Status":{"Code":0,"Reason":"","UserMessage":""}},"Body":{"Data":` + data + `}}`
}

// mustDeviceID fails the test if the id is invalid.
func mustDeviceID(t *testing.T, n int) fronius.DeviceID {
	t.Helper()
	id, err := fronius.NewDeviceID(n)
	if err != nil {
		t.Fatalf("NewDeviceID(%d) error = %v", n, err)
	}
	return id
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect_HostValidation(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantErr bool
	}{
		{name: "valid IPv4", host: "192.168.1.40", wantErr: false},
		{name: "loopback", host: "127.0.0.1", wantErr: false},
		{name: "hostname rejected", host: "inverter.local", wantErr: true},
		{name: "IPv6 rejected", host: "fe80::1", wantErr: true},
		{name: "empty rejected", host: "", wantErr: true},
		{name: "garbage rejected", host: "not-an-address", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fronius.Connect(fronius.Config{Host: tt.host})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Connect(%q) expected error, got nil", tt.host)
				}
				if !errors.Is(err, fronius.ErrInvalidHost) {
					t.Errorf("Connect(%q) error = %v, want ErrInvalidHost", tt.host, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Connect(%q) error = %v", tt.host, err)
			}
		})
	}
}

// =============================================================================
// Realtime Data Tests
// =============================================================================

func TestCommonInverterData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetInverterRealtimeData.cgi" {
			t.Errorf("path = %q, want GetInverterRealtimeData.cgi", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("Scope") != "Device" {
			t.Errorf("Scope = %q, want Device", q.Get("Scope"))
		}
		if q.Get("DeviceId") != "1" {
			t.Errorf("DeviceId = %q, want 1", q.Get("DeviceId"))
		}
		if q.Get("DataCollection") != "CommonInverterData" {
			t.Errorf("DataCollection = %q, want CommonInverterData", q.Get("DataCollection"))
		}

		// UAC reports null, FAC is absent entirely (single-phase unit).
		payload := `{
			"PAC": {"Unit": "W", "Value": 540.2},
			"SAC": {"Unit": "VA", "Value": 560.0},
			"IAC": {"Unit": "A", "Value": 2.34},
			"UAC": {"Unit": "V", "Value": null},
			"IDC": {"Unit": "A", "Value": 1.41},
			"UDC": {"Unit": "V", "Value": 398.5},
			"DAY_ENERGY": {"Unit": "Wh", "Value": 8000},
			"YEAR_ENERGY": {"Unit": "Wh", "Value": 44000},
			"TOTAL_ENERGY": {"Unit": "Wh", "Value": 5120000}
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.CommonInverterData(context.Background(), mustDeviceID(t, 1))
	if err != nil {
		t.Fatalf("CommonInverterData() error = %v", err)
	}

	if data.PAC.Value == nil || *data.PAC.Value != 540.2 {
		t.Errorf("PAC.Value = %v, want 540.2", data.PAC.Value)
	}
	if data.PAC.Unit != "W" {
		t.Errorf("PAC.Unit = %q, want W", data.PAC.Unit)
	}
	if data.UAC.Value != nil {
		t.Errorf("UAC.Value = %v, want nil for null reading", *data.UAC.Value)
	}
	if data.FAC != nil {
		t.Errorf("FAC = %+v, want nil for absent channel", data.FAC)
	}
	if data.TotalEnergy.Value == nil || *data.TotalEnergy.Value != 5120000 {
		t.Errorf("TotalEnergy.Value = %v, want 5120000", data.TotalEnergy.Value)
	}
}

func TestThreePhaseInverterData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("DataCollection"); got != "3PInverterData" {
			t.Errorf("DataCollection = %q, want 3PInverterData", got)
		}
		payload := `{
			"IAC_L1": {"Unit": "A", "Value": 0.8},
			"IAC_L2": {"Unit": "A", "Value": 0.82},
			"IAC_L3": {"Unit": "A", "Value": 0.79},
			"UAC_L1": {"Unit": "V", "Value": 231.2},
			"UAC_L2": {"Unit": "V", "Value": 230.7},
			"UAC_L3": {"Unit": "V", "Value": null}
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.ThreePhaseInverterData(context.Background(), mustDeviceID(t, 1))
	if err != nil {
		t.Fatalf("ThreePhaseInverterData() error = %v", err)
	}

	if data.IACL1.Value == nil || *data.IACL1.Value != 0.8 {
		t.Errorf("IACL1.Value = %v, want 0.8", data.IACL1.Value)
	}
	if data.UACL1.Value == nil || *data.UACL1.Value != 231.2 {
		t.Errorf("UACL1.Value = %v, want 231.2", data.UACL1.Value)
	}
	if data.UACL3.Value != nil {
		t.Errorf("UACL3.Value = %v, want nil for null reading", *data.UACL3.Value)
	}
}

func TestInverterInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetInverterInfo.cgi" {
			t.Errorf("path = %q, want GetInverterInfo.cgi", r.URL.Path)
		}
		payload := `{
			"1": {
				"DT": 102,
				"PVPower": 5000,
				"CustomName": "Symo",
				"Show": 1,
				"UniqueID": "1234567",
				"ErrorCode": 0,
				"StatusCode": 7,
				"InverterState": "Running"
			},
			"2": null
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	infos, err := client.InverterInfo(context.Background())
	if err != nil {
		t.Fatalf("InverterInfo() error = %v", err)
	}

	info, ok := infos["1"]
	if !ok || info == nil {
		t.Fatalf("InverterInfo() missing entry for device 1")
	}
	if info.CustomName != "Symo" {
		t.Errorf("CustomName = %q, want Symo", info.CustomName)
	}
	if info.StatusCode != 7 {
		t.Errorf("StatusCode = %d, want 7", info.StatusCode)
	}
	if info.InverterState != "Running" {
		t.Errorf("InverterState = %q, want Running", info.InverterState)
	}

	// Slots the datamanager reports without data decode as present-but-nil.
	empty, ok := infos["2"]
	if !ok {
		t.Fatal("InverterInfo() missing entry for device 2")
	}
	if empty != nil {
		t.Errorf("entry for device 2 = %+v, want nil", empty)
	}
}

func TestMeterRealtimeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetMeterRealtimeData.cgi" {
			t.Errorf("path = %q, want GetMeterRealtimeData.cgi", r.URL.Path)
		}
		if got := r.URL.Query().Get("DeviceId"); got != "0" {
			t.Errorf("DeviceId = %q, want 0", got)
		}
		// Single-phase meter: no per-phase or phase-to-phase channels.
		payload := `{
			"Current_AC_Sum": 1.2,
			"PowerReal_P_Sum": -276.0,
			"Frequency_Phase_Average": 50.0
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.MeterRealtimeData(context.Background(), mustDeviceID(t, 0))
	if err != nil {
		t.Fatalf("MeterRealtimeData() error = %v", err)
	}

	if data.PowerRealPSum != -276.0 {
		t.Errorf("PowerRealPSum = %v, want -276.0", data.PowerRealPSum)
	}
	if data.FrequencyPhaseAverage != 50.0 {
		t.Errorf("FrequencyPhaseAverage = %v, want 50.0", data.FrequencyPhaseAverage)
	}
	if data.CurrentACSum == nil || *data.CurrentACSum != 1.2 {
		t.Errorf("CurrentACSum = %v, want 1.2", data.CurrentACSum)
	}
	if data.CurrentACPhase1 != nil {
		t.Errorf("CurrentACPhase1 = %v, want nil for absent channel", *data.CurrentACPhase1)
	}
	if data.VoltageACPhaseToPhase12 != nil {
		t.Errorf("VoltageACPhaseToPhase12 = %v, want nil for absent channel", *data.VoltageACPhaseToPhase12)
	}
}

func TestStorageRealtimeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetStorageRealtimeData.cgi" {
			t.Errorf("path = %q, want GetStorageRealtimeData.cgi", r.URL.Path)
		}
		payload := `{
			"Controller": {
				"Enable": 1,
				"StateOfCharge_Relative": 54.5,
				"Capacity_Maximum": 7680,
				"Current_DC": 2.1,
				"Voltage_DC": 318.8,
				"Temperature_Cell": 21.9
			},
			"Modules": []
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.StorageRealtimeData(context.Background(), mustDeviceID(t, 0))
	if err != nil {
		t.Fatalf("StorageRealtimeData() error = %v", err)
	}

	if data.Controller.Enable != 1 {
		t.Errorf("Controller.Enable = %v, want 1", data.Controller.Enable)
	}
	if data.Controller.StateOfChargeRelative != 54.5 {
		t.Errorf("Controller.StateOfChargeRelative = %v, want 54.5", data.Controller.StateOfChargeRelative)
	}
	if data.Controller.VoltageDC != 318.8 {
		t.Errorf("Controller.VoltageDC = %v, want 318.8", data.Controller.VoltageDC)
	}
}

func TestOhmPilotRealtimeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetOhmPilotRealtimeData.cgi" {
			t.Errorf("path = %q, want GetOhmPilotRealtimeData.cgi", r.URL.Path)
		}
		// No fault present, so CodeOfError is not reported.
		payload := `{
			"CodeOfState": 0,
			"PowerReal_PAC_Sum": 1500.0,
			"Temperature_Channel_1": 48.2
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.OhmPilotRealtimeData(context.Background(), mustDeviceID(t, 0))
	if err != nil {
		t.Fatalf("OhmPilotRealtimeData() error = %v", err)
	}

	if data.CodeOfState != 0 {
		t.Errorf("CodeOfState = %d, want 0", data.CodeOfState)
	}
	if data.CodeOfError != nil {
		t.Errorf("CodeOfError = %v, want nil when no fault present", *data.CodeOfError)
	}
	if data.PowerRealPACSum != 1500.0 {
		t.Errorf("PowerRealPACSum = %v, want 1500.0", data.PowerRealPACSum)
	}
}

func TestPowerFlowRealtimeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/v1/GetPowerFlowRealtimeData.fcgi" {
			t.Errorf("path = %q, want GetPowerFlowRealtimeData.fcgi", r.URL.Path)
		}
		if len(r.URL.Query()) != 0 {
			t.Errorf("query = %v, want none", r.URL.Query())
		}
		payload := `{
			"Site": {
				"P_Akku": -1000.5,
				"P_Grid": -2500.0,
				"P_Load": -345.2,
				"P_PV": 3845.7,
				"rel_Autonomy": 100,
				"rel_SelfConsumption": null
			},
			"Version": "12"
		}`
		w.Write([]byte(okEnvelope(payload)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	data, err := client.PowerFlowRealtimeData(context.Background())
	if err != nil {
		t.Fatalf("PowerFlowRealtimeData() error = %v", err)
	}

	if data.Site.PPV != 3845.7 {
		t.Errorf("Site.PPV = %v, want 3845.7", data.Site.PPV)
	}
	if data.Site.PGrid == nil || *data.Site.PGrid != -2500.0 {
		t.Errorf("Site.PGrid = %v, want -2500.0", data.Site.PGrid)
	}
	if data.Site.RelSelfConsumption != nil {
		t.Errorf("Site.RelSelfConsumption = %v, want nil for null reading", *data.Site.RelSelfConsumption)
	}
}

// =============================================================================
// Error Handling Tests
// =============================================================================

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"Head": {"Status": {"Code": 255, "Reason": "query device type mismatch", "UserMessage": ""}},
			"Body": {"Data": {}}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.MeterRealtimeData(context.Background(), mustDeviceID(t, 0))
	if err == nil {
		t.Fatal("MeterRealtimeData() expected error for non-zero status code")
	}
	if !errors.Is(err, fronius.ErrStatus) {
		t.Errorf("error = %v, want ErrStatus match", err)
	}

	var statusErr *fronius.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Code != 255 {
		t.Errorf("StatusError.Code = %d, want 255", statusErr.Code)
	}
	if statusErr.Reason != "query device type mismatch" {
		t.Errorf("StatusError.Reason = %q, want query device type mismatch", statusErr.Reason)
	}
}

func TestHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.PowerFlowRealtimeData(context.Background())
	if err == nil {
		t.Fatal("PowerFlowRealtimeData() expected error for HTTP 500")
	}
	if !errors.Is(err, fronius.ErrRequestFailed) {
		t.Errorf("error = %v, want ErrRequestFailed match", err)
	}
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.PowerFlowRealtimeData(context.Background())
	if err == nil {
		t.Fatal("PowerFlowRealtimeData() expected error for malformed body")
	}
	if !errors.Is(err, fronius.ErrDecodeFailed) {
		t.Errorf("error = %v, want ErrDecodeFailed match", err)
	}
}

func TestRequestError_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	client := newTestClient(t, srv)
	srv.Close() // shut down before the request

	_, err := client.PowerFlowRealtimeData(context.Background())
	if err == nil {
		t.Fatal("PowerFlowRealtimeData() expected error for unreachable device")
	}
	if !errors.Is(err, fronius.ErrRequestFailed) {
		t.Errorf("error = %v, want ErrRequestFailed match", err)
	}
}

func TestRequestError_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(okEnvelope(`{}`)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.PowerFlowRealtimeData(ctx)
	if err == nil {
		t.Error("PowerFlowRealtimeData() expected error for cancelled context")
	}
}

// =============================================================================
// Health Check Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solar_api/GetAPIVersion.cgi" {
			t.Errorf("path = %q, want GetAPIVersion.cgi outside the v1 prefix", r.URL.Path)
		}
		w.Write([]byte(`{"APIVersion": 1, "BaseURL": "/solar_api/v1/"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	client := newTestClient(t, srv)
	srv.Close()

	if err := client.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() expected error for unreachable device")
	}
}
