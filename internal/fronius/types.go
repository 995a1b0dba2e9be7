package fronius

// Response payload shapes for the Solar API endpoints consumed by sunflow.
// JSON tags follow the wire keys exactly; fields the firmware may omit or
// report as null are pointers, everything else decodes as a plain value.
// Unknown keys in the device response are ignored.

// Value is a single measurement channel in a realtime data response.
// The inner Value is nil when the device has no current reading.
type Value struct {
	Unit  string   `json:"Unit"`
	Value *float64 `json:"Value"`
}

// CommonInverterData is the CommonInverterData collection of
// GetInverterRealtimeData.cgi. The FAC channel is absent entirely on
// single-phase installations.
type CommonInverterData struct {
	PAC         Value  `json:"PAC"`
	SAC         Value  `json:"SAC"`
	IAC         Value  `json:"IAC"`
	UAC         Value  `json:"UAC"`
	FAC         *Value `json:"FAC"`
	IDC         Value  `json:"IDC"`
	UDC         Value  `json:"UDC"`
	DayEnergy   Value  `json:"DAY_ENERGY"`
	YearEnergy  Value  `json:"YEAR_ENERGY"`
	TotalEnergy Value  `json:"TOTAL_ENERGY"`
}

// ThreePhaseInverterData is the 3PInverterData collection of
// GetInverterRealtimeData.cgi.
type ThreePhaseInverterData struct {
	IACL1 Value `json:"IAC_L1"`
	IACL2 Value `json:"IAC_L2"`
	IACL3 Value `json:"IAC_L3"`
	UACL1 Value `json:"UAC_L1"`
	UACL2 Value `json:"UAC_L2"`
	UACL3 Value `json:"UAC_L3"`
}

// InverterInfo is one entry of the GetInverterInfo.cgi response map,
// which is keyed by the decimal device id.
type InverterInfo struct {
	DT            int64  `json:"DT"`
	PVPower       int64  `json:"PVPower"`
	CustomName    string `json:"CustomName"`
	Show          int64  `json:"Show"`
	UniqueID      string `json:"UniqueID"`
	ErrorCode     int64  `json:"ErrorCode"`
	StatusCode    int64  `json:"StatusCode"`
	InverterState string `json:"InverterState"`
}

// MeterRealtimeData is the device-scoped GetMeterRealtimeData.cgi payload.
// Per-phase channels are absent on single-phase meters.
type MeterRealtimeData struct {
	CurrentACPhase1         *float64 `json:"Current_AC_Phase_1"`
	CurrentACPhase2         *float64 `json:"Current_AC_Phase_2"`
	CurrentACPhase3         *float64 `json:"Current_AC_Phase_3"`
	CurrentACSum            *float64 `json:"Current_AC_Sum"`
	VoltageACPhase1         *float64 `json:"Voltage_AC_Phase_1"`
	VoltageACPhase2         *float64 `json:"Voltage_AC_Phase_2"`
	VoltageACPhase3         *float64 `json:"Voltage_AC_Phase_3"`
	VoltageACPhaseToPhase12 *float64 `json:"Voltage_AC_PhaseToPhase_12"`
	VoltageACPhaseToPhase23 *float64 `json:"Voltage_AC_PhaseToPhase_23"`
	VoltageACPhaseToPhase31 *float64 `json:"Voltage_AC_PhaseToPhase_31"`
	PowerRealPPhase1        *float64 `json:"PowerReal_P_Phase_1"`
	PowerRealPPhase2        *float64 `json:"PowerReal_P_Phase_2"`
	PowerRealPPhase3        *float64 `json:"PowerReal_P_Phase_3"`
	PowerRealPSum           float64  `json:"PowerReal_P_Sum"`
	FrequencyPhaseAverage   float64  `json:"Frequency_Phase_Average"`
}

// StorageRealtimeData is the device-scoped GetStorageRealtimeData.cgi
// payload. Module-level details are reported alongside the controller but
// are not consumed here.
type StorageRealtimeData struct {
	Controller StorageController `json:"Controller"`
}

// StorageController holds the battery controller summary values.
type StorageController struct {
	Enable                float64 `json:"Enable"`
	StateOfChargeRelative float64 `json:"StateOfCharge_Relative"`
	CapacityMaximum       float64 `json:"Capacity_Maximum"`
	CurrentDC             float64 `json:"Current_DC"`
	VoltageDC             float64 `json:"Voltage_DC"`
	TemperatureCell       float64 `json:"Temperature_Cell"`
}

// OhmPilotRealtimeData is the device-scoped GetOhmPilotRealtimeData.cgi
// payload. CodeOfError is only reported while a fault is present.
type OhmPilotRealtimeData struct {
	CodeOfState         int64   `json:"CodeOfState"`
	CodeOfError         *int64  `json:"CodeOfError"`
	PowerRealPACSum     float64 `json:"PowerReal_PAC_Sum"`
	TemperatureChannel1 float64 `json:"Temperature_Channel_1"`
}

// PowerFlowRealtimeData is the GetPowerFlowRealtimeData.fcgi payload.
// Only the site summary is consumed; per-inverter breakdowns are ignored.
type PowerFlowRealtimeData struct {
	Site PowerFlowSite `json:"Site"`
}

// PowerFlowSite holds the site-wide power balance. Negative P_Grid means
// feeding into the grid, negative P_Akku means charging the battery.
type PowerFlowSite struct {
	PAkku              *float64 `json:"P_Akku"`
	PGrid              *float64 `json:"P_Grid"`
	PLoad              *float64 `json:"P_Load"`
	PPV                float64  `json:"P_PV"`
	RelAutonomy        *float64 `json:"rel_Autonomy"`
	RelSelfConsumption *float64 `json:"rel_SelfConsumption"`
}
