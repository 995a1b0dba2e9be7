package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names of the stored series. Renaming any of these forks the
// series history in the sink, so they are fixed.
const (
	MeasurementInverter      = "inverter"
	MeasurementInverterPhase = "inverter_phase"
	MeasurementInverterInfo  = "inverter_info"
	MeasurementMeter         = "meter"
	MeasurementStorage       = "storage"
	MeasurementOhmPilot      = "ohm_pilot"
	MeasurementPowerFlow     = "power_flow"
)

// Device tag values identifying the physical role behind a record. The
// power flow summary is site-wide rather than device-scoped and is tagged
// "Unknown".
const (
	deviceInverter = "Inverter"
	deviceMeter    = "Meter"
	deviceStorage  = "Storage"
	deviceOhmPilot = "OhmPilot"
	deviceUnknown  = "Unknown"
)

// Record is the behaviour shared by all metric records: conversion to a
// sink point and the name of the series the point belongs to.
type Record interface {
	Point() *write.Point
	Measurement() string
}

// deviceTag builds the single-tag set every record carries.
func deviceTag(role string) map[string]string {
	return map[string]string{"device": role}
}

// addOptional includes a field only when the reading is present.
func addOptional(fields map[string]any, name string, v *float64) {
	if v != nil {
		fields[name] = *v
	}
}

// Inverter is one cycle's snapshot of the inverter's electrical values.
//
// Pointer fields are readings the device can omit for a cycle (an idle
// inverter reports no AC values); they stay off the written point when nil.
type Inverter struct {
	ACPower     *float64  `json:"ac_power,omitempty"`
	ACPowerAbs  *float64  `json:"ac_power_abs,omitempty"`
	ACCurrent   *float64  `json:"ac_current,omitempty"`
	ACVoltage   *float64  `json:"ac_voltage,omitempty"`
	ACFrequency *float64  `json:"ac_frequency,omitempty"`
	DCCurrent   *float64  `json:"dc_current,omitempty"`
	DCVoltage   *float64  `json:"dc_voltage,omitempty"`
	TotalEnergy *float64  `json:"total_energy,omitempty"`
	Time        time.Time `json:"time"`
}

// Point converts the record to a sink point carrying only present readings.
func (r *Inverter) Point() *write.Point {
	fields := map[string]any{}
	addOptional(fields, "ac_power", r.ACPower)
	addOptional(fields, "ac_power_abs", r.ACPowerAbs)
	addOptional(fields, "ac_current", r.ACCurrent)
	addOptional(fields, "ac_voltage", r.ACVoltage)
	addOptional(fields, "ac_frequency", r.ACFrequency)
	addOptional(fields, "dc_current", r.DCCurrent)
	addOptional(fields, "dc_voltage", r.DCVoltage)
	addOptional(fields, "total_energy", r.TotalEnergy)
	return write.NewPoint(MeasurementInverter, deviceTag(deviceInverter), fields, r.Time)
}

// Measurement implements Record.
func (r *Inverter) Measurement() string { return MeasurementInverter }

// InverterPhase holds per-phase inverter values. The dc_lN_voltage field
// names carry the AC phase voltages; the naming is kept as-is because the
// stored series already use it.
type InverterPhase struct {
	ACL1Current *float64  `json:"ac_l1_current,omitempty"`
	ACL2Current *float64  `json:"ac_l2_current,omitempty"`
	ACL3Current *float64  `json:"ac_l3_current,omitempty"`
	DCL1Voltage *float64  `json:"dc_l1_voltage,omitempty"`
	DCL2Voltage *float64  `json:"dc_l2_voltage,omitempty"`
	DCL3Voltage *float64  `json:"dc_l3_voltage,omitempty"`
	Time        time.Time `json:"time"`
}

func (r *InverterPhase) Point() *write.Point {
	fields := map[string]any{}
	addOptional(fields, "ac_l1_current", r.ACL1Current)
	addOptional(fields, "ac_l2_current", r.ACL2Current)
	addOptional(fields, "ac_l3_current", r.ACL3Current)
	addOptional(fields, "dc_l1_voltage", r.DCL1Voltage)
	addOptional(fields, "dc_l2_voltage", r.DCL2Voltage)
	addOptional(fields, "dc_l3_voltage", r.DCL3Voltage)
	return write.NewPoint(MeasurementInverterPhase, deviceTag(deviceInverter), fields, r.Time)
}

func (r *InverterPhase) Measurement() string { return MeasurementInverterPhase }

// InverterInfo holds the inverter's identity and status as reported by the
// datamanager. All fields are always present in a successful response.
type InverterInfo struct {
	DeviceType   int64     `json:"device_type"`
	PVPower      int64     `json:"pv_power"`
	Name         string    `json:"name"`
	IsVisualized bool      `json:"is_visualized"`
	ID           string    `json:"id"`
	ErrorCode    int64     `json:"error_code"`
	StatusCode   string    `json:"status_code"`
	State        string    `json:"state"`
	Time         time.Time `json:"time"`
}

func (r *InverterInfo) Point() *write.Point {
	fields := map[string]any{
		"device_type":   r.DeviceType,
		"pv_power":      r.PVPower,
		"name":          r.Name,
		"is_visualized": r.IsVisualized,
		"id":            r.ID,
		"error_code":    r.ErrorCode,
		"status_code":   r.StatusCode,
		"state":         r.State,
	}
	return write.NewPoint(MeasurementInverterInfo, deviceTag(deviceInverter), fields, r.Time)
}

func (r *InverterInfo) Measurement() string { return MeasurementInverterInfo }

// Meter holds smart meter readings. Per-phase and phase-to-phase channels
// are absent on single-phase meters; the summed power and the average
// frequency are always reported.
type Meter struct {
	L1Current        *float64  `json:"l1_current,omitempty"`
	L2Current        *float64  `json:"l2_current,omitempty"`
	L3Current        *float64  `json:"l3_current,omitempty"`
	Current          *float64  `json:"current,omitempty"`
	L1Voltage        *float64  `json:"l1_voltage,omitempty"`
	L2Voltage        *float64  `json:"l2_voltage,omitempty"`
	L3Voltage        *float64  `json:"l3_voltage,omitempty"`
	L12Voltage       *float64  `json:"l12_voltage,omitempty"`
	L23Voltage       *float64  `json:"l23_voltage,omitempty"`
	L31Voltage       *float64  `json:"l31_voltage,omitempty"`
	L1Power          *float64  `json:"l1_power,omitempty"`
	L2Power          *float64  `json:"l2_power,omitempty"`
	L3Power          *float64  `json:"l3_power,omitempty"`
	Power            float64   `json:"power"`
	FrequencyAverage float64   `json:"frequency_average"`
	Time             time.Time `json:"time"`
}

func (r *Meter) Point() *write.Point {
	fields := map[string]any{
		"power":             r.Power,
		"frequency_average": r.FrequencyAverage,
	}
	addOptional(fields, "l1_current", r.L1Current)
	addOptional(fields, "l2_current", r.L2Current)
	addOptional(fields, "l3_current", r.L3Current)
	addOptional(fields, "current", r.Current)
	addOptional(fields, "l1_voltage", r.L1Voltage)
	addOptional(fields, "l2_voltage", r.L2Voltage)
	addOptional(fields, "l3_voltage", r.L3Voltage)
	addOptional(fields, "l12_voltage", r.L12Voltage)
	addOptional(fields, "l23_voltage", r.L23Voltage)
	addOptional(fields, "l31_voltage", r.L31Voltage)
	addOptional(fields, "l1_power", r.L1Power)
	addOptional(fields, "l2_power", r.L2Power)
	addOptional(fields, "l3_power", r.L3Power)
	return write.NewPoint(MeasurementMeter, deviceTag(deviceMeter), fields, r.Time)
}

func (r *Meter) Measurement() string { return MeasurementMeter }

// Storage holds the battery controller summary.
type Storage struct {
	Enabled          bool      `json:"enabled"`
	ChargePercentage float64   `json:"charge_percentage"`
	Capacity         float64   `json:"capacity"`
	DCCurrent        float64   `json:"dc_current"`
	DCVoltage        float64   `json:"dc_voltage"`
	TemperatureCell  float64   `json:"temperature_cell"`
	Time             time.Time `json:"time"`
}

func (r *Storage) Point() *write.Point {
	fields := map[string]any{
		"enabled":           r.Enabled,
		"charge_percentage": r.ChargePercentage,
		"capacity":          r.Capacity,
		"dc_current":        r.DCCurrent,
		"dc_voltage":        r.DCVoltage,
		"temperature_cell":  r.TemperatureCell,
	}
	return write.NewPoint(MeasurementStorage, deviceTag(deviceStorage), fields, r.Time)
}

func (r *Storage) Measurement() string { return MeasurementStorage }

// OhmPilot holds the consumption regulator state. ErrorCode is 0 while no
// fault is present.
type OhmPilot struct {
	State       string    `json:"state"`
	ErrorCode   int64     `json:"error_code"`
	Power       float64   `json:"power"`
	Temperature float64   `json:"temperature"`
	Time        time.Time `json:"time"`
}

func (r *OhmPilot) Point() *write.Point {
	fields := map[string]any{
		"state":       r.State,
		"error_code":  r.ErrorCode,
		"power":       r.Power,
		"temperature": r.Temperature,
	}
	return write.NewPoint(MeasurementOhmPilot, deviceTag(deviceOhmPilot), fields, r.Time)
}

func (r *OhmPilot) Measurement() string { return MeasurementOhmPilot }

// PowerFlow holds the site-wide power balance.
type PowerFlow struct {
	Akku                    *float64  `json:"akku,omitempty"`
	Grid                    *float64  `json:"grid,omitempty"`
	Load                    *float64  `json:"load,omitempty"`
	Photovoltaik            float64   `json:"photovoltaik"`
	RelativeAutonomy        *float64  `json:"relative_autonomy,omitempty"`
	RelativeSelfConsumption *float64  `json:"relative_self_consumption,omitempty"`
	Time                    time.Time `json:"time"`
}

func (r *PowerFlow) Point() *write.Point {
	fields := map[string]any{
		"photovoltaik": r.Photovoltaik,
	}
	addOptional(fields, "akku", r.Akku)
	addOptional(fields, "grid", r.Grid)
	addOptional(fields, "load", r.Load)
	addOptional(fields, "relative_autonomy", r.RelativeAutonomy)
	addOptional(fields, "relative_self_consumption", r.RelativeSelfConsumption)
	return write.NewPoint(MeasurementPowerFlow, deviceTag(deviceUnknown), fields, r.Time)
}

func (r *PowerFlow) Measurement() string { return MeasurementPowerFlow }
