package fronius

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Default connection settings for the Solar API.
const (
	defaultPort    = 80
	defaultTimeout = 10 * time.Second
)

// Config contains the settings needed to reach a Solar API host.
type Config struct {
	// Host is the LAN address of the datamanager (IPv4 dotted quad).
	Host string

	// Port is the HTTP port of the Solar API. Defaults to 80.
	Port int

	// Timeout bounds each HTTP request including body read. Defaults to 10s.
	Timeout time.Duration
}

// Client is an HTTP client for the Fronius Solar API v1.
//
// One Client serves all device categories on a single datamanager; the
// target device within a category is selected per call with a DeviceID.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	addr    string
	baseURL string
	http    *http.Client
}

// Connect validates the configuration and builds a Solar API client.
//
// No network traffic is generated here. The inverter is routinely
// unreachable (powered down overnight, rebooting after firmware updates),
// so construction must succeed regardless; reachability is checked per
// request and via HealthCheck.
//
// Parameters:
//   - cfg: Device address configuration
//
// Returns:
//   - *Client: Client ready for use
//   - error: ErrInvalidHost if the host is not an IPv4 address
func Connect(cfg Config) (*Client, error) {
	ip := net.ParseIP(cfg.Host)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidHost, cfg.Host)
	}

	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	addr := fmt.Sprintf("http://%s:%d", ip.String(), port)

	return &Client{
		addr:    addr,
		baseURL: addr + "/solar_api/v1",
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// envelope is the wrapper common to all Solar API v1 responses.
type envelope struct {
	Head struct {
		Status struct {
			Code        int    `json:"Code"`
			Reason      string `json:"Reason"`
			UserMessage string `json:"UserMessage"`
		} `json:"Status"`
	} `json:"Head"`
	Body struct {
		Data json.RawMessage `json:"Data"`
	} `json:"Body"`
}

// get fetches an endpoint, unwraps the envelope and decodes Body.Data
// into out. A non-zero envelope status code yields a *StatusError.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	target := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", ErrRequestFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected HTTP status %d from %s", ErrRequestFailed, resp.StatusCode, endpoint)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeFailed, endpoint, err)
	}

	if env.Head.Status.Code != 0 {
		return &StatusError{
			Code:        env.Head.Status.Code,
			Reason:      env.Head.Status.Reason,
			UserMessage: env.Head.Status.UserMessage,
		}
	}

	if err := json.Unmarshal(env.Body.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecodeFailed, endpoint, err)
	}

	return nil
}

// deviceQuery builds the query parameters shared by device-scoped endpoints.
func deviceQuery(id DeviceID) url.Values {
	q := url.Values{}
	q.Set("Scope", "Device")
	q.Set("DeviceId", id.String())
	return q
}

// CommonInverterData queries GetInverterRealtimeData.cgi with the
// CommonInverterData collection for one inverter.
func (c *Client) CommonInverterData(ctx context.Context, id DeviceID) (*CommonInverterData, error) {
	q := deviceQuery(id)
	q.Set("DataCollection", "CommonInverterData")

	var data CommonInverterData
	if err := c.get(ctx, "GetInverterRealtimeData.cgi", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ThreePhaseInverterData queries GetInverterRealtimeData.cgi with the
// 3PInverterData collection for one inverter.
func (c *Client) ThreePhaseInverterData(ctx context.Context, id DeviceID) (*ThreePhaseInverterData, error) {
	q := deviceQuery(id)
	q.Set("DataCollection", "3PInverterData")

	var data ThreePhaseInverterData
	if err := c.get(ctx, "GetInverterRealtimeData.cgi", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// InverterInfo queries GetInverterInfo.cgi, which lists every inverter the
// datamanager knows about keyed by decimal device id. A nil map entry means
// the datamanager has a slot for the id but no information, so callers must
// handle both a missing key and a nil value.
func (c *Client) InverterInfo(ctx context.Context) (map[string]*InverterInfo, error) {
	var data map[string]*InverterInfo
	if err := c.get(ctx, "GetInverterInfo.cgi", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// MeterRealtimeData queries GetMeterRealtimeData.cgi for one smart meter.
func (c *Client) MeterRealtimeData(ctx context.Context, id DeviceID) (*MeterRealtimeData, error) {
	var data MeterRealtimeData
	if err := c.get(ctx, "GetMeterRealtimeData.cgi", deviceQuery(id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// StorageRealtimeData queries GetStorageRealtimeData.cgi for one battery.
func (c *Client) StorageRealtimeData(ctx context.Context, id DeviceID) (*StorageRealtimeData, error) {
	var data StorageRealtimeData
	if err := c.get(ctx, "GetStorageRealtimeData.cgi", deviceQuery(id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// OhmPilotRealtimeData queries GetOhmPilotRealtimeData.cgi for one OhmPilot
// consumption regulator.
func (c *Client) OhmPilotRealtimeData(ctx context.Context, id DeviceID) (*OhmPilotRealtimeData, error) {
	var data OhmPilotRealtimeData
	if err := c.get(ctx, "GetOhmPilotRealtimeData.cgi", deviceQuery(id), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// PowerFlowRealtimeData queries GetPowerFlowRealtimeData.fcgi for the
// site-wide power balance. The endpoint is not device-scoped.
func (c *Client) PowerFlowRealtimeData(ctx context.Context) (*PowerFlowRealtimeData, error) {
	var data PowerFlowRealtimeData
	if err := c.get(ctx, "GetPowerFlowRealtimeData.fcgi", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// HealthCheck verifies the datamanager is reachable and answering.
//
// It requests GetAPIVersion.cgi, which lives outside the v1 prefix and
// responds without the usual envelope.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if the device answered, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/solar_api/GetAPIVersion.cgi", nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", ErrRequestFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fronius health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fronius health check failed: unexpected HTTP status %d", resp.StatusCode)
	}

	return nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
