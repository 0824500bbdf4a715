package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nazeern/simrc/pkg/config"
	"github.com/nazeern/simrc/pkg/models"
)

// Client delivers simulation results to the plotting endpoint. The transport
// keeps connections pooled since a batch produces many small POSTs to the
// same host.
type Client struct {
	url        string
	httpClient *http.Client
	config     *config.Config
	bufferPool sync.Pool // JSON marshaling buffers
}

// NewClient creates a webhook client for the given URL.
func NewClient(url string, cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		// Payloads are small arrays of floats; compression costs more than
		// it saves here.
		DisableCompression: true,
	}

	return &Client{
		url:    url,
		config: cfg,
		httpClient: &http.Client{
			Timeout:   45 * time.Second,
			Transport: transport,
		},
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 4096))
			},
		},
	}
}

// Send delivers one result.
func (c *Client) Send(item models.WebhookItem) error {
	out := item.Output
	if out == nil {
		return fmt.Errorf("webhook %s has no output", item.RequestID)
	}

	payload := models.WebhookResponse{
		ID:                  item.RequestID,
		Time:                time.Now().Format(time.RFC3339Nano),
		Request:             item.Request,
		ExpectedImpedance:   sanitizeFloat(out.ExpectedImpedance),
		CalculatedImpedance: sanitizeFloat(out.CalculatedImpedance),
		TimePoints:          out.Time,
		Voltage:             out.Voltage,
		Current:             out.Current,
		VoltageSpectrum:     out.VoltageSpectrum,
		CurrentSpectrum:     out.CurrentSpectrum,
		Elements:            ElementBreakdown(item.Request),
	}

	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.bufferPool.Put(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("failed to marshal webhook data: %w", err)
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if c.config == nil || !c.config.Quiet {
		log.Printf("webhook sent - ID: %s, Z=%.6g (calc %.6g), status: %d",
			item.RequestID, out.ExpectedImpedance, out.CalculatedImpedance, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}
	return nil
}

// sanitizeFloat cleans float64 values for JSON compatibility.
func sanitizeFloat(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0.0
	}
	return value
}
