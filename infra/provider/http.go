package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/fleetyard/dispatchboard/core/model"
	"github.com/fleetyard/dispatchboard/core/orders"
	"github.com/fleetyard/dispatchboard/infra/logger"
)

// HTTPProvider talks to the remote data provider's REST API.
type HTTPProvider struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewHTTPProvider creates a provider client for the given configuration.
func NewHTTPProvider(cfg Config) *HTTPProvider {
	return &HTTPProvider{
		base:   cfg.BaseURL,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:    logger.New("provider-client"),
	}
}

// truckRecord is the wire shape of a truck. Optional fields degrade to
// defaults instead of failing the load.
type truckRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Capacity *float64 `json:"capacity"`
}

// orderRecord is the wire shape of a fulfillment order.
type orderRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Customer     *string  `json:"customer"`
	Weight       *float64 `json:"weight"`
	Status       string   `json:"status"`
	TruckID      string   `json:"truckId"`
	DeliveryDate string   `json:"deliveryDate"`
}

// toOrder maps a wire record onto the board schema, degrading missing
// fields to safe defaults rather than rejecting the record.
func (p *HTTPProvider) toOrder(r orderRecord) model.Order {
	o := model.Order{
		ID:           r.ID,
		Name:         r.Name,
		Customer:     "-",
		Status:       model.OrderStatus(r.Status),
		TruckID:      r.TruckID,
		DeliveryDate: r.DeliveryDate,
	}
	if r.Customer != nil && *r.Customer != "" {
		o.Customer = *r.Customer
	}
	if r.Weight != nil {
		o.Weight = *r.Weight
	}
	if !o.Status.Valid() {
		p.log.Warnf("order %s: unknown status %q, treating as Error", r.ID, r.Status)
		o.Status = model.StatusError
	}
	if !o.Status.Placed() {
		o.TruckID, o.DeliveryDate = "", ""
	}
	return o
}

// FetchTrucks loads the active truck roster.
func (p *HTTPProvider) FetchTrucks(ctx context.Context) ([]model.Truck, error) {
	var recs []truckRecord
	if err := p.get(ctx, "/trucks", nil, &recs); err != nil {
		return nil, err
	}
	trucks := make([]model.Truck, 0, len(recs))
	for _, r := range recs {
		t := model.Truck{ID: r.ID, Name: r.Name}
		if r.Capacity != nil && *r.Capacity >= 0 {
			t.Capacity = *r.Capacity
		}
		trucks = append(trucks, t)
	}
	return trucks, nil
}

// FetchOrders loads the working set for the given filter.
func (p *HTTPProvider) FetchOrders(ctx context.Context, f orders.Filter) ([]model.Order, error) {
	q := url.Values{}
	q.Set("weekStart", f.WeekStart)
	q.Set("weekEnd", f.WeekEnd)
	if f.CustomerID != "" {
		q.Set("customerId", f.CustomerID)
	}
	var recs []orderRecord
	if err := p.get(ctx, "/orders", q, &recs); err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, p.toOrder(r))
	}
	return out, nil
}

// PersistAssignment asks the provider to store the new placement.
func (p *HTTPProvider) PersistAssignment(ctx context.Context, orderID, truckID, date string) error {
	body := map[string]string{
		"orderId":      orderID,
		"truckId":      truckID,
		"deliveryDate": date,
	}
	return p.post(ctx, "/orders/"+url.PathEscape(orderID)+"/assignment", body)
}

// PersistUnassignment asks the provider to return the order to pending.
func (p *HTTPProvider) PersistUnassignment(ctx context.Context, orderID string) error {
	return p.post(ctx, "/orders/"+url.PathEscape(orderID)+"/unassignment", nil)
}

func (p *HTTPProvider) get(ctx context.Context, path string, q url.Values, out any) error {
	u := p.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return p.do(req, out)
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, nil)
}

func (p *HTTPProvider) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("provider: decode %s: %w", req.URL.Path, err)
	}
	return nil
}
