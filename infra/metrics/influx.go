package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/fleetyard/dispatchboard/core/metrics"
	"github.com/fleetyard/dispatchboard/infra/logger"
)

// InfluxSink writes board events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing backend never blocks
// the board.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignment writes the assignment as a line protocol event.
func (s *InfluxSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("board_assignment").
		AddTag("order_id", ev.OrderID).
		AddTag("truck_id", ev.TruckID).
		AddTag("unassign", strconv.FormatBool(ev.Unassign)).
		AddTag("component", ev.Component).
		AddField("weight_kg", ev.Weight).
		AddField("delivery_date", ev.Date).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordJobOutcome writes the scheduling job outcome.
func (s *InfluxSink) RecordJobOutcome(out coremetrics.JobOutcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scheduling_job").
		AddTag("job_id", out.JobID).
		AddTag("status", out.Status).
		AddField("attempts", out.Attempts).
		AddField("applied", out.Applied).
		AddField("duration_seconds", out.Duration.Seconds()).
		SetTime(out.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCellLoad writes a per-cell load snapshot.
func (s *InfluxSink) RecordCellLoad(ev coremetrics.CellLoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("cell_load").
		AddTag("truck_id", ev.TruckID).
		AddTag("date", ev.Date).
		AddTag("band", ev.Band).
		AddField("total_kg", ev.Total).
		AddField("ratio", ev.Ratio).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
