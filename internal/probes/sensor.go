package probes

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lanwatch-dev/lanwatch/internal/config"
	"github.com/lanwatch-dev/lanwatch/internal/models"

	// Database drivers for the "database" sensor type
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// CheckSensor probes one configured sensor with the protocol it speaks. An
// unreachable sensor is reported through the check record, never as an
// error.
func CheckSensor(ctx context.Context, sensor config.SensorConfig) *models.SensorCheck {
	switch sensor.Type {
	case "ping":
		return checkSensorPing(ctx, sensor)
	case "http":
		return checkSensorHTTP(ctx, sensor)
	case "mqtt":
		return checkSensorMQTT(sensor)
	case "database":
		return checkSensorDatabase(ctx, sensor)
	default:
		check := newSensorCheck(sensor)
		check.ErrorMessage = fmt.Sprintf("unsupported sensor type: %s", sensor.Type)
		return check
	}
}

func newSensorCheck(sensor config.SensorConfig) *models.SensorCheck {
	return &models.SensorCheck{
		CheckedAt:   time.Now().UTC(),
		SensorName:  sensor.Name,
		SensorIP:    sensor.IP,
		CheckType:   sensor.Type,
		IsAvailable: false,
	}
}

func checkSensorPing(ctx context.Context, sensor config.SensorConfig) *models.SensorCheck {
	check := newSensorCheck(sensor)
	result := Ping(ctx, sensor.IP, "sensor", 1, time.Duration(sensor.Timeout)*time.Second)

	if !result.IsReachable {
		check.ErrorMessage = "Host unreachable"
		return check
	}

	check.IsAvailable = true
	check.LatencyMs = result.LatencyMs

	return check
}

func checkSensorHTTP(ctx context.Context, sensor config.SensorConfig) *models.SensorCheck {
	check := newSensorCheck(sensor)

	scheme := "http"

	if sensor.HTTPS {
		scheme = "https"
	}

	url := fmt.Sprintf("%s://%s:%d%s", scheme, sensor.IP, sensor.Port, sensor.Path)

	client := &http.Client{
		Timeout: time.Duration(sensor.Timeout) * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		check.ErrorMessage = err.Error()
		return check
	}

	start := time.Now()
	resp, err := client.Do(req)

	if err != nil {
		check.ErrorMessage = err.Error()
		return check
	}

	defer resp.Body.Close()

	latency := durationMs(time.Since(start))
	check.LatencyMs = &latency
	check.StatusCode = &resp.StatusCode

	if resp.StatusCode >= 400 {
		check.ErrorMessage = "unexpected status: " + resp.Status
		return check
	}

	check.IsAvailable = true

	return check
}

func checkSensorMQTT(sensor config.SensorConfig) *models.SensorCheck {
	check := newSensorCheck(sensor)
	timeout := time.Duration(sensor.Timeout) * time.Second

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", sensor.IP, sensor.Port)).
		SetClientID("lanwatch-probe").
		SetConnectTimeout(timeout).
		SetAutoReconnect(false)

	if sensor.Username != "" {
		opts.SetUsername(sensor.Username)
		opts.SetPassword(sensor.Password)
	}

	client := mqtt.NewClient(opts)
	start := time.Now()
	token := client.Connect()

	if !token.WaitTimeout(timeout) {
		check.ErrorMessage = "MQTT connect timeout"
		return check
	}

	if err := token.Error(); err != nil {
		check.ErrorMessage = err.Error()
		return check
	}

	latency := durationMs(time.Since(start))
	check.LatencyMs = &latency
	check.IsAvailable = true

	client.Disconnect(250)

	return check
}

func checkSensorDatabase(ctx context.Context, sensor config.SensorConfig) *models.SensorCheck {
	check := newSensorCheck(sensor)

	var dsn string

	switch sensor.Driver {
	case "postgres", "postgresql":
		sslMode := sensor.SSLMode

		if sslMode == "" {
			sslMode = "disable"
		}

		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			sensor.IP, sensor.Port, sensor.Username, sensor.Password, sensor.Database, sslMode)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			sensor.Username, sensor.Password, sensor.IP, sensor.Port, sensor.Database)
	default:
		check.ErrorMessage = fmt.Sprintf("unsupported database driver: %s", sensor.Driver)
		return check
	}

	driverName := sensor.Driver

	if driverName == "postgresql" {
		driverName = "postgres"
	}

	db, err := sql.Open(driverName, dsn)

	if err != nil {
		check.ErrorMessage = err.Error()
		return check
	}

	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(sensor.Timeout)*time.Second)
	defer cancel()

	start := time.Now()

	if err := db.PingContext(pingCtx); err != nil {
		check.ErrorMessage = err.Error()
		return check
	}

	latency := durationMs(time.Since(start))
	check.LatencyMs = &latency
	check.IsAvailable = true

	return check
}
