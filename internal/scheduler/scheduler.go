package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lanwatch-dev/lanwatch/internal/config"
	"github.com/lanwatch-dev/lanwatch/internal/incidents"
	"github.com/lanwatch-dev/lanwatch/internal/metrics"
	"github.com/lanwatch-dev/lanwatch/internal/models"
	"github.com/lanwatch-dev/lanwatch/internal/probes"
)

const cleanupInterval = 6 * time.Hour

// Scheduler runs one check loop per snapshot source (WiFi, network, each
// configured sensor) on its own ticker. Every loop feeds the shared
// incident manager directly; the manager serializes what must be atomic.
type Scheduler struct {
	cfg     *config.Config
	db      *gorm.DB
	manager *incidents.Manager
	state   *NetworkState
	wifi    *probes.WiFiProber

	onRefresh func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg *config.Config, db *gorm.DB, manager *incidents.Manager) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cfg:     cfg,
		db:      db,
		manager: manager,
		state:   NewNetworkState(),
		wifi:    probes.NewWiFiProber(cfg.WiFi.Interface),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Scheduler) State() *NetworkState {
	return s.state
}

// OnRefresh registers a callback invoked after each completed check, used
// to push live updates to dashboard clients. Call before Start.
func (s *Scheduler) OnRefresh(fn func()) {
	s.onRefresh = fn
}

// Start launches all check loops with an immediate first check each.
func (s *Scheduler) Start() {
	log.Println("Starting monitoring...")

	s.launch(time.Duration(s.cfg.WiFi.CheckInterval)*time.Second, s.checkWiFi)
	s.launch(time.Duration(s.cfg.Gateway.PingInterval)*time.Second, s.checkNetwork)

	for _, sensor := range s.cfg.Sensors {
		sensor := sensor
		s.launch(time.Duration(sensor.Interval)*time.Second, func(ctx context.Context) {
			s.checkSensor(ctx, sensor)
		})
	}

	s.launch(cleanupInterval, s.cleanupOldData)

	log.Printf("Monitoring started with %d sensors", len(s.cfg.Sensors))
}

// Stop cancels every loop, waits for in-flight checks to finish, then
// force-closes every still-open incident so none is left with an unbounded
// open duration.
func (s *Scheduler) Stop() {
	log.Println("Stopping monitoring...")
	s.cancel()
	s.wg.Wait()
	s.manager.CloseAll()
	log.Println("Monitoring stopped")
}

func (s *Scheduler) launch(interval time.Duration, check func(ctx context.Context)) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		check(s.ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				check(s.ctx)
			}
		}
	}()
}

func (s *Scheduler) checkWiFi(ctx context.Context) {
	sample := s.wifi.Status(ctx)

	if err := s.db.Create(sample).Error; err != nil {
		log.Printf("Failed to store WiFi sample: %v", err)
	}

	s.state.SetWiFi(sample)
	metrics.ChecksTotal.WithLabelValues("wifi").Inc()

	if desc := incidents.CheckWiFi(sample, s.cfg.WiFi.RSSICritical); desc != nil {
		s.manager.OpenOrContinue(desc)
	} else {
		// Healthy link clears every WiFi-class incident, including
		// gateway-targeted ones raised by the connectivity check.
		s.manager.CloseTypes(incidents.WiFiOutage, incidents.WiFiDegradation)
	}

	s.refresh()
}

func (s *Scheduler) checkNetwork(ctx context.Context) {
	timeout := time.Duration(s.cfg.Gateway.Timeout) * time.Second

	gateway := probes.Ping(ctx, s.cfg.Gateway.IP, "gateway", 1, timeout)

	if err := s.db.Create(gateway).Error; err != nil {
		log.Printf("Failed to store gateway ping: %v", err)
	}

	s.state.SetGateway(gateway)
	metrics.ChecksTotal.WithLabelValues("gateway").Inc()

	internet := make([]models.PingResult, 0, len(s.cfg.InternetTargets))

	for _, target := range s.cfg.InternetTargets {
		result := probes.Ping(ctx, target, "internet", 1, timeout)

		if err := s.db.Create(result).Error; err != nil {
			log.Printf("Failed to store ping result for %s: %v", target, err)
		}

		metrics.ChecksTotal.WithLabelValues("internet").Inc()
		internet = append(internet, *result)
	}

	if desc := incidents.CheckConnectivity(gateway, internet, s.cfg.Gateway.PacketLossThreshold); desc != nil {
		s.manager.OpenOrContinue(desc)
	} else {
		s.manager.CloseTypes(incidents.InternetOutage)
	}

	s.refresh()
}

func (s *Scheduler) checkSensor(ctx context.Context, sensor config.SensorConfig) {
	check := probes.CheckSensor(ctx, sensor)

	if err := s.db.Create(check).Error; err != nil {
		log.Printf("Failed to store sensor check for %s: %v", sensor.Name, err)
	}

	s.state.SetSensor(sensor.Name, check)
	metrics.ChecksTotal.WithLabelValues("sensor").Inc()

	desc := incidents.CheckSensor(check, s.state.WiFiConnected(), s.state.GatewayReachable())

	if desc != nil {
		s.manager.OpenOrContinue(desc)
	} else {
		s.manager.Close(incidents.NewKey(incidents.SensorOutage, []string{sensor.Name}))
	}

	s.refresh()
}

// cleanupOldData drops snapshot records past the retention window.
// Incidents are kept; their retention is not this subsystem's concern.
func (s *Scheduler) cleanupOldData(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.Monitoring.DataRetentionDays)

	for _, model := range []interface{}{&models.WiFiSample{}, &models.PingResult{}, &models.SensorCheck{}} {
		if err := s.db.Unscoped().Where("checked_at < ?", cutoff).Delete(model).Error; err != nil {
			log.Printf("Failed to clean up old records: %v", err)
		}
	}
}

func (s *Scheduler) refresh() {
	if s.onRefresh != nil {
		s.onRefresh()
	}
}
