package incidents

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lanwatch-dev/lanwatch/internal/metrics"
	"github.com/lanwatch-dev/lanwatch/internal/models"
)

// Notifier receives incident lifecycle events. Implementations must be safe
// for concurrent use; the Manager invokes them on their own goroutines.
type Notifier interface {
	IncidentCreated(incident models.Incident)
	IncidentResolved(incident models.Incident)
}

// Manager owns the set of currently open incidents. The index maps a dedup
// key to the id of the single open incident with that key; it is process
// state only and starts empty on every run. All index and store mutations
// happen under one mutex so concurrent check loops cannot double-open the
// same incident.
type Manager struct {
	mu       sync.Mutex
	open     map[Key]uint
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		open: make(map[Key]uint),
		db:   db,
		now:  time.Now,
	}
}

// SetNotifier registers the lifecycle event sink. Call before Start;
// notifications are skipped while unset.
func (m *Manager) SetNotifier(notifier Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifier = notifier
}

// OpenOrContinue resolves a descriptor to an incident id. A descriptor
// whose key matches an already-open incident returns that incident's id
// without touching the store, so repeated firings for the same ongoing
// condition are idempotent. Otherwise a new record is persisted and
// registered under the key. A failed persist is logged and the key is left
// unregistered; the next check iteration retries naturally.
func (m *Manager) OpenOrContinue(desc *Descriptor) (uint, error) {
	key := desc.Key()

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.open[key]; ok {
		log.Printf("Incident %d still active: %s", id, desc.Description)
		return id, nil
	}

	sorted := make([]string, len(desc.AffectedTargets))
	copy(sorted, desc.AffectedTargets)
	sort.Strings(sorted)

	targets, err := json.Marshal(sorted)

	if err != nil {
		log.Printf("Failed to encode affected targets for %s: %v", key, err)
		return 0, err
	}

	incident := models.Incident{
		IncidentType:    string(desc.Type),
		Severity:        string(desc.Severity),
		StartTime:       m.now().UTC(),
		AffectedTargets: targets,
		Description:     desc.Description,
		ProbableCause:   desc.ProbableCause,
		IsResolved:      false,
	}

	if err := m.db.Create(&incident).Error; err != nil {
		log.Printf("Failed to persist incident (%s): %v", desc.Description, err)
		return 0, err
	}

	m.open[key] = incident.ID
	metrics.IncidentsOpened.WithLabelValues(string(desc.Type), string(desc.Severity)).Inc()
	metrics.OpenIncidents.Set(float64(len(m.open)))
	log.Printf("New incident %d detected: %s", incident.ID, desc.Description)

	if m.notifier != nil {
		go m.notifier.IncidentCreated(incident)
	}

	return incident.ID, nil
}

// Close resolves the open incident under key, computing its duration from
// the stored start time. Closing a key that is not open is a no-op.
func (m *Manager) Close(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked(key)
}

// CloseTypes resolves every open incident of the given types, regardless of
// target set. Check loops use this when their source reports healthy again.
func (m *Manager) CloseTypes(types ...IncidentType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.open {
		for _, t := range types {
			if key.Type == t {
				m.closeLocked(key)
				break
			}
		}
	}
}

// Reconcile closes every open incident whose key is absent from live (or
// present but marked inactive), guaranteeing nothing stays open once its
// condition is externally known to have cleared.
func (m *Manager) Reconcile(live map[Key]bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.open {
		if !live[key] {
			m.closeLocked(key)
		}
	}
}

// CloseAll resolves every open incident. Called on shutdown so no incident
// is left with an unbounded open duration.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.open {
		m.closeLocked(key)
	}
}

func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.open)
}

func (m *Manager) OpenKeys() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]Key, 0, len(m.open))

	for key := range m.open {
		keys = append(keys, key)
	}

	return keys
}

// closeLocked must be called with m.mu held. The key is removed from the
// index unconditionally; if the backing record has gone missing the
// incident is still marked resolved with an end time, just without a
// duration, since one cannot be computed.
func (m *Manager) closeLocked(key Key) {
	id, ok := m.open[key]

	if !ok {
		return
	}

	delete(m.open, key)
	metrics.IncidentsResolved.WithLabelValues(string(key.Type)).Inc()
	metrics.OpenIncidents.Set(float64(len(m.open)))

	endTime := m.now().UTC()

	var incident models.Incident

	if err := m.db.First(&incident, id).Error; err != nil {
		m.db.Model(&models.Incident{}).Where("id = ?", id).Updates(map[string]interface{}{
			"end_time":    endTime,
			"is_resolved": true,
		})
		log.Printf("Incident %d resolved (record missing, duration unknown)", id)
		return
	}

	duration := int(endTime.Sub(incident.StartTime).Seconds())

	if duration < 0 {
		duration = 0
	}

	updates := map[string]interface{}{
		"end_time":         endTime,
		"duration_seconds": duration,
		"is_resolved":      true,
	}

	if err := m.db.Model(&incident).Updates(updates).Error; err != nil {
		log.Printf("Failed to mark incident %d resolved: %v", id, err)
		return
	}

	log.Printf("Incident %d resolved after %d seconds", id, duration)

	if m.notifier != nil {
		incident.EndTime = &endTime
		incident.DurationSeconds = &duration
		incident.IsResolved = true

		go m.notifier.IncidentResolved(incident)
	}
}
