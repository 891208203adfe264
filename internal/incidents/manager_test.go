package incidents

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lanwatch-dev/lanwatch/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection only: each pooled connection to :memory: would get
	// its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Incident{}))

	return db
}

func wifiOutageDescriptor() *Descriptor {
	return &Descriptor{
		Type:            WiFiOutage,
		Severity:        SeverityCritical,
		Description:     "WiFi interface wlan0 disconnected",
		AffectedTargets: []string{"wlan0"},
	}
}

func TestOpenOrContinueIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	first, err := manager.OpenOrContinue(wifiOutageDescriptor())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		id, err := manager.OpenOrContinue(wifiOutageDescriptor())
		require.NoError(t, err)
		assert.Equal(t, first, id)
	}

	var count int64
	db.Model(&models.Incident{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1, manager.OpenCount())
}

func TestDistinctKeysNeverShareAnIncident(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	descriptors := []*Descriptor{
		{Type: WiFiOutage, Severity: SeverityCritical, AffectedTargets: []string{"wlan0"}},
		{Type: WiFiDegradation, Severity: SeverityWarning, AffectedTargets: []string{"wlan0"}},
		{Type: SensorOutage, Severity: SeverityWarning, AffectedTargets: []string{"garage"}},
		{Type: SensorOutage, Severity: SeverityWarning, AffectedTargets: []string{"porch"}},
	}

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		for _, desc := range descriptors {
			desc := desc
			wg.Add(1)

			go func() {
				defer wg.Done()
				manager.OpenOrContinue(desc)
			}()
		}
	}

	wg.Wait()

	var count int64
	db.Model(&models.Incident{}).Count(&count)
	assert.EqualValues(t, len(descriptors), count)
	assert.Equal(t, len(descriptors), manager.OpenCount())
}

func TestCloseComputesDuration(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return start }

	id, err := manager.OpenOrContinue(wifiOutageDescriptor())
	require.NoError(t, err)

	manager.now = func() time.Time { return start.Add(300 * time.Second) }
	manager.Close(NewKey(WiFiOutage, []string{"wlan0"}))

	var incident models.Incident
	require.NoError(t, db.First(&incident, id).Error)

	assert.True(t, incident.IsResolved)
	require.NotNil(t, incident.EndTime)
	require.NotNil(t, incident.DurationSeconds)
	assert.Equal(t, 300, *incident.DurationSeconds)
	assert.Equal(t, 0, manager.OpenCount())
}

func TestResolvedIffEndTimeAndDurationSet(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	id, err := manager.OpenOrContinue(wifiOutageDescriptor())
	require.NoError(t, err)

	var open models.Incident
	require.NoError(t, db.First(&open, id).Error)
	assert.False(t, open.IsResolved)
	assert.Nil(t, open.EndTime)
	assert.Nil(t, open.DurationSeconds)

	manager.Close(NewKey(WiFiOutage, []string{"wlan0"}))

	var resolved models.Incident
	require.NoError(t, db.First(&resolved, id).Error)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.EndTime)
	require.NotNil(t, resolved.DurationSeconds)
	assert.GreaterOrEqual(t, *resolved.DurationSeconds, 0)
	assert.Equal(t, int(resolved.EndTime.Sub(resolved.StartTime).Seconds()), *resolved.DurationSeconds)
}

func TestCloseUnknownKeyIsNoop(t *testing.T) {
	manager := NewManager(newTestDB(t))

	manager.Close(NewKey(WiFiOutage, []string{"wlan0"}))

	assert.Equal(t, 0, manager.OpenCount())
}

func TestCloseWithMissingRecord(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	id, err := manager.OpenOrContinue(wifiOutageDescriptor())
	require.NoError(t, err)

	// External cleanup removed the row out from under the index.
	require.NoError(t, db.Unscoped().Delete(&models.Incident{}, id).Error)

	manager.Close(NewKey(WiFiOutage, []string{"wlan0"}))

	assert.Equal(t, 0, manager.OpenCount())
}

func TestReconcileClosesExactlyTheStaleSet(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	a := &Descriptor{Type: WiFiOutage, Severity: SeverityCritical, AffectedTargets: []string{"wlan0"}}
	b := &Descriptor{Type: InternetOutage, Severity: SeverityWarning, AffectedTargets: []string{"8.8.8.8"}}
	c := &Descriptor{Type: SensorOutage, Severity: SeverityWarning, AffectedTargets: []string{"garage"}}

	for _, desc := range []*Descriptor{a, b, c} {
		_, err := manager.OpenOrContinue(desc)
		require.NoError(t, err)
	}

	manager.Reconcile(map[Key]bool{b.Key(): true})

	keys := manager.OpenKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, b.Key(), keys[0])

	var resolved int64
	db.Model(&models.Incident{}).Where("is_resolved = ?", true).Count(&resolved)
	assert.EqualValues(t, 2, resolved)
}

func TestCloseTypesClosesAllTargetSets(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	// WiFi-class incidents with different targets: one from the WiFi
	// check, one from the gateway ping.
	descriptors := []*Descriptor{
		{Type: WiFiOutage, Severity: SeverityCritical, AffectedTargets: []string{"wlan0"}},
		{Type: WiFiOutage, Severity: SeverityCritical, AffectedTargets: []string{"192.168.1.1"}},
		{Type: WiFiDegradation, Severity: SeverityWarning, AffectedTargets: []string{"wlan0"}},
		{Type: InternetOutage, Severity: SeverityWarning, AffectedTargets: []string{"8.8.8.8"}},
	}

	for _, desc := range descriptors {
		_, err := manager.OpenOrContinue(desc)
		require.NoError(t, err)
	}

	manager.CloseTypes(WiFiOutage, WiFiDegradation)

	keys := manager.OpenKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, InternetOutage, keys[0].Type)
}

func TestCloseAllLeavesNothingOpen(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	_, err := manager.OpenOrContinue(wifiOutageDescriptor())
	require.NoError(t, err)
	_, err = manager.OpenOrContinue(&Descriptor{Type: SensorOutage, Severity: SeverityWarning, AffectedTargets: []string{"garage"}})
	require.NoError(t, err)

	manager.CloseAll()

	assert.Equal(t, 0, manager.OpenCount())

	var unresolved int64
	db.Model(&models.Incident{}).Where("is_resolved = ?", false).Count(&unresolved)
	assert.EqualValues(t, 0, unresolved)
}

func TestFailedPersistLeavesKeyUnregistered(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	require.NoError(t, db.Migrator().DropTable(&models.Incident{}))

	_, err := manager.OpenOrContinue(wifiOutageDescriptor())
	assert.Error(t, err)
	assert.Equal(t, 0, manager.OpenCount())

	// The next iteration retries once the store is back.
	require.NoError(t, db.AutoMigrate(&models.Incident{}))

	_, err = manager.OpenOrContinue(wifiOutageDescriptor())
	assert.NoError(t, err)
	assert.Equal(t, 1, manager.OpenCount())
}

func TestWiFiOutageEndToEnd(t *testing.T) {
	db := newTestDB(t)
	manager := NewManager(db)

	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return start }

	sample := &models.WiFiSample{Interface: "wlan0", IsConnected: false}
	desc := CheckWiFi(sample, -80)
	require.NotNil(t, desc)

	id, err := manager.OpenOrContinue(desc)
	require.NoError(t, err)

	// 300 seconds later the interface reconnects.
	manager.now = func() time.Time { return start.Add(300 * time.Second) }

	recovered := &models.WiFiSample{Interface: "wlan0", IsConnected: true, RSSI: intPtr(-50)}
	require.Nil(t, CheckWiFi(recovered, -80))

	manager.Close(NewKey(WiFiOutage, []string{"wlan0"}))

	var incident models.Incident
	require.NoError(t, db.First(&incident, id).Error)
	assert.True(t, incident.IsResolved)
	require.NotNil(t, incident.DurationSeconds)
	assert.Equal(t, 300, *incident.DurationSeconds)
}
