package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/utils"
)

// StateStore keeps what the watch sync remembers between runs.
// *database.Database satisfies it.
type StateStore interface {
	GetSettingValue(key string) string
	SetSetting(key, value string) error
}

// SyncFunc does the work of one sync and summarises it.
type SyncFunc func(ctx context.Context) (string, error)

// Run outcomes stored under entities.SettingKeyWatchLastStatus.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusUnchanged = "unchanged"
)

// WatchScheduler periodically checks the clippings file and runs a sync
// whenever its content changed since the last successful run.
type WatchScheduler struct {
	cfg       config.Watch
	clippings []string
	state     StateStore
	sync      SyncFunc

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	syncMu     sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewWatchScheduler watches the first existing file among clippings.
func NewWatchScheduler(cfg config.Watch, state StateStore, syncFn SyncFunc, clippings ...string) *WatchScheduler {
	return &WatchScheduler{
		cfg:       cfg,
		clippings: clippings,
		state:     state,
		sync:      syncFn,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the watch is enabled
func (s *WatchScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Watch scheduler: disabled")
		return nil
	}

	if err := config.ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runSync(cancelCtx)
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule watch job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := config.GetNextRunTime(s.cfg.Schedule, time.Now())
	log.Printf("Watch scheduler: started with schedule '%s' (%s). Next run: %v",
		s.cfg.Schedule,
		config.GetCronDescription(s.cfg.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running sync to finish and stops the scheduler
func (s *WatchScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Watch scheduler: stopped")
}

// RunNow runs one sync immediately and returns its outcome.
func (s *WatchScheduler) RunNow(ctx context.Context) string {
	return s.runSync(ctx)
}

func (s *WatchScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sync will occur
func (s *WatchScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync returns the status it recorded, or "" when the tick was skipped
// because another sync was still running.
func (s *WatchScheduler) runSync(ctx context.Context) string {
	if !s.syncMu.TryLock() {
		log.Printf("Watch sync: skipped (previous sync still running)")
		return ""
	}
	defer s.syncMu.Unlock()

	path := s.clippingsFile()
	if path == "" {
		log.Printf("Watch sync: skipped (no clippings file found)")
		s.setStatus(StatusUnchanged, "No clippings file found")
		return StatusUnchanged
	}

	digest, err := utils.FileDigest(path)
	if err != nil {
		errMsg := fmt.Sprintf("Failed to read %s: %v", path, err)
		log.Printf("Watch sync: %s", errMsg)
		s.setStatus(StatusFailed, errMsg)
		return StatusFailed
	}
	if digest == s.state.GetSettingValue(entities.SettingKeyWatchClippingsDigest) {
		log.Printf("Watch sync: %s unchanged", path)
		s.setStatus(StatusUnchanged, "Clippings unchanged")
		return StatusUnchanged
	}

	log.Printf("Watch sync: starting, %s changed", path)
	startTime := time.Now()

	summary, err := s.sync(ctx)
	if err != nil {
		errMsg := fmt.Sprintf("Sync failed: %v", err)
		log.Printf("Watch sync: %s", errMsg)
		s.setStatus(StatusFailed, errMsg)
		return StatusFailed
	}

	if err := s.state.SetSetting(entities.SettingKeyWatchClippingsDigest, digest); err != nil {
		log.Printf("Watch sync: warning - failed to store clippings digest: %v", err)
	}

	successMsg := fmt.Sprintf("%s in %v", summary, time.Since(startTime).Round(time.Millisecond))
	log.Printf("Watch sync: %s", successMsg)
	s.setStatus(StatusSuccess, successMsg)
	return StatusSuccess
}

func (s *WatchScheduler) clippingsFile() string {
	for _, path := range s.clippings {
		if path != "" && utils.FileExists(path) {
			return path
		}
	}
	return ""
}

func (s *WatchScheduler) setStatus(status, message string) {
	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range map[string]string{
		entities.SettingKeyWatchLastAt:      now,
		entities.SettingKeyWatchLastStatus:  status,
		entities.SettingKeyWatchLastMessage: message,
	} {
		if err := s.state.SetSetting(key, value); err != nil {
			log.Printf("Watch sync: warning - failed to store %s: %v", key, err)
		}
	}
}
