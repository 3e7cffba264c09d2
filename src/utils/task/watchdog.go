package task

import (
	"sync"
	"time"

	"github.com/adtgram/engine/src/utils/config"
)

// Watchdog restarts the watched task whenever the health check fails
type Watchdog struct {
	*Task

	mtx       sync.Mutex
	construct func() *Task
	isOK      func() bool
	watched   *Task
}

func NewWatchdog(config *config.Config) (self *Watchdog) {
	self = new(Watchdog)

	self.Task = NewTask(config, "watchdog").
		WithOnBeforeStart(self.startWatched).
		WithPeriodicSubtaskFunc(30*time.Second, self.check).
		WithOnStop(self.stopWatched)
	return
}

// WithTask sets the constructor of the watched task, called upon every restart
func (self *Watchdog) WithTask(f func() *Task) *Watchdog {
	self.construct = f
	return self
}

func (self *Watchdog) WithIsOK(f func() bool) *Watchdog {
	self.isOK = f
	return self
}

func (self *Watchdog) startWatched() (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.watched = self.construct()
	return self.watched.Start()
}

func (self *Watchdog) stopWatched() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.watched.StopWait()
}

func (self *Watchdog) check() (err error) {
	if self.isOK() {
		return nil
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.IsStopping.Load() {
		return nil
	}

	self.Log.Warn("Health check failed, restarting the watched task")
	self.watched.StopWait()
	self.watched = self.construct()
	return self.watched.Start()
}
