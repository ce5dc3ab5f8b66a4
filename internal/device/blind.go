package device

import (
	"fmt"
	"sync"
	"time"
)

// DefaultStepInterval is the blind drive tick interval matching
// StepsPerSecond.
const DefaultStepInterval = time.Second / StepsPerSecond

type blindKey struct {
	room string
	name string
}

// Drive is the handle of one running blind drive.
type Drive struct {
	Room      string
	Blind     string
	Direction Direction

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stop cancels the drive and waits until it has made its last move. Calling
// Stop on a finished or already stopped drive does nothing.
func (d *Drive) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

// Done is closed once the drive has ended, by Stop or at end of travel.
func (d *Drive) Done() <-chan struct{} {
	return d.done
}

// Driver runs blind drives: one ticking goroutine per moving blind, which
// steps the position until stopped or until the blind reaches 0 or 100.
type Driver struct {
	reg      *Registry
	interval time.Duration
	logger   Logger

	mu     sync.Mutex
	drives map[blindKey]*Drive
	onStep func(roomID string, d Device)
}

// NewDriver creates a Driver stepping blinds in reg every interval. A
// non-positive interval selects DefaultStepInterval.
func NewDriver(reg *Registry, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultStepInterval
	}
	return &Driver{
		reg:      reg,
		interval: interval,
		logger:   noopLogger{},
		drives:   make(map[blindKey]*Drive),
	}
}

// SetLogger sets the logger for the driver.
func (dr *Driver) SetLogger(logger Logger) {
	dr.logger = logger
}

// OnStep registers fn to receive a copy of the blind after every step.
// fn runs on the drive goroutine and must not call Stop on that drive.
func (dr *Driver) OnStep(fn func(roomID string, d Device)) {
	dr.mu.Lock()
	dr.onStep = fn
	dr.mu.Unlock()
}

// Start begins driving the blind in direction dir. A drive already running
// for the same blind is stopped first, so at most one drive moves a blind.
func (dr *Driver) Start(roomID, name string, dir Direction) (*Drive, error) {
	if dir != DirectionOpen && dir != DirectionClose {
		return nil, ErrInvalidDirection
	}
	d, err := dr.reg.Device(roomID, name)
	if err != nil {
		return nil, err
	}
	if _, ok := d.(*Blind); !ok {
		return nil, fmt.Errorf("%w: drive %s", ErrWrongDeviceType, d.Type())
	}

	drive := &Drive{
		Room:      roomID,
		Blind:     name,
		Direction: dir,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	key := blindKey{room: roomID, name: name}

	dr.mu.Lock()
	previous := dr.drives[key]
	dr.drives[key] = drive
	dr.mu.Unlock()

	if previous != nil {
		previous.Stop()
	}

	dr.logger.Debug("blind drive started", "room", roomID, "blind", name, "direction", dir)
	go dr.run(key, drive)
	return drive, nil
}

// Stop stops the running drive of the blind, if any. It reports whether a
// drive was running.
func (dr *Driver) Stop(roomID, name string) bool {
	dr.mu.Lock()
	drive := dr.drives[blindKey{room: roomID, name: name}]
	dr.mu.Unlock()

	if drive == nil {
		return false
	}
	drive.Stop()
	return true
}

// Active reports whether a drive is running for the blind.
func (dr *Driver) Active(roomID, name string) bool {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	_, ok := dr.drives[blindKey{room: roomID, name: name}]
	return ok
}

// ActiveCount returns the number of running drives.
func (dr *Driver) ActiveCount() int {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return len(dr.drives)
}

// Close stops every running drive.
func (dr *Driver) Close() {
	dr.mu.Lock()
	drives := make([]*Drive, 0, len(dr.drives))
	for _, d := range dr.drives {
		drives = append(drives, d)
	}
	dr.mu.Unlock()

	for _, d := range drives {
		d.Stop()
	}
}

func (dr *Driver) run(key blindKey, drive *Drive) {
	ticker := time.NewTicker(dr.interval)
	defer func() {
		ticker.Stop()
		dr.mu.Lock()
		if dr.drives[key] == drive {
			delete(dr.drives, key)
		}
		dr.mu.Unlock()
		close(drive.done)
	}()

	for {
		select {
		case <-drive.stop:
			return
		case <-ticker.C:
		}

		// Stop may race with a tick; it wins.
		select {
		case <-drive.stop:
			return
		default:
		}

		d, atBound, err := dr.reg.DriveBlind(key.room, key.name, drive.Direction, 1)
		if err != nil {
			dr.logger.Warn("blind drive aborted", "room", key.room, "blind", key.name, "error", err)
			return
		}

		dr.mu.Lock()
		onStep := dr.onStep
		dr.mu.Unlock()
		if onStep != nil {
			onStep(key.room, d)
		}

		if atBound {
			dr.logger.Debug("blind reached end of travel", "room", key.room, "blind", key.name)
			return
		}
	}
}
