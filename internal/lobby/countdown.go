package lobby

import (
	"time"

	"github.com/ayusman/mudra/internal/game"
	"github.com/ayusman/mudra/internal/protocol"
)

// countdownTicks are emitted one interval apart before capture starts.
var countdownTicks = []any{3, 2, 1, protocol.CountdownGo}

// startCountdownLocked moves the room into its countdown and spawns the task
// that drives it. Rooms that are not waiting or ready are left alone.
func (r *Registry) startCountdownLocked(room *game.Room) {
	gen, ok := room.BeginCountdown()
	if !ok {
		return
	}

	r.log.Infow("countdown started", "room", room.ID, "round", gen)

	r.wg.Add(1)
	go r.runCountdown(room, gen)
}

// runCountdown emits the ticks, then switches the room to capture. Before
// each emission it checks that this countdown still owns the room; a room
// that was deleted, reset or restarted in the meantime ends the task
// silently.
func (r *Registry) runCountdown(room *game.Room, gen uint64) {
	defer r.wg.Done()

	for _, tick := range countdownTicks {
		if !r.emitIfLive(room, gen, protocol.Countdown(tick)) {
			return
		}
		if !r.wait() {
			return
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.liveLocked(room, gen) {
		r.log.Debugw("countdown aborted", "room", room.ID, "round", gen)
		return
	}
	room.SetStatus(game.StatusCapture)
	r.broadcastRoomLocked(room.ID, protocol.CaptureGesture())
}

func (r *Registry) emitIfLive(room *game.Room, gen uint64, e protocol.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.liveLocked(room, gen) {
		r.log.Debugw("countdown aborted", "room", room.ID, "round", gen)
		return false
	}
	r.broadcastRoomLocked(room.ID, e)
	return true
}

func (r *Registry) liveLocked(room *game.Room, gen uint64) bool {
	return r.rooms[room.ID] == room &&
		room.Round() == gen &&
		room.Status() == game.StatusCountdown
}

// wait sleeps one countdown interval. It returns false if the registry was
// closed first.
func (r *Registry) wait() bool {
	timer := time.NewTimer(r.cfg.CountdownInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-r.ctx.Done():
		return false
	}
}
