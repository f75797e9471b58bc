package sim

import (
	"fmt"
	"log"
	"reflect"
	"sync"
)

// A SerialEngine is an Engine that always run events one after another.
type SerialEngine struct {
	*HookableBase

	timeLock sync.RWMutex
	time     VTimeInSec
	queue    EventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex
	stateLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)
	e.HookableBase = NewHookableBase()
	e.queue = NewEventQueue()

	return e
}

// Schedule registers an event to happen in the future
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"scheduling an event earlier than current time, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}

	e.queue.Push(evt)
}

func (e *SerialEngine) readNow() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine. The first error
// returned by a handler stops the run.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.queue.Len() == 0 {
			return nil
		}

		err := e.runNextEvent()
		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) runNextEvent() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	e.stateLock.Lock()
	defer e.stateLock.Unlock()

	evt := e.queue.Pop()
	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}
	e.writeNow(evt.Time())

	hookCtx := HookCtx{
		Domain: e,
		Now:    evt.Time(),
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := evt.Handler().Handle(evt)
	if err != nil {
		return fmt.Errorf("handling %s @ %.10f: %w",
			reflect.TypeOf(evt), evt.Time(), err)
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Inspect calls f between two events. It works whether or not the engine is
// paused.
func (e *SerialEngine) Inspect(f func()) {
	e.stateLock.Lock()
	defer e.stateLock.Unlock()

	f()
}

// IsPaused tells if the engine is currently paused.
func (e *SerialEngine) IsPaused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

// CurrentTime returns the run time of the event being handled.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	return e.readNow()
}

// RegisterSimulationEndHandler registers a handler to be called by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
