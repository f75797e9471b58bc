package tracing

import (
	"github.com/sarchlab/dtnsim/datarecording"
	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/sim"
)

// Table names used by the DBTracer.
const (
	MessageTableName  = "dtn_message"
	TransferTableName = "dtn_transfer"
	ContactTableName  = "dtn_contact"
)

type messageEntry struct {
	Time   float64
	Event  string
	ID     string
	Src    string
	Dst    string
	Size   int
	Hops   int
	Reason string
}

type transferEntry struct {
	Time      float64
	Event     string
	MsgID     string
	Sender    string
	Receiver  string
	StartTime float64
	DoneTime  float64
}

type contactEntry struct {
	Time     float64
	Event    string
	A        string
	B        string
	Duration float64
}

// DBTracer is a hook that stores world events into a DataRecorder.
type DBTracer struct {
	backend datarecording.DataRecorder
}

// NewDBTracer creates a DBTracer and the tables it writes into.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{backend: backend}

	backend.CreateTable(MessageTableName, messageEntry{})
	backend.CreateTable(TransferTableName, transferEntry{})
	backend.CreateTable(ContactTableName, contactEntry{})

	return t
}

// Func records the hook context as a row.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case *dtn.Message:
		t.recordMessage(ctx, item)
	case *dtn.Transfer:
		t.backend.InsertData(TransferTableName, transferEntry{
			Time:      float64(ctx.Now),
			Event:     ctx.Pos.Name,
			MsgID:     item.Msg.ID(),
			Sender:    item.From.Name(),
			Receiver:  item.To.Name(),
			StartTime: float64(item.StartTime),
			DoneTime:  float64(item.DoneTime),
		})
	case *dtn.Connection:
		a, b := item.Nodes()
		entry := contactEntry{
			Time:  float64(ctx.Now),
			Event: ctx.Pos.Name,
			A:     a.Name(),
			B:     b.Name(),
		}

		if d, ok := ctx.Detail.(sim.VTimeInSec); ok {
			entry.Duration = float64(d)
		}

		t.backend.InsertData(ContactTableName, entry)
	}
}

func (t *DBTracer) recordMessage(ctx sim.HookCtx, msg *dtn.Message) {
	entry := messageEntry{
		Time:  float64(ctx.Now),
		Event: ctx.Pos.Name,
		ID:    msg.ID(),
		Src:   msg.Source(),
		Dst:   msg.Destination(),
		Size:  msg.Size(),
		Hops:  msg.Hops(),
	}

	if reason, ok := ctx.Detail.(dtn.DropReason); ok {
		entry.Reason = string(reason)
	}

	t.backend.InsertData(MessageTableName, entry)
}

// Flush writes the buffered rows into the database.
func (t *DBTracer) Flush() {
	t.backend.Flush()
}
