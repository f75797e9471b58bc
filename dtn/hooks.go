package dtn

import "github.com/sarchlab/dtnsim/sim"

// Hook positions raised by the World. The hook item is a *Message for message
// positions, a *Transfer for transfer positions and a *Connection for contact
// positions.
var (
	HookPosMessageCreated   = &sim.HookPos{Name: "MessageCreated"}
	HookPosMessageDropped   = &sim.HookPos{Name: "MessageDropped"}
	HookPosMessageDelivered = &sim.HookPos{Name: "MessageDelivered"}
	HookPosTransferStarted  = &sim.HookPos{Name: "TransferStarted"}
	HookPosTransferDone     = &sim.HookPos{Name: "TransferDone"}
	HookPosTransferAborted  = &sim.HookPos{Name: "TransferAborted"}
	HookPosContactUp        = &sim.HookPos{Name: "ContactUp"}
	HookPosContactDown      = &sim.HookPos{Name: "ContactDown"}
)

// DropReason explains why a message left a buffer without being delivered.
// It is passed as the hook detail of HookPosMessageDropped.
type DropReason string

// Reasons for dropping messages.
const (
	DropExpired    DropReason = "expired"
	DropEvicted    DropReason = "evicted"
	DropNoCapacity DropReason = "no_capacity"
)
