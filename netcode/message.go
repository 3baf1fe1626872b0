package netcode

// MessageType tags the first byte of every wire packet. Closed set, switched
// on by dispatch rather than virtual-dispatched, per spec.md design note 9
// ("deep virtual class hierarchy... maps cleanly to tagged variants").
type MessageType uint8

const (
	MessageSyncRequest MessageType = iota
	MessageSyncReply
	MessageInput
	MessageInputAck
	MessageQualityReport
	MessageQualityReply
	MessageKeepAlive
)

func (t MessageType) String() string {
	switch t {
	case MessageSyncRequest:
		return "SyncRequest"
	case MessageSyncReply:
		return "SyncReply"
	case MessageInput:
		return "Input"
	case MessageInputAck:
		return "InputAck"
	case MessageQualityReport:
		return "QualityReport"
	case MessageQualityReply:
		return "QualityReply"
	case MessageKeepAlive:
		return "KeepAlive"
	default:
		return "Unknown"
	}
}

// SyncRequest carries a random nonce the peer must echo back in SyncReply.
// A round only counts once the echoed nonce matches.
type SyncRequest struct {
	Nonce uint32
}

// SyncReply echoes the nonce from the SyncRequest it answers.
type SyncReply struct {
	Nonce uint32
}

// InputFrame is one frame's worth of input for one peer, as carried inside
// an Input message's run.
type InputFrame struct {
	MoveForward      int64 // fp.Fixed raw value
	MoveRight        int64
	MouseTurn        int64
	MouseLookUp      int64
	ControllerTurn   int64
	ControllerLookUp int64
	CommandBits      uint32
}

// InputMessage bundles a run of consecutive frames' input starting at
// StartFrame, plus this sender's view of every peer's last-received frame
// (for disconnect detection), per spec.md §6's wire format.
type InputMessage struct {
	Sequence          uint16
	StartFrame        uint32
	Frames            []InputFrame
	PeerLastReceived  []uint32 // indexed by peer queue
	ConfirmedChecksum uint16
}

// InputAck tells the sender which frame we've fully received and buffered,
// so it can stop bundling frames at or before this one.
type InputAck struct {
	AckFrame uint32
}

// QualityReport carries one side's view of round-trip time and frame
// advantage, used to derive a time-sync recommendation.
type QualityReport struct {
	SendTimeMillis uint32
	FrameAdvantage int32
}

// QualityReply echoes the report's send time so the requester can compute
// round-trip time.
type QualityReply struct {
	SendTimeMillis uint32
}

// KeepAlive carries no payload; sending one resets the peer's disconnect
// timer without advancing simulation state.
type KeepAlive struct{}
