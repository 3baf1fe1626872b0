package netcode

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// ErrShortPacket is returned by the Decode* functions when a packet is
// truncated relative to what its header claims.
var ErrShortPacket = errors.New("netcode: packet shorter than its header claims")

// ErrWrongMessageType is returned when a Decode* function is handed a packet
// whose leading msg-type byte doesn't match the function being called.
var ErrWrongMessageType = errors.New("netcode: wrong message type byte")

// inputFrameWireSize is the encoded size of one InputFrame: 6 fp axes as
// raw int64 (8 bytes each) plus a u32 command bitset.
const inputFrameWireSize = 6*8 + 4

// EncodeInputMessage serializes msg into the exact byte layout from spec.md
// §6: u8 msg-type, u16 sequence, u32 startFrame, u8 inputCount, the frame
// run, then a trailer of per-peer u32 lastReceivedFrame values and a u16
// CRC32-derived checksum over everything preceding it.
func EncodeInputMessage(msg InputMessage) []byte {
	size := 1 + 2 + 4 + 1 + len(msg.Frames)*inputFrameWireSize + len(msg.PeerLastReceived)*4 + 2
	buf := make([]byte, size)
	offset := 0

	buf[offset] = byte(MessageInput)
	offset++
	binary.LittleEndian.PutUint16(buf[offset:], msg.Sequence)
	offset += 2
	binary.LittleEndian.PutUint32(buf[offset:], msg.StartFrame)
	offset += 4
	buf[offset] = byte(len(msg.Frames))
	offset++

	for _, f := range msg.Frames {
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.MoveForward))
		offset += 8
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.MoveRight))
		offset += 8
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.MouseTurn))
		offset += 8
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.MouseLookUp))
		offset += 8
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.ControllerTurn))
		offset += 8
		binary.LittleEndian.PutUint64(buf[offset:], uint64(f.ControllerLookUp))
		offset += 8
		binary.LittleEndian.PutUint32(buf[offset:], f.CommandBits)
		offset += 4
	}

	for _, last := range msg.PeerLastReceived {
		binary.LittleEndian.PutUint32(buf[offset:], last)
		offset += 4
	}

	checksum := uint16(crc32.ChecksumIEEE(buf[:offset]))
	binary.LittleEndian.PutUint16(buf[offset:], checksum)

	return buf
}

// DecodeInputMessage parses a packet produced by EncodeInputMessage.
func DecodeInputMessage(data []byte) (InputMessage, error) {
	if len(data) < 1+2+4+1 {
		return InputMessage{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageInput {
		return InputMessage{}, ErrWrongMessageType
	}

	offset := 1
	msg := InputMessage{}
	msg.Sequence = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	msg.StartFrame = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	count := int(data[offset])
	offset++

	if len(data)-offset < count*inputFrameWireSize {
		return InputMessage{}, ErrShortPacket
	}

	msg.Frames = make([]InputFrame, count)
	for i := 0; i < count; i++ {
		var f InputFrame
		f.MoveForward = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.MoveRight = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.MouseTurn = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.MouseLookUp = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.ControllerTurn = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.ControllerLookUp = int64(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
		f.CommandBits = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
		msg.Frames[i] = f
	}

	// Whatever remains before the trailing u16 checksum is the per-peer
	// lastReceivedFrame array; its length is implied by the packet size
	// rather than carried explicitly, since the sender and receiver always
	// agree on peer count ahead of time via the sync handshake.
	if len(data)-offset < 2 {
		return InputMessage{}, ErrShortPacket
	}
	trailerLen := len(data) - offset - 2
	if trailerLen%4 != 0 {
		return InputMessage{}, ErrShortPacket
	}
	msg.PeerLastReceived = make([]uint32, trailerLen/4)
	for i := range msg.PeerLastReceived {
		msg.PeerLastReceived[i] = binary.LittleEndian.Uint32(data[offset:])
		offset += 4
	}

	msg.ConfirmedChecksum = binary.LittleEndian.Uint16(data[offset:])
	return msg, nil
}

// EncodeInputAck serializes an InputAck packet.
func EncodeInputAck(ack InputAck) []byte {
	buf := make([]byte, 1+4)
	buf[0] = byte(MessageInputAck)
	binary.LittleEndian.PutUint32(buf[1:], ack.AckFrame)
	return buf
}

// DecodeInputAck parses a packet produced by EncodeInputAck.
func DecodeInputAck(data []byte) (InputAck, error) {
	if len(data) < 5 {
		return InputAck{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageInputAck {
		return InputAck{}, ErrWrongMessageType
	}
	return InputAck{AckFrame: binary.LittleEndian.Uint32(data[1:])}, nil
}

// EncodeSyncRequest serializes a SyncRequest packet.
func EncodeSyncRequest(req SyncRequest) []byte {
	buf := make([]byte, 1+4)
	buf[0] = byte(MessageSyncRequest)
	binary.LittleEndian.PutUint32(buf[1:], req.Nonce)
	return buf
}

// DecodeSyncRequest parses a packet produced by EncodeSyncRequest.
func DecodeSyncRequest(data []byte) (SyncRequest, error) {
	if len(data) < 5 {
		return SyncRequest{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageSyncRequest {
		return SyncRequest{}, ErrWrongMessageType
	}
	return SyncRequest{Nonce: binary.LittleEndian.Uint32(data[1:])}, nil
}

// EncodeSyncReply serializes a SyncReply packet.
func EncodeSyncReply(reply SyncReply) []byte {
	buf := make([]byte, 1+4)
	buf[0] = byte(MessageSyncReply)
	binary.LittleEndian.PutUint32(buf[1:], reply.Nonce)
	return buf
}

// DecodeSyncReply parses a packet produced by EncodeSyncReply.
func DecodeSyncReply(data []byte) (SyncReply, error) {
	if len(data) < 5 {
		return SyncReply{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageSyncReply {
		return SyncReply{}, ErrWrongMessageType
	}
	return SyncReply{Nonce: binary.LittleEndian.Uint32(data[1:])}, nil
}

// EncodeQualityReport serializes a QualityReport packet.
func EncodeQualityReport(report QualityReport) []byte {
	buf := make([]byte, 1+4+4)
	buf[0] = byte(MessageQualityReport)
	binary.LittleEndian.PutUint32(buf[1:], report.SendTimeMillis)
	binary.LittleEndian.PutUint32(buf[5:], uint32(report.FrameAdvantage))
	return buf
}

// DecodeQualityReport parses a packet produced by EncodeQualityReport.
func DecodeQualityReport(data []byte) (QualityReport, error) {
	if len(data) < 9 {
		return QualityReport{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageQualityReport {
		return QualityReport{}, ErrWrongMessageType
	}
	return QualityReport{
		SendTimeMillis: binary.LittleEndian.Uint32(data[1:]),
		FrameAdvantage: int32(binary.LittleEndian.Uint32(data[5:])),
	}, nil
}

// EncodeQualityReply serializes a QualityReply packet.
func EncodeQualityReply(reply QualityReply) []byte {
	buf := make([]byte, 1+4)
	buf[0] = byte(MessageQualityReply)
	binary.LittleEndian.PutUint32(buf[1:], reply.SendTimeMillis)
	return buf
}

// DecodeQualityReply parses a packet produced by EncodeQualityReply.
func DecodeQualityReply(data []byte) (QualityReply, error) {
	if len(data) < 5 {
		return QualityReply{}, ErrShortPacket
	}
	if MessageType(data[0]) != MessageQualityReply {
		return QualityReply{}, ErrWrongMessageType
	}
	return QualityReply{SendTimeMillis: binary.LittleEndian.Uint32(data[1:])}, nil
}

// EncodeKeepAlive serializes a KeepAlive packet (msg-type byte only).
func EncodeKeepAlive() []byte {
	return []byte{byte(MessageKeepAlive)}
}

// PeekMessageType reads the leading msg-type byte without otherwise parsing
// the packet, letting a dispatcher route to the right Decode* function.
func PeekMessageType(data []byte) (MessageType, error) {
	if len(data) < 1 {
		return 0, ErrShortPacket
	}
	return MessageType(data[0]), nil
}
