package telemetry

import (
	"github.com/golang/protobuf/proto"
)

// Status is the protobuf payload published on <device-id>/status.
type Status struct {
	DeviceId  string `protobuf:"bytes,1,opt,name=device_id,json=deviceId,proto3" json:"device_id,omitempty"`
	Profile   string `protobuf:"bytes,2,opt,name=profile,proto3" json:"profile,omitempty"`
	State     string `protobuf:"bytes,3,opt,name=state,proto3" json:"state,omitempty"`
	Policy    string `protobuf:"bytes,4,opt,name=policy,proto3" json:"policy,omitempty"`
	Cycles    uint64 `protobuf:"varint,5,opt,name=cycles,proto3" json:"cycles,omitempty"`
	Transfers uint64 `protobuf:"varint,6,opt,name=transfers,proto3" json:"transfers,omitempty"`
	Failures  uint64 `protobuf:"varint,7,opt,name=failures,proto3" json:"failures,omitempty"`
	LastError string `protobuf:"bytes,8,opt,name=last_error,json=lastError,proto3" json:"last_error,omitempty"`
	// Timestamp is unix nanoseconds.
	Timestamp int64 `protobuf:"varint,9,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Status) ProtoMessage() {}

// Encode marshals the status.
func (m *Status) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeStatus unmarshals a status payload.
func DecodeStatus(data []byte) (*Status, error) {
	var m Status
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
