package wire

import (
	"encoding/gob"

	"github.com/dreamware/distributed-colony/internal/colony"
)

// MessageKind tags an Envelope's payload so the receiver knows which
// concrete type to expect without a Go-side type switch on interface
// values crossing the wire.
type MessageKind string

const (
	KindPing                   MessageKind = "Ping"
	KindPong                   MessageKind = "Pong"
	KindInitColonyRequest      MessageKind = "InitColonyRequest"
	KindInitColonyResponse     MessageKind = "InitColonyResponse"
	KindInitColonyShardRequest MessageKind = "InitColonyShardRequest"
	KindInitColonyShardResponse MessageKind = "InitColonyShardResponse"
	KindInitShardTopographyRequest  MessageKind = "InitShardTopographyRequest"
	KindInitShardTopographyResponse MessageKind = "InitShardTopographyResponse"
	KindGetShardCurrentTickRequest  MessageKind = "GetShardCurrentTickRequest"
	KindGetShardCurrentTickResponse MessageKind = "GetShardCurrentTickResponse"
	KindGetShardImageRequest   MessageKind = "GetShardImageRequest"
	KindGetShardImageResponse  MessageKind = "GetShardImageResponse"
	KindGetShardLayerRequest   MessageKind = "GetShardLayerRequest"
	KindGetShardLayerResponse  MessageKind = "GetShardLayerResponse"
	KindGetShardStatsRequest   MessageKind = "GetShardStatsRequest"
	KindGetShardStatsResponse  MessageKind = "GetShardStatsResponse"
	KindUpdatedShardContents   MessageKind = "UpdatedShardContents"
	KindUpdatedShardContentsResponse MessageKind = "UpdatedShardContentsResponse"
	KindApplyEvent             MessageKind = "ApplyEvent"
	KindApplyEventResponse     MessageKind = "ApplyEventResponse"
	KindStartTicking           MessageKind = "StartTicking"
	KindStartTickingResponse   MessageKind = "StartTickingResponse"
	KindGetRoutingTableRequest  MessageKind = "GetRoutingTableRequest"
	KindGetRoutingTableResponse MessageKind = "GetRoutingTableResponse"
	KindErrorResponse           MessageKind = "ErrorResponse"
)

// Envelope is the on-wire unit: a tag plus whichever concrete payload
// struct that tag implies. Payload is gob-encoded as an interface value,
// so every concrete type below is registered with encoding/gob in
// init().
type Envelope struct {
	Kind    MessageKind
	Payload any
}

// --- Ping/Pong ---

type PingRequest struct{}
type PongResponse struct{}

// --- InitColony ---

type InitColonyRequest struct {
	Width, Height int
	Rules         colony.ColonyLifeRules
}

type InitColonyResponseStatus int

const (
	InitColonyOK InitColonyResponseStatus = iota
	InitColonyAlreadyInitialized
)

type InitColonyResponse struct {
	Status InitColonyResponseStatus
}

// --- InitColonyShard ---

type TopologySnapshot struct {
	ShardToHostAddr map[string]string // shard.ID() -> internal addr "host:port"
	Shards          []colony.Shard
}

type InitColonyShardRequest struct {
	Shard    colony.Shard
	Rules    colony.ColonyLifeRules
	Topology TopologySnapshot
}

type InitColonyShardResponseStatus int

const (
	InitColonyShardOK InitColonyShardResponseStatus = iota
	InitColonyShardAlreadyInitialized
	InitColonyShardColonyNotInitialized
	InitColonyShardInvalidDimensions
	InitColonyShardError
)

type InitColonyShardResponse struct {
	Status InitColonyShardResponseStatus
	Error  string
}

// --- InitShardTopography ---

type InitShardTopographyRequest struct {
	Shard          colony.Shard
	TopographyData []byte
}

type InitShardTopographyResponseStatus int

const (
	InitShardTopographyOK InitShardTopographyResponseStatus = iota
	InitShardTopographyShardNotInitialized
	InitShardTopographyInvalidData
)

type InitShardTopographyResponse struct {
	Status InitShardTopographyResponseStatus
}

// --- GetShardCurrentTick ---

type GetShardCurrentTickRequest struct {
	Shard colony.Shard
}

type GetShardCurrentTickResponse struct {
	Available bool
	Tick      uint64
}

// --- GetShardImage ---

type GetShardImageRequest struct {
	Shard colony.Shard
}

type GetShardImageResponse struct {
	Available bool
	Image     []byte
}

// --- GetShardLayer ---

type GetShardLayerRequest struct {
	Shard colony.Shard
	Layer string
}

type GetShardLayerResponse struct {
	Available bool
	Data      []int32
}

// --- GetShardStats ---

type GetShardStatsRequest struct {
	Shard   colony.Shard
	Metrics []string
}

type GetShardStatsResponse struct {
	Available  bool
	Histograms map[string]colony.Histogram
}

// --- UpdatedShardContents (halo delivery) ---

type UpdatedShardContentsRequest struct {
	Export colony.BorderExport
}

type UpdatedShardContentsResponse struct{}

// --- ApplyEvent ---

type ApplyEventRequest struct {
	Event colony.ColonyEvent
}

type ApplyEventResponse struct{}

// --- StartTicking ---

type StartTickingRequest struct{}
type StartTickingResponse struct{}

// --- GetRoutingTable (coordinator request) ---

type GetRoutingTableRequest struct{}

type RoutingEntry struct {
	Shard    colony.Shard
	Hostname string
	Port     int
}

type GetRoutingTableResponse struct {
	Entries []RoutingEntry
}

// ErrorResponsePayload carries a protocol-mismatch or unexpected-request
// error back to the caller without crashing the process.
type ErrorResponsePayload struct {
	Message string
}

func init() {
	gob.Register(PingRequest{})
	gob.Register(PongResponse{})
	gob.Register(InitColonyRequest{})
	gob.Register(InitColonyResponse{})
	gob.Register(InitColonyShardRequest{})
	gob.Register(InitColonyShardResponse{})
	gob.Register(InitShardTopographyRequest{})
	gob.Register(InitShardTopographyResponse{})
	gob.Register(GetShardCurrentTickRequest{})
	gob.Register(GetShardCurrentTickResponse{})
	gob.Register(GetShardImageRequest{})
	gob.Register(GetShardImageResponse{})
	gob.Register(GetShardLayerRequest{})
	gob.Register(GetShardLayerResponse{})
	gob.Register(GetShardStatsRequest{})
	gob.Register(GetShardStatsResponse{})
	gob.Register(UpdatedShardContentsRequest{})
	gob.Register(UpdatedShardContentsResponse{})
	gob.Register(ApplyEventRequest{})
	gob.Register(ApplyEventResponse{})
	gob.Register(StartTickingRequest{})
	gob.Register(StartTickingResponse{})
	gob.Register(GetRoutingTableRequest{})
	gob.Register(GetRoutingTableResponse{})
	gob.Register(ErrorResponsePayload{})
}
