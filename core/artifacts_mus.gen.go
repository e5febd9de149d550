// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	map5HbTTDJ2m97pwoMQmPIq6AΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	slice18aWAepzΔy2fΔZ3tYGVvggΞΞ = ord.NewSliceSer[float32](varint.Float32)
	sliceHPLcmudWsx4XdzO33lFfJwΞΞ = ord.NewSliceSer[uint64](varint.Uint64)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ArtifactMUS = artifactMUS{}

type artifactMUS struct{}

func (s artifactMUS) Marshal(v Artifact, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += slice18aWAepzΔy2fΔZ3tYGVvggΞΞ.Marshal(v.Vector, bs[n:])
	n += map5HbTTDJ2m97pwoMQmPIq6AΞΞ.Marshal(v.Payload, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s artifactMUS) Unmarshal(bs []byte) (v Artifact, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = slice18aWAepzΔy2fΔZ3tYGVvggΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Payload, n1, err = map5HbTTDJ2m97pwoMQmPIq6AΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s artifactMUS) Size(v Artifact) (size int) {
	size = IDMUS.Size(v.Id)
	size += slice18aWAepzΔy2fΔZ3tYGVvggΞΞ.Size(v.Vector)
	size += map5HbTTDJ2m97pwoMQmPIq6AΞΞ.Size(v.Payload)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s artifactMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slice18aWAepzΔy2fΔZ3tYGVvggΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = map5HbTTDJ2m97pwoMQmPIq6AΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var CheckpointMUS = checkpointMUS{}

type checkpointMUS struct{}

func (s checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.RunID, bs)
	n += sliceHPLcmudWsx4XdzO33lFfJwΞΞ.Marshal(v.Persisted, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	v.RunID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Persisted, n1, err = sliceHPLcmudWsx4XdzO33lFfJwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s checkpointMUS) Size(v Checkpoint) (size int) {
	size = ord.String.Size(v.RunID)
	size += sliceHPLcmudWsx4XdzO33lFfJwΞΞ.Size(v.Persisted)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s checkpointMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceHPLcmudWsx4XdzO33lFfJwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
