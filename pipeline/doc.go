// Package pipeline implements the bulk ingestion engine that drives
// ordered work items through transform and embed stages under two
// independently bounded worker pools.
//
// Successful artifacts are accumulated into fixed-size batches and
// flushed to a storage sink; success is attributed only after the sink
// confirms a batch. The package also provides run statistics and a
// progress/ETA readout.
package pipeline
